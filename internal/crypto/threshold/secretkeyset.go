package threshold

import (
	"fmt"

	"go.dedis.ch/kyber/v3/share"
	"go.dedis.ch/kyber/v3/sign/tbls"
)

// SecretKeySet is the dealer side of a threshold key: the secret
// polynomial from which every replica's key share derives. Replica key
// generation happens outside the Actor; this type exists for fixtures,
// the demo command, and tests.
type SecretKeySet struct {
	poly   *share.PriPoly
	shares []*share.PriShare
	pub    *PublicKeySet
	n      int
}

// RandomSecretKeySet deals a fresh secret key set for a group of n
// replicas with threshold t (a quorum is t+1 shares).
func RandomSecretKeySet(t, n int) (*SecretKeySet, error) {
	if t < 0 || n <= t {
		return nil, fmt.Errorf("invalid group parameters: t=%d n=%d", t, n)
	}
	poly := share.NewPriPoly(suite.G2(), t+1, nil, suite.RandomStream())
	pub := poly.Commit(suite.G2().Point().Base())
	return &SecretKeySet{
		poly:   poly,
		shares: poly.Shares(n),
		pub:    NewPublicKeySet(pub, n),
		n:      n,
	}, nil
}

// PublicKeys returns the matching public key set.
func (s *SecretKeySet) PublicKeys() *PublicKeySet {
	return s.pub
}

// Size returns the number of replicas in the group.
func (s *SecretKeySet) Size() int {
	return s.n
}

// SignShare produces the signature share of the replica at index i over
// msg.
func (s *SecretKeySet) SignShare(i int, msg []byte) (SignatureShare, error) {
	if i < 0 || i >= s.n {
		return SignatureShare{}, fmt.Errorf("share index %d out of range [0,%d)", i, s.n)
	}
	sig, err := tbls.Sign(suite, s.shares[i], msg)
	if err != nil {
		return SignatureShare{}, fmt.Errorf("sign share %d: %w", i, err)
	}
	return SignatureShare{Index: i, Share: sig}, nil
}
