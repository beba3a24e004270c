package threshold

import (
	"bytes"
	"fmt"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/share"
	"go.dedis.ch/kyber/v3/sign/tbls"

	"github.com/LeJamon/goAT2/internal/codec/binarycodec"
)

// PublicKeySet is the public half of a Replica group's threshold key: the
// commitment polynomial plus the group size. It identifies the group,
// verifies individual shares, and combines a quorum of shares into the
// group signature.
type PublicKeySet struct {
	poly *share.PubPoly
	n    int
}

// NewPublicKeySet wraps a commitment polynomial for a group of n replicas.
func NewPublicKeySet(poly *share.PubPoly, n int) *PublicKeySet {
	return &PublicKeySet{poly: poly, n: n}
}

// Threshold returns t, where a quorum of t+1 shares is needed to combine
// the group signature.
func (s *PublicKeySet) Threshold() int {
	return s.poly.Threshold() - 1
}

// Size returns the number of replicas in the group.
func (s *PublicKeySet) Size() int {
	return s.n
}

// PublicKey returns the group public key, against which combined
// signatures verify.
func (s *PublicKeySet) PublicKey() PublicKey {
	return PublicKey{point: s.poly.Commit()}
}

// PublicKeyShare returns the public key of the replica at the given index.
func (s *PublicKeySet) PublicKeyShare(i int) PublicKey {
	return PublicKey{point: s.poly.Eval(i).V}
}

// VerifyShare checks one replica's signature share over msg, including
// that the share was produced by the replica at the share's index.
func (s *PublicKeySet) VerifyShare(msg []byte, sh SignatureShare) error {
	if err := tbls.Verify(suite, s.poly, msg, sh.Share); err != nil {
		return ErrInvalidSignature
	}
	idx, err := tbls.SigShare(sh.Share).Index()
	if err != nil || idx != sh.Index {
		return ErrInvalidSignature
	}
	return nil
}

// Combine recovers the group signature from a quorum of shares and
// verifies it against the group public key before returning it. At least
// Threshold()+1 distinct-index shares are required.
func (s *PublicKeySet) Combine(msg []byte, shares []SignatureShare) ([]byte, error) {
	if len(shares) < s.Threshold()+1 {
		return nil, ErrNotEnoughShares
	}
	sigs := make([][]byte, 0, len(shares))
	for _, sh := range shares {
		sigs = append(sigs, sh.Share)
	}
	sig, err := tbls.Recover(suite, s.poly, msg, sigs, s.Threshold()+1, s.n)
	if err != nil {
		return nil, fmt.Errorf("combine signature shares: %w", err)
	}
	if err := s.PublicKey().Verify(msg, sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// Bytes returns the canonical encoding of the set: group size, commit
// count, then each commitment point length-prefixed.
func (s *PublicKeySet) Bytes() []byte {
	enc := binarycodec.NewSerializer()
	s.EncodeTo(enc)
	return enc.Bytes()
}

// EncodeTo appends the canonical encoding to an ongoing serialisation.
func (s *PublicKeySet) EncodeTo(enc *binarycodec.Serializer) {
	_, commits := s.poly.Info()
	enc.WriteUint16(uint16(s.n))
	enc.WriteUint16(uint16(len(commits)))
	for _, c := range commits {
		b, err := c.MarshalBinary()
		if err != nil {
			panic(fmt.Sprintf("threshold: marshal commitment: %v", err))
		}
		enc.WriteBytes(b)
	}
}

// DecodePublicKeySet reads a public key set from the parser.
func DecodePublicKeySet(p *binarycodec.Parser) (*PublicKeySet, error) {
	n, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	count, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if count == 0 || int(count) > int(n) {
		return nil, ErrInvalidKey
	}
	commits := make([]kyber.Point, count)
	for i := range commits {
		raw, err := p.ReadBytes()
		if err != nil {
			return nil, err
		}
		pt := suite.G2().Point()
		if err := pt.UnmarshalBinary(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		commits[i] = pt
	}
	poly := share.NewPubPoly(suite.G2(), suite.G2().Point().Base(), commits)
	return &PublicKeySet{poly: poly, n: int(n)}, nil
}

// PublicKeySetFromBytes decodes a set from its canonical encoding.
func PublicKeySetFromBytes(b []byte) (*PublicKeySet, error) {
	p := binarycodec.NewParser(b)
	s, err := DecodePublicKeySet(p)
	if err != nil {
		return nil, err
	}
	if err := p.Done(); err != nil {
		return nil, err
	}
	return s, nil
}

// Key returns the canonical encoding as a string, for use as a map key.
func (s *PublicKeySet) Key() string {
	return string(s.Bytes())
}

// Equal reports whether two sets describe the same group key.
func (s *PublicKeySet) Equal(other *PublicKeySet) bool {
	if s == nil || other == nil {
		return s == other
	}
	return bytes.Equal(s.Bytes(), other.Bytes())
}
