package threshold

import (
	"encoding/hex"
	"errors"
	"fmt"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/sign/bls"
)

var (
	// ErrInvalidSignature indicates a signature or share that does not
	// verify under the expected key.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidKey indicates key bytes that do not decode to a group
	// element.
	ErrInvalidKey = errors.New("invalid public key bytes")

	// ErrNotEnoughShares indicates fewer shares than the quorum requires.
	ErrNotEnoughShares = errors.New("not enough signature shares")
)

// PublicKey is a BLS public key identifying a Replica group (or a single
// aggregated signer). It verifies aggregated signatures produced by a
// quorum of that group.
type PublicKey struct {
	point kyber.Point
}

// PublicKeyFromBytes decodes a public key from its canonical encoding.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	p := suite.G2().Point()
	if err := p.UnmarshalBinary(b); err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return PublicKey{point: p}, nil
}

// Bytes returns the canonical encoding of the key.
func (pk PublicKey) Bytes() []byte {
	b, err := pk.point.MarshalBinary()
	if err != nil {
		// Marshalling a valid group element cannot fail.
		panic(fmt.Sprintf("threshold: marshal public key: %v", err))
	}
	return b
}

// Equal reports whether two keys are the same group element.
func (pk PublicKey) Equal(other PublicKey) bool {
	if pk.point == nil || other.point == nil {
		return pk.point == nil && other.point == nil
	}
	return pk.point.Equal(other.point)
}

// Verify checks an aggregated BLS signature over msg.
func (pk PublicKey) Verify(msg, sig []byte) error {
	if pk.point == nil {
		return ErrInvalidKey
	}
	if err := bls.Verify(suite, pk.point, msg, sig); err != nil {
		return ErrInvalidSignature
	}
	return nil
}

// String returns a short hex form for logs and errors.
func (pk PublicKey) String() string {
	b := pk.Bytes()
	if len(b) > 8 {
		b = b[:8]
	}
	return hex.EncodeToString(b)
}
