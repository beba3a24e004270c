// Package crypto provides the actor-side signing capability: an injected
// key holder that signs canonical payload bytes and exposes its public
// key as the account identity.
package crypto

import (
	"errors"

	"github.com/LeJamon/goAT2/internal/types"
)

var (
	// ErrInvalidSignature indicates a signature that does not verify.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidSeed indicates seed material of the wrong size.
	ErrInvalidSeed = errors.New("invalid seed length")
)

// KeyPair holds an account's signing key. Implementations sign the raw
// canonical serialisation of a payload; no hashing or domain separation
// is applied by the caller.
type KeyPair interface {
	// Sign signs msg with the account's secret key.
	Sign(msg []byte) ([]byte, error)

	// PublicKey returns the account identity of this key.
	PublicKey() types.AccountID
}
