package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/LeJamon/goAT2/internal/types"
)

// Ed25519KeyPair implements KeyPair over crypto/ed25519.
type Ed25519KeyPair struct {
	priv ed25519.PrivateKey
	id   types.AccountID
}

// GenerateEd25519 creates a fresh random keypair.
func GenerateEd25519() (*Ed25519KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	id, err := types.AccountIDFromBytes(pub)
	if err != nil {
		return nil, err
	}
	return &Ed25519KeyPair{priv: priv, id: id}, nil
}

// Ed25519FromSeed derives a keypair deterministically from a 32-byte seed.
func Ed25519FromSeed(seed []byte) (*Ed25519KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidSeed
	}
	priv := ed25519.NewKeyFromSeed(bytes.Clone(seed))
	id, err := types.AccountIDFromBytes(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Ed25519KeyPair{priv: priv, id: id}, nil
}

// Sign signs msg with the secret key.
func (k *Ed25519KeyPair) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, msg), nil
}

// PublicKey returns the account identity of this key.
func (k *Ed25519KeyPair) PublicKey() types.AccountID {
	return k.id
}

// Verify checks an ed25519 signature by the given account over msg.
func Verify(id types.AccountID, msg, sig []byte) error {
	if !ed25519.Verify(ed25519.PublicKey(id[:]), msg, sig) {
		return ErrInvalidSignature
	}
	return nil
}
