package crypto_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goAT2/internal/crypto"
)

func TestSignAndVerify(t *testing.T) {
	keypair, err := crypto.GenerateEd25519()
	require.NoError(t, err)

	msg := []byte("canonical payload bytes")
	sig, err := keypair.Sign(msg)
	require.NoError(t, err)

	require.NoError(t, crypto.Verify(keypair.PublicKey(), msg, sig))
	assert.ErrorIs(t, crypto.Verify(keypair.PublicKey(), []byte("other"), sig), crypto.ErrInvalidSignature)

	other, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	assert.ErrorIs(t, crypto.Verify(other.PublicKey(), msg, sig), crypto.ErrInvalidSignature)
}

func TestFromSeedIsDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := crypto.Ed25519FromSeed(seed)
	require.NoError(t, err)
	b, err := crypto.Ed25519FromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey(), b.PublicKey())

	_, err = crypto.Ed25519FromSeed([]byte{1, 2})
	assert.ErrorIs(t, err, crypto.ErrInvalidSeed)
}
