// Package types defines the value objects of the transfer protocol:
// account identities, transfer dots, money amounts, transfers and the
// proofs exchanged with Replica groups. All wire-relevant types carry a
// canonical binary encoding (see internal/codec/binarycodec).
package types

import (
	"encoding/hex"
	"errors"

	"github.com/LeJamon/goAT2/internal/codec/binarycodec"
)

// AccountIDSize is the size of an account identifier in bytes.
const AccountIDSize = 32

// AccountID identifies an account by its ed25519 public key. Equality and
// hashing are by raw key bytes.
type AccountID [AccountIDSize]byte

// ErrInvalidAccountID indicates bytes of the wrong length.
var ErrInvalidAccountID = errors.New("invalid account id length")

// AccountIDFromBytes builds an AccountID from raw key bytes.
func AccountIDFromBytes(b []byte) (AccountID, error) {
	var id AccountID
	if len(b) != AccountIDSize {
		return id, ErrInvalidAccountID
	}
	copy(id[:], b)
	return id, nil
}

// IsZero reports whether the id is the zero value.
func (id AccountID) IsZero() bool {
	return id == AccountID{}
}

// String returns the hex form of the key.
func (id AccountID) String() string {
	return hex.EncodeToString(id[:])
}

// EncodeTo appends the id as raw fixed-width bytes.
func (id AccountID) EncodeTo(enc *binarycodec.Serializer) {
	enc.WriteRaw(id[:])
}

// DecodeAccountID reads a fixed-width account id from the parser.
func DecodeAccountID(p *binarycodec.Parser) (AccountID, error) {
	raw, err := p.ReadRaw(AccountIDSize)
	if err != nil {
		return AccountID{}, err
	}
	var id AccountID
	copy(id[:], raw)
	return id, nil
}
