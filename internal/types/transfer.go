package types

import (
	"github.com/LeJamon/goAT2/internal/codec/binarycodec"
)

// Transfer moves an amount from the account identified by ID.Actor to the
// account identified by To. To differing from ID.Actor is an invariant
// enforced at creation time by the actor.
type Transfer struct {
	// ID is the unique identity of this transfer; ID.Actor is the sender.
	ID Dot
	// To is the recipient account.
	To AccountID
	// Amount is the transferred amount.
	Amount Money
}

// Bytes returns the canonical serialisation of the transfer. These bytes
// are the signing domain of the actor signature.
func (t Transfer) Bytes() []byte {
	enc := binarycodec.NewSerializer()
	t.EncodeTo(enc)
	return enc.Bytes()
}

// EncodeTo appends the canonical encoding: dot, recipient, amount.
func (t Transfer) EncodeTo(enc *binarycodec.Serializer) {
	t.ID.EncodeTo(enc)
	t.To.EncodeTo(enc)
	enc.WriteUint64(t.Amount.Nano())
}

// DecodeTransfer reads a transfer from the parser.
func DecodeTransfer(p *binarycodec.Parser) (Transfer, error) {
	id, err := DecodeDot(p)
	if err != nil {
		return Transfer{}, err
	}
	to, err := DecodeAccountID(p)
	if err != nil {
		return Transfer{}, err
	}
	amount, err := p.ReadUint64()
	if err != nil {
		return Transfer{}, err
	}
	return Transfer{ID: id, To: to, Amount: FromNano(amount)}, nil
}

// SignedTransfer is a transfer plus the sender's signature over the
// transfer's canonical serialisation. The signature must verify under
// ID.Actor.
type SignedTransfer struct {
	Transfer       Transfer
	ActorSignature []byte
}

// ID returns the transfer's dot.
func (s SignedTransfer) ID() Dot {
	return s.Transfer.ID
}

// Bytes returns the canonical serialisation of the signed transfer. These
// bytes are the signing domain of replica signature shares and of the
// aggregated group signature.
func (s SignedTransfer) Bytes() []byte {
	enc := binarycodec.NewSerializer()
	s.EncodeTo(enc)
	return enc.Bytes()
}

// EncodeTo appends the canonical encoding: transfer, then the signature
// length-prefixed.
func (s SignedTransfer) EncodeTo(enc *binarycodec.Serializer) {
	s.Transfer.EncodeTo(enc)
	enc.WriteBytes(s.ActorSignature)
}

// DecodeSignedTransfer reads a signed transfer from the parser.
func DecodeSignedTransfer(p *binarycodec.Parser) (SignedTransfer, error) {
	t, err := DecodeTransfer(p)
	if err != nil {
		return SignedTransfer{}, err
	}
	sig, err := p.ReadBytes()
	if err != nil {
		return SignedTransfer{}, err
	}
	return SignedTransfer{Transfer: t, ActorSignature: sig}, nil
}
