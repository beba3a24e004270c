package types

import (
	"github.com/LeJamon/goAT2/internal/codec/binarycodec"
	"github.com/LeJamon/goAT2/internal/crypto/threshold"
)

// DebitAgreementProof certifies that a quorum of a Replica group validated
// a debit: the signed transfer plus the group's aggregated threshold-BLS
// signature over its canonical serialisation. The signature verifies under
// ReplicaKey.PublicKey().
type DebitAgreementProof struct {
	SignedTransfer      SignedTransfer
	DebitingReplicasSig []byte
	ReplicaKey          *threshold.PublicKeySet
}

// ID returns the dot of the debited transfer.
func (p DebitAgreementProof) ID() Dot {
	return p.SignedTransfer.ID()
}

// From returns the debited account.
func (p DebitAgreementProof) From() AccountID {
	return p.SignedTransfer.Transfer.ID.Actor
}

// To returns the credited account.
func (p DebitAgreementProof) To() AccountID {
	return p.SignedTransfer.Transfer.To
}

// Bytes returns the canonical serialisation of the proof.
func (p DebitAgreementProof) Bytes() []byte {
	enc := binarycodec.NewSerializer()
	p.EncodeTo(enc)
	return enc.Bytes()
}

// EncodeTo appends the canonical encoding: signed transfer, aggregated
// signature length-prefixed, then the replica key set.
func (p DebitAgreementProof) EncodeTo(enc *binarycodec.Serializer) {
	p.SignedTransfer.EncodeTo(enc)
	enc.WriteBytes(p.DebitingReplicasSig)
	p.ReplicaKey.EncodeTo(enc)
}

// DecodeDebitAgreementProof reads a proof from the parser.
func DecodeDebitAgreementProof(p *binarycodec.Parser) (DebitAgreementProof, error) {
	st, err := DecodeSignedTransfer(p)
	if err != nil {
		return DebitAgreementProof{}, err
	}
	sig, err := p.ReadBytes()
	if err != nil {
		return DebitAgreementProof{}, err
	}
	key, err := threshold.DecodePublicKeySet(p)
	if err != nil {
		return DebitAgreementProof{}, err
	}
	return DebitAgreementProof{SignedTransfer: st, DebitingReplicasSig: sig, ReplicaKey: key}, nil
}

// ReceivedCredit is an incoming debit witnessed by a remote Replica
// group: the sender-side agreement proof plus the public key of the group
// that signed it, for the receiving side to validate against its
// membership view.
type ReceivedCredit struct {
	DebitProof       DebitAgreementProof
	DebitingReplicas threshold.PublicKey
}

// ID returns the dot of the credited transfer.
func (c ReceivedCredit) ID() Dot {
	return c.DebitProof.ID()
}

// To returns the credited account.
func (c ReceivedCredit) To() AccountID {
	return c.DebitProof.To()
}

// EncodeTo appends the canonical encoding: proof, then the group key
// length-prefixed.
func (c ReceivedCredit) EncodeTo(enc *binarycodec.Serializer) {
	c.DebitProof.EncodeTo(enc)
	enc.WriteBytes(c.DebitingReplicas.Bytes())
}

// DecodeReceivedCredit reads a received credit from the parser.
func DecodeReceivedCredit(p *binarycodec.Parser) (ReceivedCredit, error) {
	proof, err := DecodeDebitAgreementProof(p)
	if err != nil {
		return ReceivedCredit{}, err
	}
	raw, err := p.ReadBytes()
	if err != nil {
		return ReceivedCredit{}, err
	}
	pk, err := threshold.PublicKeyFromBytes(raw)
	if err != nil {
		return ReceivedCredit{}, err
	}
	return ReceivedCredit{DebitProof: proof, DebitingReplicas: pk}, nil
}
