// Package replica models the events emitted by Replica groups that the
// Actor consumes. The Replica state machine itself is a peer module with
// its own quorum rules and lives outside this repository; only the event
// surface is defined here.
package replica

import (
	"github.com/LeJamon/goAT2/internal/codec/binarycodec"
	"github.com/LeJamon/goAT2/internal/crypto/threshold"
	"github.com/LeJamon/goAT2/internal/types"
)

// Event is a Replica-emitted event. The set of implementations is closed.
type Event interface {
	replicaEvent()
}

// TransferValidated is a Replica's successful validation of a proposed
// debit: the signed transfer, the replica's threshold signature share
// over its canonical serialisation, and the public key set of the
// replica's group.
type TransferValidated struct {
	SignedTransfer   types.SignedTransfer
	ReplicaSignature threshold.SignatureShare
	Replicas         *threshold.PublicKeySet
}

func (TransferValidated) replicaEvent() {}

// ID returns the dot of the validated transfer.
func (v TransferValidated) ID() types.Dot {
	return v.SignedTransfer.ID()
}

// Bytes returns the canonical encoding of the validation. Two validations
// are the same iff their encodings are equal.
func (v TransferValidated) Bytes() []byte {
	enc := binarycodec.NewSerializer()
	v.EncodeTo(enc)
	return enc.Bytes()
}

// EncodeTo appends the canonical encoding: signed transfer, signature
// share, replica key set.
func (v TransferValidated) EncodeTo(enc *binarycodec.Serializer) {
	v.SignedTransfer.EncodeTo(enc)
	v.ReplicaSignature.EncodeTo(enc)
	v.Replicas.EncodeTo(enc)
}

// DecodeTransferValidated reads a validation from the parser.
func DecodeTransferValidated(p *binarycodec.Parser) (TransferValidated, error) {
	st, err := types.DecodeSignedTransfer(p)
	if err != nil {
		return TransferValidated{}, err
	}
	sh, err := threshold.DecodeSignatureShare(p)
	if err != nil {
		return TransferValidated{}, err
	}
	set, err := threshold.DecodePublicKeySet(p)
	if err != nil {
		return TransferValidated{}, err
	}
	return TransferValidated{SignedTransfer: st, ReplicaSignature: sh, Replicas: set}, nil
}

// TransferRegistered is a Replica's acknowledgement that a certified
// debit has been registered against the sender's account.
type TransferRegistered struct {
	DebitProof types.DebitAgreementProof
}

func (TransferRegistered) replicaEvent() {}

// ID returns the dot of the registered transfer.
func (r TransferRegistered) ID() types.Dot {
	return r.DebitProof.ID()
}

// TransferPropagated is the propagation of a certified debit from the
// sender's Replica group to the recipient's: the proof plus the public
// key of the group that signed it.
type TransferPropagated struct {
	DebitProof       types.DebitAgreementProof
	DebitingReplicas threshold.PublicKey
}

func (TransferPropagated) replicaEvent() {}

// ID returns the dot of the propagated transfer.
func (t TransferPropagated) ID() types.Dot {
	return t.DebitProof.ID()
}
