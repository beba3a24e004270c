package actor

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goAT2/internal/codec/binarycodec"
	"github.com/LeJamon/goAT2/internal/core/replica"
	"github.com/LeJamon/goAT2/internal/types"
)

// Event type tags for the encoded form. Stable; new events append.
const (
	tagTransferInitiated uint8 = iota + 1
	tagTransferValidationReceived
	tagTransferRegistrationSent
	tagTransfersSynched
)

// ErrUnknownEventTag indicates an encoded event with a tag this version
// does not know.
var ErrUnknownEventTag = errors.New("unknown actor event tag")

// EncodeEvent returns the canonical encoding of an actor event: a type
// tag byte followed by the event payload. Used by the event store.
func EncodeEvent(event Event) ([]byte, error) {
	enc := binarycodec.NewSerializer()
	switch e := event.(type) {
	case TransferInitiated:
		enc.WriteUint8(tagTransferInitiated)
		e.SignedTransfer.EncodeTo(enc)
	case TransferValidationReceived:
		enc.WriteUint8(tagTransferValidationReceived)
		e.Validation.EncodeTo(enc)
		if e.Proof != nil {
			enc.WriteUint8(1)
			e.Proof.EncodeTo(enc)
		} else {
			enc.WriteUint8(0)
		}
	case TransferRegistrationSent:
		enc.WriteUint8(tagTransferRegistrationSent)
		e.DebitProof.EncodeTo(enc)
	case TransfersSynched:
		enc.WriteUint8(tagTransfersSynched)
		enc.WriteUint32(uint32(len(e.Credits)))
		for _, c := range e.Credits {
			c.EncodeTo(enc)
		}
		enc.WriteUint32(uint32(len(e.Debits)))
		for _, d := range e.Debits {
			d.EncodeTo(enc)
		}
	default:
		return nil, fmt.Errorf("encode actor event: unsupported type %T", event)
	}
	return enc.Bytes(), nil
}

// DecodeEvent decodes an event produced by EncodeEvent.
func DecodeEvent(data []byte) (Event, error) {
	p := binarycodec.NewParser(data)
	tag, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}
	var event Event
	switch tag {
	case tagTransferInitiated:
		st, err := types.DecodeSignedTransfer(p)
		if err != nil {
			return nil, err
		}
		event = TransferInitiated{SignedTransfer: st}
	case tagTransferValidationReceived:
		validation, err := replica.DecodeTransferValidated(p)
		if err != nil {
			return nil, err
		}
		hasProof, err := p.ReadUint8()
		if err != nil {
			return nil, err
		}
		var proof *types.DebitAgreementProof
		if hasProof == 1 {
			decoded, err := types.DecodeDebitAgreementProof(p)
			if err != nil {
				return nil, err
			}
			proof = &decoded
		}
		event = TransferValidationReceived{Validation: validation, Proof: proof}
	case tagTransferRegistrationSent:
		proof, err := types.DecodeDebitAgreementProof(p)
		if err != nil {
			return nil, err
		}
		event = TransferRegistrationSent{DebitProof: proof}
	case tagTransfersSynched:
		creditCount, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		credits := make([]types.ReceivedCredit, 0, creditCount)
		for i := uint32(0); i < creditCount; i++ {
			c, err := types.DecodeReceivedCredit(p)
			if err != nil {
				return nil, err
			}
			credits = append(credits, c)
		}
		debitCount, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		debits := make([]types.DebitAgreementProof, 0, debitCount)
		for i := uint32(0); i < debitCount; i++ {
			d, err := types.DecodeDebitAgreementProof(p)
			if err != nil {
				return nil, err
			}
			debits = append(debits, d)
		}
		var synched TransfersSynched
		if len(credits) > 0 {
			synched.Credits = credits
		}
		if len(debits) > 0 {
			synched.Debits = debits
		}
		event = synched
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownEventTag, tag)
	}
	if err := p.Done(); err != nil {
		return nil, err
	}
	return event, nil
}
