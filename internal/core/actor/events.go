package actor

import (
	"github.com/LeJamon/goAT2/internal/core/replica"
	"github.com/LeJamon/goAT2/internal/types"
)

// Event is a domain event emitted by the Actor. Commands return events
// without mutating state; Apply folds them in. The set of implementations
// is closed.
type Event interface {
	actorEvent()
}

// TransferInitiated is emitted when a debit command validated locally and
// a signed transfer is ready to send to the Replicas.
type TransferInitiated struct {
	SignedTransfer types.SignedTransfer
}

func (TransferInitiated) actorEvent() {}

// ID returns the dot of the initiated transfer.
func (e TransferInitiated) ID() types.Dot {
	return e.SignedTransfer.ID()
}

// TransferValidationReceived is emitted when a Replica validation was
// verified and accumulated. Proof is set on the validation that completed
// the quorum, nil before that.
type TransferValidationReceived struct {
	Validation replica.TransferValidated
	Proof      *types.DebitAgreementProof
}

func (TransferValidationReceived) actorEvent() {}

// TransferRegistrationSent is emitted when a certified debit is ready to
// be registered at the Replicas. Applying it updates the account and
// clears the accumulator.
type TransferRegistrationSent struct {
	DebitProof types.DebitAgreementProof
}

func (TransferRegistrationSent) actorEvent() {}

// TransfersSynched is emitted when credits and debits applied at Replica
// groups were validated for the local account.
type TransfersSynched struct {
	Credits []types.ReceivedCredit
	Debits  []types.DebitAgreementProof
}

func (TransfersSynched) actorEvent() {}
