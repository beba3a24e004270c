package actor

import "errors"

var (
	// ErrInvalidSignature indicates any signature verification failure:
	// actor signature, replica share, aggregated group signature or credit
	// proof. Which check failed is deliberately not surfaced.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInsufficientBalance indicates a transfer larger than the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidOperation indicates a structural violation of the ledger
	// contract, such as a registration not debiting this owner.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrSelfTransfer indicates sender and recipient are the same account.
	ErrSelfTransfer = errors.New("sender and recipient are the same")

	// ErrPendingDebit indicates a debit is still in flight; one debit
	// completes at a time.
	ErrPendingDebit = errors.New("current pending debit has not been completed")

	// ErrNotIntendedForActor indicates a validation of a transfer this
	// actor did not initiate.
	ErrNotIntendedForActor = errors.New("validation not intended for this actor")

	// ErrOutOfOrderValidation indicates a validation whose counter does not
	// match the debit in flight.
	ErrOutOfOrderValidation = errors.New("out of order validation")

	// ErrDuplicateValidation indicates a validation that was already
	// received.
	ErrDuplicateValidation = errors.New("validation already received")

	// ErrNonSequential indicates a registration whose counter is not the
	// next debit in sequence.
	ErrNonSequential = errors.New("non-sequential registration")

	// ErrNothingToSync indicates a synch batch with no applicable credits
	// or debits.
	ErrNothingToSync = errors.New("no credits or debits found to sync")
)
