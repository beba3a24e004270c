// Package actor implements the client-side state machine of the AT2
// transfer protocol. The Actor initiates debits, collects a quorum of
// Replica signature shares into a debit agreement proof, registers the
// certified debit, and synchronises credits and debits propagated from
// Replica groups.
//
// Commands are pure: they validate against current state and return an
// Event without mutating anything. State changes happen only in Apply,
// which makes the Actor rehydratable from an event log and deterministic
// under replay. The Actor holds no locks; callers serialise access.
package actor

import (
	"sort"

	"github.com/LeJamon/goAT2/internal/core/account"
	"github.com/LeJamon/goAT2/internal/core/replica"
	"github.com/LeJamon/goAT2/internal/crypto"
	"github.com/LeJamon/goAT2/internal/crypto/threshold"
	"github.com/LeJamon/goAT2/internal/types"
)

// ReplicaValidator decides whether a remote Replica group, identified by
// its public key, is part of the system. The logic lives in the
// membership layer above; it is injected and consulted only on credit
// ingestion.
type ReplicaValidator interface {
	IsValid(group threshold.PublicKey) bool
}

// Actor drives the four-step debit lifecycle for one account:
// initiate → validate → register → synchronise.
type Actor struct {
	id      types.AccountID
	keypair crypto.KeyPair
	account *account.Account

	// nextDebitVersion is the counter of the next debit to initiate. It
	// equals account.NextDebit() when no debit is in flight and
	// account.NextDebit()+1 between an applied TransferInitiated and the
	// matching TransferRegistrationSent.
	nextDebitVersion uint64

	// accumulating collects verified validations for the debit in flight;
	// cleared when a registration is applied.
	accumulating *accumulator

	// replicas is the currently trusted public key set of this actor's own
	// Replica group.
	replicas *threshold.PublicKeySet

	validator ReplicaValidator
	proofs    *proofCache
}

// New creates an actor with an empty account. Pass the key set of this
// actor's own Replicas; the validator decides which remote groups are
// accepted as credit sources.
func New(keypair crypto.KeyPair, replicas *threshold.PublicKeySet, validator ReplicaValidator) *Actor {
	id := keypair.PublicKey()
	return &Actor{
		id:           id,
		keypair:      keypair,
		account:      account.New(id),
		accumulating: newAccumulator(),
		replicas:     replicas,
		validator:    validator,
		proofs:       newProofCache(),
	}
}

// FromSnapshot creates an actor over an existing account history, with
// no debit in flight.
func FromSnapshot(acct *account.Account, keypair crypto.KeyPair, replicas *threshold.PublicKeySet, validator ReplicaValidator) *Actor {
	a := New(keypair, replicas, validator)
	a.account = acct
	a.nextDebitVersion = acct.NextDebit()
	return a
}

// ID returns the actor's account identity.
func (a *Actor) ID() types.AccountID {
	return a.id
}

// Balance returns the account balance.
func (a *Actor) Balance() types.Money {
	return a.account.Balance()
}

// CreditsSince returns the credits applied at or after index i.
func (a *Actor) CreditsSince(i int) []types.Transfer {
	return a.account.CreditsSince(i)
}

// DebitsSince returns the debits applied at or after index i.
func (a *Actor) DebitsSince(i int) []types.Transfer {
	return a.account.DebitsSince(i)
}

// Replicas returns the currently trusted key set of the actor's own
// Replica group.
func (a *Actor) Replicas() *threshold.PublicKeySet {
	return a.replicas
}

// Transfer builds a signed debit command for validation at the Replicas.
// Step 1 of the debit lifecycle. One debit completes at a time: a second
// transfer before the first registered fails with ErrPendingDebit.
func (a *Actor) Transfer(amount types.Money, to types.AccountID) (TransferInitiated, error) {
	if to == a.id {
		return TransferInitiated{}, ErrSelfTransfer
	}
	if a.nextDebitVersion != a.account.NextDebit() {
		return TransferInitiated{}, ErrPendingDebit
	}
	if amount > a.Balance() {
		return TransferInitiated{}, ErrInsufficientBalance
	}
	transfer := types.Transfer{
		ID:     types.NewDot(a.id, a.account.NextDebit()),
		To:     to,
		Amount: amount,
	}
	sig, err := a.keypair.Sign(transfer.Bytes())
	if err != nil {
		return TransferInitiated{}, err
	}
	return TransferInitiated{
		SignedTransfer: types.SignedTransfer{Transfer: transfer, ActorSignature: sig},
	}, nil
}

// Receive verifies and accumulates one Replica validation. Step 2. The
// returned event carries a proof exactly when this validation completed
// the quorum of the largest accumulating group; before that Proof is nil
// and the caller keeps feeding validations.
func (a *Actor) Receive(validation replica.TransferValidated) (TransferValidationReceived, error) {
	// Signatures are verified before anything else is inspected, so a
	// failure leaks nothing about local state.
	if err := a.verifyValidation(validation); err != nil {
		return TransferValidationReceived{}, ErrInvalidSignature
	}
	transfer := validation.SignedTransfer.Transfer
	if transfer.ID.Actor != a.id {
		return TransferValidationReceived{}, ErrNotIntendedForActor
	}
	// The debit in flight carries the account's next debit counter: it was
	// initiated against it and its registration has not been applied yet.
	if transfer.ID.Counter != a.account.NextDebit() {
		return TransferValidationReceived{}, ErrOutOfOrderValidation
	}
	if a.accumulating.contains(validation) {
		return TransferValidationReceived{}, ErrDuplicateValidation
	}

	var proof *types.DebitAgreementProof
	group, accumulated, ok := a.accumulating.largest()
	if !ok {
		// Nothing accumulated yet: the new validation starts its own group.
		group, accumulated = validation.Replicas, nil
	}
	// Quorum: the already-accumulated count equals the threshold and
	// the new validation extends the same group, bringing the share
	// count to t+1.
	if len(accumulated) >= group.Threshold() && group.Equal(validation.Replicas) {
		shares := make([]threshold.SignatureShare, 0, len(accumulated)+1)
		for _, v := range accumulated {
			shares = append(shares, v.ReplicaSignature)
		}
		shares = append(shares, validation.ReplicaSignature)

		payload := validation.SignedTransfer.Bytes()
		sig, err := group.Combine(payload, shares)
		if err != nil {
			// The shares were individually valid yet the batch does not
			// combine into a verifying signature: corrupt batch.
			// Surfaced to the caller, which owns the recovery policy;
			// the accumulator is untouched.
			return TransferValidationReceived{}, ErrInvalidSignature
		}
		proof = &types.DebitAgreementProof{
			SignedTransfer:      validation.SignedTransfer,
			DebitingReplicasSig: sig,
			ReplicaKey:          group,
		}
	}

	return TransferValidationReceived{Validation: validation, Proof: proof}, nil
}

// Register validates a debit agreement proof for registration at the
// Replicas. Step 3. The actual sending happens above; the event is
// applied only after that.
func (a *Actor) Register(proof types.DebitAgreementProof) (TransferRegistrationSent, error) {
	if err := a.verifyDebitProof(proof); err != nil {
		return TransferRegistrationSent{}, ErrInvalidSignature
	}
	sequential, err := a.account.IsSequential(proof.SignedTransfer.Transfer)
	if err != nil {
		return TransferRegistrationSent{}, ErrInvalidOperation
	}
	if !sequential {
		return TransferRegistrationSent{}, ErrNonSequential
	}
	return TransferRegistrationSent{DebitProof: proof}, nil
}

// Synch ingests a batch of Replica-emitted events: propagated transfers
// become candidate credits, registered transfers candidate debits. Debits
// can originate at other instances of this same actor; accepting them
// keeps multiple instances of one account in sync. Returns
// ErrNothingToSync when nothing in the batch applies.
func (a *Actor) Synch(events []replica.Event) (TransfersSynched, error) {
	credits := a.validCredits(events)
	debits := a.validDebits(events)
	if len(credits) == 0 && len(debits) == 0 {
		return TransfersSynched{}, ErrNothingToSync
	}
	return TransfersSynched{Credits: credits, Debits: debits}, nil
}

// validCredits extracts, deduplicates and verifies the incoming credits
// of a synch batch.
func (a *Actor) validCredits(events []replica.Event) []types.ReceivedCredit {
	var credits []types.ReceivedCredit
	seen := make(map[types.Dot]struct{})
	for _, ev := range events {
		propagated, ok := ev.(replica.TransferPropagated)
		if !ok {
			continue
		}
		if _, dup := seen[propagated.ID()]; dup {
			continue
		}
		seen[propagated.ID()] = struct{}{}

		credit := types.ReceivedCredit{
			DebitProof:       propagated.DebitProof,
			DebitingReplicas: propagated.DebitingReplicas,
		}
		if !simulatedPayouts {
			if err := a.verifyCreditProof(credit); err != nil {
				continue
			}
		}
		if credit.To() != a.id {
			continue
		}
		if a.account.Contains(credit.ID()) {
			continue
		}
		credits = append(credits, credit)
	}
	return credits
}

// validDebits extracts the registered debits of a synch batch and keeps
// the longest dense prefix starting at the account's next debit counter.
func (a *Actor) validDebits(events []replica.Event) []types.DebitAgreementProof {
	var debits []types.DebitAgreementProof
	seen := make(map[types.Dot]struct{})
	for _, ev := range events {
		registered, ok := ev.(replica.TransferRegistered)
		if !ok {
			continue
		}
		if _, dup := seen[registered.ID()]; dup {
			continue
		}
		seen[registered.ID()] = struct{}{}

		proof := registered.DebitProof
		if proof.From() != a.id {
			continue
		}
		if proof.ID().Counter < a.account.NextDebit() {
			continue
		}
		if err := a.verifyDebitProof(proof); err != nil {
			continue
		}
		debits = append(debits, proof)
	}

	sort.Slice(debits, func(i, j int) bool {
		return debits[i].ID().Counter < debits[j].ID().Counter
	})

	// Debits must stay dense: accept from the first expected counter up to
	// the first gap, drop the rest.
	var valid []types.DebitAgreementProof
	for i, proof := range debits {
		if proof.ID().Counter != a.account.NextDebit()+uint64(i) {
			break
		}
		valid = append(valid, proof)
	}
	return valid
}

// Apply folds an event into state. Events are assumed to have been
// produced by a command on this actor; anything inconsistent is a
// programmer bug.
func (a *Actor) Apply(event Event) {
	switch e := event.(type) {
	case TransferInitiated:
		a.nextDebitVersion = e.ID().Counter + 1
	case TransferValidationReceived:
		if e.Proof != nil {
			// A group that produced a proof is a valid, possibly rotated,
			// Replica set; adopt it.
			a.replicas = e.Validation.Replicas
		}
		a.accumulating.insert(e.Validation)
	case TransferRegistrationSent:
		a.account.Append(e.DebitProof.SignedTransfer.Transfer)
		a.accumulating.clear()
	case TransfersSynched:
		// Credits before debits, so the balance never dips below zero
		// mid-replay even when the synched debits exceed prior credits.
		for _, credit := range e.Credits {
			a.account.Append(credit.DebitProof.SignedTransfer.Transfer)
		}
		for _, proof := range e.Debits {
			a.account.Append(proof.SignedTransfer.Transfer)
		}
		if len(e.Debits) > 0 {
			// Debits registered by another instance of this actor complete
			// whatever was in flight here; re-anchor sequencing to the next
			// debit to initiate.
			a.nextDebitVersion = a.account.NextDebit()
		}
	}
}

// verifyValidation checks that we signed the underlying transfer and that
// the replica share verifies under the key set carried by the validation.
func (a *Actor) verifyValidation(v replica.TransferValidated) error {
	if err := a.verifyOurSignature(v.SignedTransfer); err != nil {
		return err
	}
	return v.Replicas.VerifyShare(v.SignedTransfer.Bytes(), v.ReplicaSignature)
}

// verifyDebitProof checks that we signed the underlying transfer and that
// the aggregated signature verifies under our currently trusted Replica
// key set.
func (a *Actor) verifyDebitProof(proof types.DebitAgreementProof) error {
	if err := a.verifyOurSignature(proof.SignedTransfer); err != nil {
		return err
	}
	// Cache entries are keyed by verifying key plus proof, so a Replica
	// rotation never lets a proof verified under the old set slip through.
	key := append(a.replicas.PublicKey().Bytes(), proof.Bytes()...)
	if a.proofs.seen(key) {
		return nil
	}
	if err := a.replicas.PublicKey().Verify(proof.SignedTransfer.Bytes(), proof.DebitingReplicasSig); err != nil {
		return err
	}
	a.proofs.record(key)
	return nil
}

// verifyCreditProof checks an incoming credit: the debiting group must
// pass the injected membership predicate and the aggregated signature
// must verify under that group's key.
func (a *Actor) verifyCreditProof(credit types.ReceivedCredit) error {
	if !a.validator.IsValid(credit.DebitingReplicas) {
		return ErrInvalidSignature
	}
	proof := credit.DebitProof
	key := append(credit.DebitingReplicas.Bytes(), proof.Bytes()...)
	if a.proofs.seen(key) {
		return nil
	}
	if err := credit.DebitingReplicas.Verify(proof.SignedTransfer.Bytes(), proof.DebitingReplicasSig); err != nil {
		return err
	}
	a.proofs.record(key)
	return nil
}

// verifyOurSignature checks the actor signature on a signed transfer
// against this actor's key.
func (a *Actor) verifyOurSignature(st types.SignedTransfer) error {
	return crypto.Verify(a.id, st.Transfer.Bytes(), st.ActorSignature)
}
