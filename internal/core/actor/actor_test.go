package actor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goAT2/internal/core/account"
	"github.com/LeJamon/goAT2/internal/core/actor"
	"github.com/LeJamon/goAT2/internal/core/replica"
	"github.com/LeJamon/goAT2/internal/crypto"
	"github.com/LeJamon/goAT2/internal/crypto/threshold"
	xtesting "github.com/LeJamon/goAT2/internal/testing"
	"github.com/LeJamon/goAT2/internal/types"
)

// newGroup deals a replica group of 3 with threshold 1, so a quorum is 2
// shares.
func newGroup(t *testing.T) *xtesting.ReplicaGroup {
	t.Helper()
	group, err := xtesting.NewReplicaGroup(1, 3)
	require.NoError(t, err)
	return group
}

// fundedActor creates a snapshot actor holding one initial credit (none
// for a zero balance) and returns it with its keypair and replica group.
func fundedActor(t *testing.T, balance uint64) (*actor.Actor, *crypto.Ed25519KeyPair, *xtesting.ReplicaGroup) {
	t.Helper()
	group := newGroup(t)
	a, keypair, err := xtesting.NewFundedActor(types.FromNano(balance), group)
	require.NoError(t, err)
	return a, keypair, group
}

// signedTransfer signs an arbitrary transfer with the given key.
func signedTransfer(t *testing.T, keypair crypto.KeyPair, transfer types.Transfer) types.SignedTransfer {
	t.Helper()
	sig, err := keypair.Sign(transfer.Bytes())
	require.NoError(t, err)
	return types.SignedTransfer{Transfer: transfer, ActorSignature: sig}
}

// runDebitCycle drives one full initiate → validate → register cycle and
// returns the emitted events plus the agreement proof.
func runDebitCycle(t *testing.T, a *actor.Actor, group *xtesting.ReplicaGroup, amount uint64, to types.AccountID) ([]actor.Event, types.DebitAgreementProof) {
	t.Helper()
	var events []actor.Event

	initiated, err := a.Transfer(types.FromNano(amount), to)
	require.NoError(t, err)
	a.Apply(initiated)
	events = append(events, initiated)

	validations, err := group.Validate(initiated.SignedTransfer)
	require.NoError(t, err)

	var proof *types.DebitAgreementProof
	for _, validation := range validations {
		received, err := a.Receive(validation)
		require.NoError(t, err)
		a.Apply(received)
		events = append(events, received)
		if received.Proof != nil {
			proof = received.Proof
			break
		}
	}
	require.NotNil(t, proof)

	registration, err := a.Register(*proof)
	require.NoError(t, err)
	a.Apply(registration)
	events = append(events, registration)
	return events, *proof
}

func TestFreshActorHasZeroBalance(t *testing.T) {
	group := newGroup(t)
	keypair, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	a := actor.New(keypair, group.PublicKeys(), xtesting.AcceptAllValidator{})

	assert.Equal(t, keypair.PublicKey(), a.ID())
	assert.True(t, a.Balance().IsZero())
	assert.Empty(t, a.CreditsSince(0))
	assert.Empty(t, a.DebitsSince(0))
}

func TestSnapshotCreditIsVisible(t *testing.T) {
	a, _, _ := fundedActor(t, 10)

	assert.Equal(t, types.FromNano(10), a.Balance())
	assert.Len(t, a.CreditsSince(0), 1)
	assert.Empty(t, a.DebitsSince(0))
}

func TestSingleDebitHappyPath(t *testing.T) {
	a, _, group := fundedActor(t, 15)
	recipient := xtesting.RandomAccountID()

	initiated, err := a.Transfer(types.FromNano(10), recipient)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), initiated.ID().Counter)
	a.Apply(initiated)

	validations, err := group.Validate(initiated.SignedTransfer)
	require.NoError(t, err)

	// Threshold 1: the first validation accumulates, the second completes
	// the quorum.
	first, err := a.Receive(validations[0])
	require.NoError(t, err)
	assert.Nil(t, first.Proof)
	a.Apply(first)

	second, err := a.Receive(validations[1])
	require.NoError(t, err)
	require.NotNil(t, second.Proof)
	a.Apply(second)

	registration, err := a.Register(*second.Proof)
	require.NoError(t, err)
	a.Apply(registration)

	assert.Equal(t, types.FromNano(5), a.Balance())
	assert.Len(t, a.DebitsSince(0), 1)

	// The debit completed: a late validation for counter 0 is out of
	// order now, which also shows the cleared accumulator cannot resurrect
	// it.
	_, err = a.Receive(validations[2])
	assert.ErrorIs(t, err, actor.ErrOutOfOrderValidation)
}

func TestConsecutiveDebits(t *testing.T) {
	a, _, group := fundedActor(t, 22)
	recipient := xtesting.RandomAccountID()

	runDebitCycle(t, a, group, 10, recipient)
	assert.Equal(t, types.FromNano(12), a.Balance())

	runDebitCycle(t, a, group, 10, recipient)
	assert.Equal(t, types.FromNano(2), a.Balance())
	assert.Len(t, a.DebitsSince(0), 2)
}

func TestSelfTransferRejected(t *testing.T) {
	a, _, _ := fundedActor(t, 10)
	_, err := a.Transfer(types.FromNano(1), a.ID())
	assert.ErrorIs(t, err, actor.ErrSelfTransfer)
}

func TestOverspendRejected(t *testing.T) {
	a, _, _ := fundedActor(t, 5)
	_, err := a.Transfer(types.FromNano(10), xtesting.RandomAccountID())
	assert.ErrorIs(t, err, actor.ErrInsufficientBalance)

	// No state changed: a transfer within the balance still carries
	// counter 0.
	initiated, err := a.Transfer(types.FromNano(5), xtesting.RandomAccountID())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), initiated.ID().Counter)
	assert.Equal(t, types.FromNano(5), a.Balance())
}

func TestPendingDebitBlocksSecondTransfer(t *testing.T) {
	a, _, _ := fundedActor(t, 20)

	initiated, err := a.Transfer(types.FromNano(5), xtesting.RandomAccountID())
	require.NoError(t, err)
	a.Apply(initiated)

	_, err = a.Transfer(types.FromNano(5), xtesting.RandomAccountID())
	assert.ErrorIs(t, err, actor.ErrPendingDebit)
}

func TestOutOfOrderValidationRejected(t *testing.T) {
	a, keypair, group := fundedActor(t, 10)

	initiated, err := a.Transfer(types.FromNano(10), xtesting.RandomAccountID())
	require.NoError(t, err)

	// A validation for counter 1 while counter 0 is the expected debit.
	ahead := signedTransfer(t, keypair, types.Transfer{
		ID:     types.NewDot(a.ID(), 1),
		To:     xtesting.RandomAccountID(),
		Amount: types.FromNano(1),
	})
	aheadValidation, err := group.ValidateAt(0, ahead)
	require.NoError(t, err)

	_, err = a.Receive(aheadValidation)
	assert.ErrorIs(t, err, actor.ErrOutOfOrderValidation)

	// The correct validation is accepted once the initiation is applied.
	a.Apply(initiated)
	validation, err := group.ValidateAt(0, initiated.SignedTransfer)
	require.NoError(t, err)
	_, err = a.Receive(validation)
	require.NoError(t, err)
}

func TestDuplicateValidationRejected(t *testing.T) {
	a, _, group := fundedActor(t, 10)

	initiated, err := a.Transfer(types.FromNano(5), xtesting.RandomAccountID())
	require.NoError(t, err)
	a.Apply(initiated)

	validation, err := group.ValidateAt(0, initiated.SignedTransfer)
	require.NoError(t, err)

	received, err := a.Receive(validation)
	require.NoError(t, err)
	a.Apply(received)

	_, err = a.Receive(validation)
	assert.ErrorIs(t, err, actor.ErrDuplicateValidation)
}

func TestValidationNotIntendedForActor(t *testing.T) {
	a, keypair, group := fundedActor(t, 10)

	// Signed by this actor's key but identifying another account as the
	// debited one.
	foreign := signedTransfer(t, keypair, types.Transfer{
		ID:     types.NewDot(xtesting.RandomAccountID(), 0),
		To:     xtesting.RandomAccountID(),
		Amount: types.FromNano(1),
	})
	validation, err := group.ValidateAt(0, foreign)
	require.NoError(t, err)

	_, err = a.Receive(validation)
	assert.ErrorIs(t, err, actor.ErrNotIntendedForActor)
}

func TestTamperedValidationRejected(t *testing.T) {
	a, _, group := fundedActor(t, 10)

	initiated, err := a.Transfer(types.FromNano(5), xtesting.RandomAccountID())
	require.NoError(t, err)
	a.Apply(initiated)

	validation, err := group.ValidateAt(0, initiated.SignedTransfer)
	require.NoError(t, err)
	validation.SignedTransfer.ActorSignature[0] ^= 0xFF

	_, err = a.Receive(validation)
	assert.ErrorIs(t, err, actor.ErrInvalidSignature)
}

func TestQuorumSoundnessAndLiveness(t *testing.T) {
	a, _, group := fundedActor(t, 10)

	initiated, err := a.Transfer(types.FromNano(10), xtesting.RandomAccountID())
	require.NoError(t, err)
	a.Apply(initiated)

	validations, err := group.Validate(initiated.SignedTransfer)
	require.NoError(t, err)

	// Liveness: with threshold 1 the proof appears on the second
	// validation and not before. Soundness: the emitted proof verifies
	// under the replica key it carries.
	for i, validation := range validations[:2] {
		received, err := a.Receive(validation)
		require.NoError(t, err)
		a.Apply(received)
		if i < 1 {
			assert.Nil(t, received.Proof)
		} else {
			require.NotNil(t, received.Proof)
			proof := received.Proof
			require.NoError(t, proof.ReplicaKey.PublicKey().Verify(
				proof.SignedTransfer.Bytes(), proof.DebitingReplicasSig))
		}
	}
}

func TestCommandPurity(t *testing.T) {
	a, _, _ := fundedActor(t, 10)
	recipient := xtesting.RandomAccountID()

	first, err := a.Transfer(types.FromNano(4), recipient)
	require.NoError(t, err)
	second, err := a.Transfer(types.FromNano(4), recipient)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, types.FromNano(10), a.Balance())
}

func TestRegisterNonSequential(t *testing.T) {
	a, keypair, group := fundedActor(t, 10)

	// A certified proof for counter 1 while the account expects 0.
	ahead := signedTransfer(t, keypair, types.Transfer{
		ID:     types.NewDot(a.ID(), 1),
		To:     xtesting.RandomAccountID(),
		Amount: types.FromNano(1),
	})
	proof, err := group.Certify(ahead)
	require.NoError(t, err)

	_, err = a.Register(proof)
	assert.ErrorIs(t, err, actor.ErrNonSequential)
}

func TestRegisterNotDebitingOwner(t *testing.T) {
	a, keypair, group := fundedActor(t, 10)

	foreign := signedTransfer(t, keypair, types.Transfer{
		ID:     types.NewDot(xtesting.RandomAccountID(), 0),
		To:     xtesting.RandomAccountID(),
		Amount: types.FromNano(1),
	})
	proof, err := group.Certify(foreign)
	require.NoError(t, err)

	_, err = a.Register(proof)
	assert.ErrorIs(t, err, actor.ErrInvalidOperation)
}

func TestRegisterRejectsUntrustedGroup(t *testing.T) {
	a, keypair, _ := fundedActor(t, 10)
	otherGroup := newGroup(t)

	st := signedTransfer(t, keypair, types.Transfer{
		ID:     types.NewDot(a.ID(), 0),
		To:     xtesting.RandomAccountID(),
		Amount: types.FromNano(1),
	})
	proof, err := otherGroup.Certify(st)
	require.NoError(t, err)

	_, err = a.Register(proof)
	assert.ErrorIs(t, err, actor.ErrInvalidSignature)
}

func TestReplicaRotationAdoptedOnProof(t *testing.T) {
	a, _, _ := fundedActor(t, 10)
	rotated := newGroup(t)

	initiated, err := a.Transfer(types.FromNano(5), xtesting.RandomAccountID())
	require.NoError(t, err)
	a.Apply(initiated)

	// Validations arrive from a rotated group, not the configured one.
	validations, err := rotated.Validate(initiated.SignedTransfer)
	require.NoError(t, err)

	var proof *types.DebitAgreementProof
	for _, validation := range validations[:2] {
		received, err := a.Receive(validation)
		require.NoError(t, err)
		a.Apply(received)
		proof = received.Proof
	}
	require.NotNil(t, proof)

	// The rotated set was adopted when the proof was applied, so the
	// registration verifies against it.
	_, err = a.Register(*proof)
	require.NoError(t, err)
	assert.True(t, a.Replicas().Equal(rotated.PublicKeys()))
}

func TestCrossGroupTransferViaSynch(t *testing.T) {
	sender, _, senderGroup := fundedActor(t, 100)
	recipient, _, _ := fundedActor(t, 10)

	_, proof := runDebitCycle(t, sender, senderGroup, 100, recipient.ID())
	assert.True(t, sender.Balance().IsZero())

	synched, err := recipient.Synch([]replica.Event{
		replica.TransferPropagated{
			DebitProof:       proof,
			DebitingReplicas: senderGroup.PublicKeys().PublicKey(),
		},
	})
	require.NoError(t, err)
	require.Len(t, synched.Credits, 1)
	recipient.Apply(synched)

	assert.Equal(t, types.FromNano(110), recipient.Balance())
}

func TestSynchDeduplicatesAndFiltersCredits(t *testing.T) {
	sender, _, senderGroup := fundedActor(t, 20)
	recipient, _, _ := fundedActor(t, 0)

	_, proof := runDebitCycle(t, sender, senderGroup, 20, recipient.ID())
	propagated := replica.TransferPropagated{
		DebitProof:       proof,
		DebitingReplicas: senderGroup.PublicKeys().PublicKey(),
	}

	// The same credit twice in one batch folds into one.
	synched, err := recipient.Synch([]replica.Event{propagated, propagated})
	require.NoError(t, err)
	assert.Len(t, synched.Credits, 1)
	recipient.Apply(synched)
	assert.Equal(t, types.FromNano(20), recipient.Balance())

	// Already applied: nothing left to sync.
	_, err = recipient.Synch([]replica.Event{propagated})
	assert.ErrorIs(t, err, actor.ErrNothingToSync)
}

func TestSynchRejectsUnknownReplicaGroup(t *testing.T) {
	recipientKey, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	group := newGroup(t)
	recipient := actor.New(recipientKey, group.PublicKeys(), rejectAllValidator{})

	sender, _, senderGroup := fundedActor(t, 20)
	_, proof := runDebitCycle(t, sender, senderGroup, 20, recipient.ID())

	// The credit is addressed to the recipient and carries a valid proof,
	// but the membership predicate does not know the debiting group.
	_, err = recipient.Synch([]replica.Event{
		replica.TransferPropagated{
			DebitProof:       proof,
			DebitingReplicas: senderGroup.PublicKeys().PublicKey(),
		},
	})
	assert.ErrorIs(t, err, actor.ErrNothingToSync)
}

type rejectAllValidator struct{}

func (rejectAllValidator) IsValid(threshold.PublicKey) bool { return false }

func TestSynchAppliesDebitsFromOtherInstance(t *testing.T) {
	keypair, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	id := keypair.PublicKey()
	group := newGroup(t)

	initial := types.Transfer{
		ID:     types.NewDot(xtesting.RandomAccountID(), 0),
		To:     id,
		Amount: types.FromNano(20),
	}
	snapshot := func() *actor.Actor {
		acct := account.New(id)
		acct.Append(initial)
		return actor.FromSnapshot(acct, keypair, group.PublicKeys(), xtesting.AcceptAllValidator{})
	}
	instanceA := snapshot()
	instanceB := snapshot()

	// Instance A completes a debit; instance B learns it via synch.
	_, proof := runDebitCycle(t, instanceA, group, 5, xtesting.RandomAccountID())

	synched, err := instanceB.Synch([]replica.Event{
		replica.TransferRegistered{DebitProof: proof},
	})
	require.NoError(t, err)
	require.Len(t, synched.Debits, 1)
	instanceB.Apply(synched)

	assert.Equal(t, types.FromNano(15), instanceB.Balance())

	// Sequencing re-anchored: instance B can initiate the next debit.
	next, err := instanceB.Transfer(types.FromNano(1), xtesting.RandomAccountID())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next.ID().Counter)
}

func TestSynchKeepsOnlyDenseDebitPrefix(t *testing.T) {
	a, keypair, group := fundedActor(t, 50)

	mkProof := func(counter uint64, amount uint64) types.DebitAgreementProof {
		st := signedTransfer(t, keypair, types.Transfer{
			ID:     types.NewDot(a.ID(), counter),
			To:     xtesting.RandomAccountID(),
			Amount: types.FromNano(amount),
		})
		proof, err := group.Certify(st)
		require.NoError(t, err)
		return proof
	}

	// Counters 0 and 2: the gap at 1 drops 2.
	synched, err := a.Synch([]replica.Event{
		replica.TransferRegistered{DebitProof: mkProof(2, 5)},
		replica.TransferRegistered{DebitProof: mkProof(0, 5)},
	})
	require.NoError(t, err)
	require.Len(t, synched.Debits, 1)
	assert.Equal(t, uint64(0), synched.Debits[0].ID().Counter)
}

func TestSynchNothingToSync(t *testing.T) {
	a, _, _ := fundedActor(t, 10)
	_, err := a.Synch(nil)
	assert.ErrorIs(t, err, actor.ErrNothingToSync)
}

func TestEventSourcingRoundTrip(t *testing.T) {
	group := newGroup(t)
	keypair, err := crypto.GenerateEd25519()
	require.NoError(t, err)

	a := actor.New(keypair, group.PublicKeys(), xtesting.AcceptAllValidator{})
	var history []actor.Event

	// Fund through a synched credit so the whole history is events.
	funder, _, funderGroup := fundedActor(t, 30)
	_, creditProof := runDebitCycle(t, funder, funderGroup, 30, a.ID())
	synched, err := a.Synch([]replica.Event{
		replica.TransferPropagated{
			DebitProof:       creditProof,
			DebitingReplicas: funderGroup.PublicKeys().PublicKey(),
		},
	})
	require.NoError(t, err)
	a.Apply(synched)
	history = append(history, synched)

	events, _ := runDebitCycle(t, a, group, 12, xtesting.RandomAccountID())
	history = append(history, events...)

	// Replaying the full history over a fresh instance yields equal state.
	replayed := actor.New(keypair, group.PublicKeys(), xtesting.AcceptAllValidator{})
	for _, event := range history {
		replayed.Apply(event)
	}

	assert.Equal(t, a.ID(), replayed.ID())
	assert.Equal(t, a.Balance(), replayed.Balance())
	assert.Equal(t, a.CreditsSince(0), replayed.CreditsSince(0))
	assert.Equal(t, a.DebitsSince(0), replayed.DebitsSince(0))
	assert.True(t, a.Replicas().Equal(replayed.Replicas()))

	// Both instances accept the same next command.
	fromLive, err := a.Transfer(types.FromNano(1), xtesting.RandomAccountID())
	require.NoError(t, err)
	fromReplayed, err := replayed.Transfer(types.FromNano(1), xtesting.RandomAccountID())
	require.NoError(t, err)
	assert.Equal(t, fromLive, fromReplayed)
}
