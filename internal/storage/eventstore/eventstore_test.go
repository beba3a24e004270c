package eventstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goAT2/internal/core/actor"
	"github.com/LeJamon/goAT2/internal/core/replica"
	"github.com/LeJamon/goAT2/internal/crypto"
	"github.com/LeJamon/goAT2/internal/storage/eventstore"
	xtesting "github.com/LeJamon/goAT2/internal/testing"
	"github.com/LeJamon/goAT2/internal/types"
)

// openBackend opens a fresh backend of the given kind rooted in a temp
// directory.
func openBackend(t *testing.T, backend string) eventstore.Backend {
	t.Helper()
	store, err := eventstore.New(&eventstore.Config{
		Backend:    backend,
		Path:       filepath.Join(t.TempDir(), "events"),
		SyncWrites: true,
	})
	require.NoError(t, err)
	require.NoError(t, store.Open(true))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBackendAppendAndIterate(t *testing.T) {
	for _, backend := range []string{
		eventstore.BackendMemory,
		eventstore.BackendPebble,
		eventstore.BackendLevelDB,
	} {
		t.Run(backend, func(t *testing.T) {
			store := openBackend(t, backend)

			next, err := store.Next()
			require.NoError(t, err)
			assert.Equal(t, uint64(0), next)

			records := [][]byte{[]byte("first"), []byte("second"), []byte("third")}
			for i, data := range records {
				require.NoError(t, store.Append(uint64(i), data))
			}

			// Appends must stay dense.
			assert.ErrorIs(t, store.Append(7, []byte("gap")), eventstore.ErrOutOfOrderAppend)

			next, err = store.Next()
			require.NoError(t, err)
			assert.Equal(t, uint64(3), next)

			var got [][]byte
			require.NoError(t, store.Iterate(func(seq uint64, data []byte) error {
				assert.Equal(t, uint64(len(got)), seq)
				got = append(got, append([]byte(nil), data...))
				return nil
			}))
			assert.Equal(t, records, got)
		})
	}
}

func TestBackendClosed(t *testing.T) {
	store := eventstore.NewMemoryBackend()
	require.NoError(t, store.Open(true))
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Append(0, []byte("x")), eventstore.ErrStoreClosed)
	_, err := store.Next()
	assert.ErrorIs(t, err, eventstore.ErrStoreClosed)
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := eventstore.New(&eventstore.Config{Backend: "tape"})
	assert.ErrorIs(t, err, eventstore.ErrUnsupportedBackend)
}

func TestLogReplayRehydratesActor(t *testing.T) {
	group, err := xtesting.NewReplicaGroup(1, 3)
	require.NoError(t, err)
	keypair, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	a := actor.New(keypair, group.PublicKeys(), xtesting.AcceptAllValidator{})

	store := openBackend(t, eventstore.BackendPebble)
	log := eventstore.NewLog(store)
	record := func(event actor.Event) {
		a.Apply(event)
		require.NoError(t, log.Append(event))
	}

	// Fund via a synched credit, then run a full debit cycle, logging
	// every applied event.
	funder, _, funderGroup := fundedActorForStore(t, 40)
	creditProof := certifiedTransferTo(t, funder, funderGroup, 40, a.ID())
	synched, err := a.Synch([]replica.Event{
		replica.TransferPropagated{
			DebitProof:       creditProof,
			DebitingReplicas: funderGroup.PublicKeys().PublicKey(),
		},
	})
	require.NoError(t, err)
	record(synched)

	initiated, err := a.Transfer(types.FromNano(15), xtesting.RandomAccountID())
	require.NoError(t, err)
	record(initiated)

	validations, err := group.Validate(initiated.SignedTransfer)
	require.NoError(t, err)
	var proof *types.DebitAgreementProof
	for _, validation := range validations {
		received, err := a.Receive(validation)
		require.NoError(t, err)
		record(received)
		if received.Proof != nil {
			proof = received.Proof
			break
		}
	}
	require.NotNil(t, proof)

	registration, err := a.Register(*proof)
	require.NoError(t, err)
	record(registration)

	rehydrated, err := log.Rehydrate(keypair, group.PublicKeys(), xtesting.AcceptAllValidator{})
	require.NoError(t, err)

	assert.Equal(t, a.Balance(), rehydrated.Balance())
	assert.Equal(t, a.CreditsSince(0), rehydrated.CreditsSince(0))
	assert.Equal(t, a.DebitsSince(0), rehydrated.DebitsSince(0))
	assert.True(t, a.Replicas().Equal(rehydrated.Replicas()))
}

func TestLogCorruptRecord(t *testing.T) {
	store := openBackend(t, eventstore.BackendMemory)
	require.NoError(t, store.Append(0, []byte{0xFF, 0x01}))

	log := eventstore.NewLog(store)
	err := log.Replay(func(actor.Event) error { return nil })
	assert.ErrorIs(t, err, eventstore.ErrCorruptRecord)
}

// fundedActorForStore mirrors the actor-package fixture without importing
// its tests: a snapshot actor with one initial credit.
func fundedActorForStore(t *testing.T, balance uint64) (*actor.Actor, crypto.KeyPair, *xtesting.ReplicaGroup) {
	t.Helper()
	group, err := xtesting.NewReplicaGroup(1, 3)
	require.NoError(t, err)
	a, keypair, err := xtesting.NewFundedActor(types.FromNano(balance), group)
	require.NoError(t, err)
	return a, keypair, group
}

// certifiedTransferTo runs a full debit cycle at the funder and returns
// the agreement proof crediting the recipient.
func certifiedTransferTo(t *testing.T, funder *actor.Actor, group *xtesting.ReplicaGroup, amount uint64, to types.AccountID) types.DebitAgreementProof {
	t.Helper()
	initiated, err := funder.Transfer(types.FromNano(amount), to)
	require.NoError(t, err)
	funder.Apply(initiated)

	validations, err := group.Validate(initiated.SignedTransfer)
	require.NoError(t, err)
	for _, validation := range validations {
		received, err := funder.Receive(validation)
		require.NoError(t, err)
		funder.Apply(received)
		if received.Proof != nil {
			registration, err := funder.Register(*received.Proof)
			require.NoError(t, err)
			funder.Apply(registration)
			return *received.Proof
		}
	}
	t.Fatal("no quorum reached")
	return types.DebitAgreementProof{}
}
