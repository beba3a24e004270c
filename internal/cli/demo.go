package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goAT2/internal/config"
	"github.com/LeJamon/goAT2/internal/core/actor"
	"github.com/LeJamon/goAT2/internal/core/replica"
	"github.com/LeJamon/goAT2/internal/crypto"
	"github.com/LeJamon/goAT2/internal/storage/eventstore"
	xtesting "github.com/LeJamon/goAT2/internal/testing"
	"github.com/LeJamon/goAT2/internal/types"
)

// demoCmd runs the full debit lifecycle in process: initiate, validate at
// a simulated replica group, register, propagate to a second group, and
// synch at the recipient. The sender's events are persisted to the
// configured event store and the sender is rehydrated from it at the end.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an end-to-end transfer between two in-process actors",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	senderGroup, err := xtesting.NewReplicaGroup(cfg.Group.Threshold, cfg.Group.Size)
	if err != nil {
		return err
	}
	recipientGroup, err := xtesting.NewReplicaGroup(cfg.Group.Threshold, cfg.Group.Size)
	if err != nil {
		return err
	}
	genesisGroup, err := xtesting.NewReplicaGroup(cfg.Group.Threshold, cfg.Group.Size)
	if err != nil {
		return err
	}

	senderKey, err := crypto.GenerateEd25519()
	if err != nil {
		return err
	}
	sender := actor.New(senderKey, senderGroup.PublicKeys(), xtesting.AcceptAllValidator{})

	recipient, _, err := xtesting.NewFundedActor(types.FromNano(cfg.Demo.RecipientBalance), recipientGroup)
	if err != nil {
		return err
	}

	store, err := eventstore.New(&eventstore.Config{
		Backend:    cfg.Storage.Backend,
		Path:       filepath.Join(cfg.DataDir, "events"),
		SyncWrites: cfg.Storage.SyncWrites,
	})
	if err != nil {
		return err
	}
	if err := store.Open(true); err != nil {
		return err
	}
	defer store.Close()
	log := eventstore.NewLog(store)

	record := func(event actor.Event) error {
		sender.Apply(event)
		return log.Append(event)
	}

	// Fund the sender with a credit certified by the genesis group.
	if err := fundSender(sender, genesisGroup, types.FromNano(cfg.Demo.SenderBalance), record); err != nil {
		return err
	}
	fmt.Printf("sender funded: balance=%s\n", sender.Balance())

	// Step 1: initiate.
	initiated, err := sender.Transfer(types.FromNano(cfg.Demo.Amount), recipient.ID())
	if err != nil {
		return err
	}
	if err := record(initiated); err != nil {
		return err
	}
	fmt.Printf("debit initiated: %s -> %s amount=%s\n", sender.ID(), recipient.ID(), types.FromNano(cfg.Demo.Amount))

	// Step 2: validate at the replicas until the quorum completes.
	validations, err := senderGroup.Validate(initiated.SignedTransfer)
	if err != nil {
		return err
	}
	var proof *types.DebitAgreementProof
	for i, validation := range validations {
		received, err := sender.Receive(validation)
		if err != nil {
			return err
		}
		if err := record(received); err != nil {
			return err
		}
		if received.Proof != nil {
			proof = received.Proof
			fmt.Printf("quorum reached after %d validations\n", i+1)
			break
		}
	}
	if proof == nil {
		return fmt.Errorf("no quorum from %d validations", len(validations))
	}

	// Step 3: register.
	registration, err := sender.Register(*proof)
	if err != nil {
		return err
	}
	if err := record(registration); err != nil {
		return err
	}
	fmt.Printf("debit registered: sender balance=%s\n", sender.Balance())

	// Step 4: the sender's replicas propagate to the recipient's group;
	// the recipient synchronises the credit.
	synched, err := recipient.Synch([]replica.Event{
		replica.TransferPropagated{
			DebitProof:       *proof,
			DebitingReplicas: senderGroup.PublicKeys().PublicKey(),
		},
	})
	if err != nil {
		return err
	}
	recipient.Apply(synched)
	fmt.Printf("credit synched: recipient balance=%s\n", recipient.Balance())

	// Rehydrate the sender from the persisted log and cross-check.
	rehydrated, err := log.Rehydrate(senderKey, senderGroup.PublicKeys(), xtesting.AcceptAllValidator{})
	if err != nil {
		return err
	}
	fmt.Printf("rehydrated from %s: balance=%s\n", store.Name(), rehydrated.Balance())
	if rehydrated.Balance() != sender.Balance() {
		return fmt.Errorf("rehydrated balance %s does not match live balance %s", rehydrated.Balance(), sender.Balance())
	}
	return nil
}

// fundSender synchs one certified credit from an unrelated funder into
// the sender's account.
func fundSender(sender *actor.Actor, group *xtesting.ReplicaGroup, amount types.Money, record func(actor.Event) error) error {
	funderKey, err := crypto.GenerateEd25519()
	if err != nil {
		return err
	}
	transfer := types.Transfer{
		ID:     types.NewDot(funderKey.PublicKey(), 0),
		To:     sender.ID(),
		Amount: amount,
	}
	sig, err := funderKey.Sign(transfer.Bytes())
	if err != nil {
		return err
	}
	proof, err := group.Certify(types.SignedTransfer{Transfer: transfer, ActorSignature: sig})
	if err != nil {
		return err
	}
	synched, err := sender.Synch([]replica.Event{
		replica.TransferPropagated{
			DebitProof:       proof,
			DebitingReplicas: group.PublicKeys().PublicKey(),
		},
	})
	if err != nil {
		return err
	}
	return record(synched)
}
