package testing

import (
	"github.com/LeJamon/goAT2/internal/core/account"
	"github.com/LeJamon/goAT2/internal/core/actor"
	"github.com/LeJamon/goAT2/internal/crypto"
	"github.com/LeJamon/goAT2/internal/crypto/threshold"
	"github.com/LeJamon/goAT2/internal/types"
)

// AcceptAllValidator accepts every remote Replica group. Stand-in for the
// membership layer in tests and the demo.
type AcceptAllValidator struct{}

// IsValid always returns true.
func (AcceptAllValidator) IsValid(threshold.PublicKey) bool {
	return true
}

// NewFundedActor creates an actor whose account snapshot holds one
// initial credit of the given amount from an unrelated sender (no credit
// when the amount is zero), attached to the given replica group. Returns
// the actor and its keypair.
func NewFundedActor(balance types.Money, group *ReplicaGroup) (*actor.Actor, *crypto.Ed25519KeyPair, error) {
	keypair, err := crypto.GenerateEd25519()
	if err != nil {
		return nil, nil, err
	}
	id := keypair.PublicKey()
	acct := account.New(id)
	if !balance.IsZero() {
		acct.Append(types.Transfer{
			ID:     types.NewDot(RandomAccountID(), 0),
			To:     id,
			Amount: balance,
		})
	}
	a := actor.FromSnapshot(acct, keypair, group.PublicKeys(), AcceptAllValidator{})
	return a, keypair, nil
}
