// Package testing provides in-process fixtures for exercising the actor
// protocol without a network: simulated replica groups that validate and
// certify transfers, and snapshot actors with an initial balance. Used by
// package tests and by the demo command.
package testing

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goAT2/internal/core/replica"
	"github.com/LeJamon/goAT2/internal/crypto/threshold"
	"github.com/LeJamon/goAT2/internal/types"
)

// ReplicaGroup simulates one Replica group: it holds the dealer's secret
// key set and signs validation shares the way real replicas would.
type ReplicaGroup struct {
	secrets *threshold.SecretKeySet
}

// NewReplicaGroup deals keys for a group of n replicas with threshold t.
func NewReplicaGroup(t, n int) (*ReplicaGroup, error) {
	secrets, err := threshold.RandomSecretKeySet(t, n)
	if err != nil {
		return nil, err
	}
	return &ReplicaGroup{secrets: secrets}, nil
}

// PublicKeys returns the group's public key set.
func (g *ReplicaGroup) PublicKeys() *threshold.PublicKeySet {
	return g.secrets.PublicKeys()
}

// ValidateAt produces the validation of the replica at index i for the
// given signed transfer.
func (g *ReplicaGroup) ValidateAt(i int, st types.SignedTransfer) (replica.TransferValidated, error) {
	share, err := g.secrets.SignShare(i, st.Bytes())
	if err != nil {
		return replica.TransferValidated{}, err
	}
	return replica.TransferValidated{
		SignedTransfer:   st,
		ReplicaSignature: share,
		Replicas:         g.PublicKeys(),
	}, nil
}

// Validate produces one validation per replica, signing concurrently.
// The result is ordered by replica index.
func (g *ReplicaGroup) Validate(st types.SignedTransfer) ([]replica.TransferValidated, error) {
	validations := make([]replica.TransferValidated, g.secrets.Size())
	var eg errgroup.Group
	for i := 0; i < g.secrets.Size(); i++ {
		eg.Go(func() error {
			v, err := g.ValidateAt(i, st)
			if err != nil {
				return err
			}
			validations[i] = v
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return validations, nil
}

// Certify combines a quorum of the group's shares into a debit agreement
// proof, the way the actor does after accumulating validations.
func (g *ReplicaGroup) Certify(st types.SignedTransfer) (types.DebitAgreementProof, error) {
	keys := g.PublicKeys()
	quorum := keys.Threshold() + 1
	payload := st.Bytes()
	shares := make([]threshold.SignatureShare, 0, quorum)
	for i := 0; i < quorum; i++ {
		share, err := g.secrets.SignShare(i, payload)
		if err != nil {
			return types.DebitAgreementProof{}, err
		}
		shares = append(shares, share)
	}
	sig, err := keys.Combine(payload, shares)
	if err != nil {
		return types.DebitAgreementProof{}, fmt.Errorf("certify transfer: %w", err)
	}
	return types.DebitAgreementProof{
		SignedTransfer:      st,
		DebitingReplicasSig: sig,
		ReplicaKey:          keys,
	}, nil
}

// RandomAccountID returns a random account id, for use as an unrelated
// sender or recipient. No key operations are performed against it.
func RandomAccountID() types.AccountID {
	var id types.AccountID
	if _, err := rand.Read(id[:]); err != nil {
		panic(fmt.Sprintf("testing: random account id: %v", err))
	}
	return id
}
