package actor

import (
	"sort"

	"github.com/LeJamon/goAT2/internal/core/replica"
	"github.com/LeJamon/goAT2/internal/crypto/threshold"
)

// accumulator collects verified Replica validations for the debit in
// flight, grouped by the public key set that produced them. During a
// Replica churn validations from several key sets can accumulate
// concurrently; each group accumulates independently, and Actor.Receive
// checks for quorum only in the group that currently holds the most
// validations.
//
// Both map levels are keyed by canonical encodings, which gives set
// semantics and lets iteration be made deterministic by sorting keys.
type accumulator struct {
	groups map[string]map[string]replica.TransferValidated
}

func newAccumulator() *accumulator {
	return &accumulator{groups: make(map[string]map[string]replica.TransferValidated)}
}

// contains reports whether the exact validation was already accumulated
// in any group.
func (a *accumulator) contains(v replica.TransferValidated) bool {
	key := string(v.Bytes())
	for _, group := range a.groups {
		if _, ok := group[key]; ok {
			return true
		}
	}
	return false
}

// insert adds a validation to its group, creating the group if needed.
func (a *accumulator) insert(v replica.TransferValidated) {
	groupKey := v.Replicas.Key()
	group, ok := a.groups[groupKey]
	if !ok {
		group = make(map[string]replica.TransferValidated)
		a.groups[groupKey] = group
	}
	group[string(v.Bytes())] = v
}

// largest returns the group holding the most validations, or ok=false if
// the accumulator is empty. Ties break on the lexicographically smallest
// group key so that replays are deterministic.
func (a *accumulator) largest() (*threshold.PublicKeySet, []replica.TransferValidated, bool) {
	var bestKey string
	bestLen := -1
	for key, group := range a.groups {
		if len(group) > bestLen || (len(group) == bestLen && key < bestKey) {
			bestKey, bestLen = key, len(group)
		}
	}
	if bestLen < 0 {
		return nil, nil, false
	}
	group := a.groups[bestKey]
	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	validations := make([]replica.TransferValidated, 0, len(keys))
	for _, k := range keys {
		validations = append(validations, group[k])
	}
	set, err := threshold.PublicKeySetFromBytes([]byte(bestKey))
	if err != nil {
		// Group keys are produced by PublicKeySet.Key; failing to decode
		// one is a programmer bug.
		panic("actor: corrupt accumulator group key")
	}
	return set, validations, true
}

// clear drops every accumulated validation.
func (a *accumulator) clear() {
	a.groups = make(map[string]map[string]replica.TransferValidated)
}
