// Package account implements the local ledger of a single account: an
// append-only record of applied transfers, split into credits (incoming)
// and debits (outgoing).
package account

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goAT2/internal/types"
)

// ErrInvalidOperation indicates a transfer that structurally violates the
// ledger contract, such as a debit not owned by this account.
var ErrInvalidOperation = errors.New("invalid operation on account")

// Account is the applied-transfer history of one account.
//
// Invariants: every debit has ID.Actor equal to the owner and every credit
// has To equal to the owner; debit counters form the dense sequence
// 0,1,2,…; the balance never goes below zero.
type Account struct {
	id      types.AccountID
	credits []types.Transfer
	debits  []types.Transfer
}

// New creates an empty ledger for the given owner.
func New(id types.AccountID) *Account {
	return &Account{id: id}
}

// ID returns the owner of the ledger.
func (a *Account) ID() types.AccountID {
	return a.id
}

// Balance returns total credits minus total debits.
func (a *Account) Balance() types.Money {
	var balance types.Money
	var err error
	for _, c := range a.credits {
		if balance, err = balance.Add(c.Amount); err != nil {
			panic(fmt.Sprintf("account %s: credit sum overflow", a.id))
		}
	}
	for _, d := range a.debits {
		if balance, err = balance.Sub(d.Amount); err != nil {
			panic(fmt.Sprintf("account %s: balance underflow", a.id))
		}
	}
	return balance
}

// NextDebit returns the counter the next debit must carry, which is the
// number of applied debits.
func (a *Account) NextDebit() uint64 {
	return uint64(len(a.debits))
}

// CreditsSince returns the credits applied at or after index i, in
// application order. Empty if i is past the end.
func (a *Account) CreditsSince(i int) []types.Transfer {
	if i < 0 || i >= len(a.credits) {
		return nil
	}
	out := make([]types.Transfer, len(a.credits)-i)
	copy(out, a.credits[i:])
	return out
}

// DebitsSince returns the debits applied at or after index i, in
// application order. Empty if i is past the end.
func (a *Account) DebitsSince(i int) []types.Transfer {
	if i < 0 || i >= len(a.debits) {
		return nil
	}
	out := make([]types.Transfer, len(a.debits)-i)
	copy(out, a.debits[i:])
	return out
}

// Contains reports whether any applied credit or debit has the given dot.
func (a *Account) Contains(dot types.Dot) bool {
	for _, d := range a.debits {
		if d.ID == dot {
			return true
		}
	}
	for _, c := range a.credits {
		if c.ID == dot {
			return true
		}
	}
	return false
}

// IsSequential reports whether the transfer is the next debit in sequence.
// Returns ErrInvalidOperation if the transfer does not debit this owner.
func (a *Account) IsSequential(t types.Transfer) (bool, error) {
	if t.ID.Actor != a.id {
		return false, ErrInvalidOperation
	}
	return t.ID.Counter == a.NextDebit(), nil
}

// Append applies a transfer without validation; the caller must have
// validated it. A transfer debiting the owner goes to the debit list, one
// crediting the owner to the credit list. Any other transfer is a
// programmer bug.
func (a *Account) Append(t types.Transfer) {
	switch {
	case t.ID.Actor == a.id:
		a.debits = append(a.debits, t)
	case t.To == a.id:
		a.credits = append(a.credits, t)
	default:
		panic(fmt.Sprintf("account %s: transfer %s neither debits nor credits owner", a.id, t.ID))
	}
}
