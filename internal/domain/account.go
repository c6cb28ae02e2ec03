package domain

import (
	"fmt"
	"sort"
)

// ClientID identifies the owner of an account.
type ClientID uint16

// TxID identifies a transaction. Unique per deposit, not across event types.
type TxID uint32

// DisputeState state of a possibly initiated dispute for a deposit.
type DisputeState int

const (
	// DisputeNotInitiated initial state of every deposit; also reached again after a resolve.
	DisputeNotInitiated DisputeState = iota
	// DisputeInitiated deposit funds are held.
	DisputeInitiated
	// DisputeChargedBack terminal, funds were reversed.
	DisputeChargedBack
)

// String returns the string representation.
func (s DisputeState) String() string {
	switch s {
	case DisputeNotInitiated:
		return "not_initiated"
	case DisputeInitiated:
		return "initiated"
	case DisputeChargedBack:
		return "charged_back"
	default:
		return fmt.Sprintf("DisputeState(%d)", int(s))
	}
}

// Deposit amount and dispute state of a deposit transaction.
// Kept for dispute resolution only.
type Deposit struct {
	// Amount immutable once recorded.
	Amount Amount
	State  DisputeState
}

// Account current state of a client's account.
type Account struct {
	// Available funds that can be withdrawn.
	Available Amount
	// Held funds frozen by open disputes.
	Held Amount
	// Locked set by a chargeback. Blocks withdrawals only.
	Locked bool
	// Deposits registry by transaction id, kept for the lifetime of the account.
	Deposits map[TxID]*Deposit
}

// NewAccount creates an empty unlocked account.
func NewAccount() *Account {
	return &Account{Deposits: make(map[TxID]*Deposit)}
}

// Total available plus held funds.
func (a *Account) Total() Amount {
	return a.Available + a.Held
}

// Accounts maps client ids to their accounts.
type Accounts map[ClientID]*Account

// Account returns the account of the client, creating an empty one on first access.
func (a Accounts) Account(client ClientID) *Account {
	acc, ok := a[client]
	if !ok {
		acc = NewAccount()
		a[client] = acc
	}

	return acc
}

// AccountSnapshot final, read-only projection of an account.
type AccountSnapshot struct {
	Client    ClientID
	Available Amount
	Held      Amount
	Total     Amount
	Locked    bool
}

// Snapshot projects every account ordered by client id.
func (a Accounts) Snapshot() []AccountSnapshot {
	rows := make([]AccountSnapshot, 0, len(a))
	for client, acc := range a {
		rows = append(rows, AccountSnapshot{
			Client:    client,
			Available: acc.Available,
			Held:      acc.Held,
			Total:     acc.Total(),
			Locked:    acc.Locked,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Client < rows[j].Client
	})

	return rows
}
