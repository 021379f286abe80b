package models

import "github.com/shopspring/decimal"

// DisputeState is the lifecycle position of a ledger record. Transitions:
// Undisputed -> Disputed (dispute), Disputed -> Undisputed (resolve),
// Disputed -> ChargedBack (chargeback, terminal). Anything else is rejected.
type DisputeState int

const (
	Undisputed DisputeState = iota
	Disputed
	ChargedBack
)

func (s DisputeState) String() string {
	switch s {
	case Undisputed:
		return "undisputed"
	case Disputed:
		return "disputed"
	case ChargedBack:
		return "charged_back"
	default:
		return "invalid"
	}
}

// LedgerRecord is one historical deposit or withdrawal, keyed by TxID.
// Records are created on first successful deposit/withdrawal, mutated only
// by lifecycle events referencing them, and never deleted.
type LedgerRecord struct {
	Tx     TxID
	Client ClientID
	Kind   TransactionKind // KindDeposit or KindWithdrawal
	Amount decimal.Decimal
	State  DisputeState
}
