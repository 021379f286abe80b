package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies an account holder.
type ClientID uint16

// TxID identifies a historical deposit or withdrawal. TxIDs are globally
// unique across both histories and are referenced by later dispute-lifecycle
// events.
type TxID uint32

// TransactionKind is the type of an incoming transaction event.
type TransactionKind int

const (
	KindUnknown TransactionKind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

// ParseTransactionKind maps a raw record type to its kind. Unrecognized
// types come back as KindUnknown so the engine can reject them with a log
// line instead of the feed dropping them silently.
func ParseTransactionKind(s string) TransactionKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return KindDeposit
	case "withdrawal":
		return KindWithdrawal
	case "dispute":
		return KindDispute
	case "resolve":
		return KindResolve
	case "chargeback":
		return KindChargeback
	default:
		return KindUnknown
	}
}

func (k TransactionKind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// IsLifecycle reports whether the kind references an earlier transaction
// rather than moving new money.
func (k TransactionKind) IsLifecycle() bool {
	return k == KindDispute || k == KindResolve || k == KindChargeback
}

// TransactionEvent is one normalized row of the input feed. Amount is
// optional on the wire: deposits and withdrawals must carry one, lifecycle
// events must not. The engine, not the parser, judges that.
type TransactionEvent struct {
	Kind   TransactionKind
	Client ClientID
	Tx     TxID
	Amount decimal.NullDecimal
}
