package engine

import (
	"errors"
	"fmt"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
)

// RejectReason enumerates every way the engine can refuse an event. A
// rejection drops the event, logs it, and moves on; it is never fatal.
type RejectReason string

const (
	// ReasonMalformed: a deposit/withdrawal without an amount, a lifecycle
	// event carrying one, or a non-positive amount.
	ReasonMalformed RejectReason = "malformed_event"

	// ReasonUnknownKind: the feed produced a transaction type the engine
	// does not recognize.
	ReasonUnknownKind RejectReason = "unknown_kind"

	// ReasonDuplicateTx: the TxID already exists in the deposit or
	// withdrawal history.
	ReasonDuplicateTx RejectReason = "duplicate_tx"

	// ReasonAccountLocked: a new deposit/withdrawal against an account
	// frozen by a chargeback.
	ReasonAccountLocked RejectReason = "account_locked"

	// ReasonInsufficientFunds: a withdrawal larger than available funds.
	ReasonInsufficientFunds RejectReason = "insufficient_funds"

	// ReasonUnknownTx: a lifecycle event referencing a TxID with no record.
	ReasonUnknownTx RejectReason = "unknown_tx"

	// ReasonClientMismatch: a lifecycle event naming a different client
	// than the record it references.
	ReasonClientMismatch RejectReason = "client_mismatch"

	// ReasonInvalidTransition: a lifecycle event against a record whose
	// dispute state forbids it, including anything after a chargeback.
	ReasonInvalidTransition RejectReason = "invalid_transition"
)

// Rejection is the enumerated outcome for a dropped event. It carries enough
// detail to reconstruct why the event was refused.
type Rejection struct {
	Reason RejectReason
	Kind   models.TransactionKind
	Tx     models.TxID
	Client models.ClientID
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s rejected for tx %d (client %d): %s", r.Kind, r.Tx, r.Client, r.Reason)
}

// AsRejection unwraps err into a Rejection, if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

func reject(reason RejectReason, ev models.TransactionEvent) *Rejection {
	return &Rejection{
		Reason: reason,
		Kind:   ev.Kind,
		Tx:     ev.Tx,
		Client: ev.Client,
	}
}
