package storage

import "errors"

// Errors shared by every store backend. The engine matches on these with
// errors.Is regardless of which backend is configured.
var (
	// ErrDuplicateTx means the TxID already exists in the deposit or
	// withdrawal history.
	ErrDuplicateTx = errors.New("duplicate transaction id")

	// ErrUnknownTx means a lifecycle mutation referenced a TxID with no
	// stored record.
	ErrUnknownTx = errors.New("unknown transaction id")
)
