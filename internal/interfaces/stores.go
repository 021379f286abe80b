package interfaces

import (
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
)

// RecordStore holds the deposit and withdrawal histories, keyed by TxID.
// TxIDs are unique across both histories: an insert fails when the id is
// already present in either one. Get is the only way a dispute-lifecycle
// event resolves which original transaction (and hence which client and
// amount) it targets.
type RecordStore interface {
	InsertDeposit(tx models.TxID, client models.ClientID, amount decimal.Decimal) error
	InsertWithdrawal(tx models.TxID, client models.ClientID, amount decimal.Decimal) error
	Get(tx models.TxID) (models.LedgerRecord, bool, error)
	SetDisputeState(tx models.TxID, state models.DisputeState) error
	Count() (int, error)
}

// AccountStore maps clients to account state. Accounts are created lazily
// and never removed. The engine reads a snapshot, mutates it, and writes it
// back with Put, so a backend never has to hand out mutable references.
type AccountStore interface {
	GetOrCreate(client models.ClientID) (models.Account, error)
	Get(client models.ClientID) (models.Account, bool, error)
	Put(account models.Account) error
	All() ([]models.Account, error)
}
