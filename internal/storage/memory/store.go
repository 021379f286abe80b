package memory

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/storage"
)

// RecordStore is the in-memory implementation of interfaces.RecordStore.
// Deposits and withdrawals live in separate maps, but both share the TxID
// namespace, so an insert checks both before accepting an id.
type RecordStore struct {
	mu          sync.Mutex
	deposits    map[models.TxID]models.LedgerRecord
	withdrawals map[models.TxID]models.LedgerRecord
}

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		deposits:    make(map[models.TxID]models.LedgerRecord),
		withdrawals: make(map[models.TxID]models.LedgerRecord),
	}
}

func (s *RecordStore) InsertDeposit(tx models.TxID, client models.ClientID, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists(tx) {
		return storage.ErrDuplicateTx
	}
	s.deposits[tx] = models.LedgerRecord{
		Tx:     tx,
		Client: client,
		Kind:   models.KindDeposit,
		Amount: amount,
		State:  models.Undisputed,
	}
	return nil
}

func (s *RecordStore) InsertWithdrawal(tx models.TxID, client models.ClientID, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists(tx) {
		return storage.ErrDuplicateTx
	}
	s.withdrawals[tx] = models.LedgerRecord{
		Tx:     tx,
		Client: client,
		Kind:   models.KindWithdrawal,
		Amount: amount,
		State:  models.Undisputed,
	}
	return nil
}

// Get returns a copy of the record for tx, looking in the deposit history
// first and the withdrawal history second.
func (s *RecordStore) Get(tx models.TxID) (models.LedgerRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.deposits[tx]; ok {
		return rec, true, nil
	}
	if rec, ok := s.withdrawals[tx]; ok {
		return rec, true, nil
	}
	return models.LedgerRecord{}, false, nil
}

func (s *RecordStore) SetDisputeState(tx models.TxID, state models.DisputeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.deposits[tx]; ok {
		rec.State = state
		s.deposits[tx] = rec
		return nil
	}
	if rec, ok := s.withdrawals[tx]; ok {
		rec.State = state
		s.withdrawals[tx] = rec
		return nil
	}
	return storage.ErrUnknownTx
}

func (s *RecordStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deposits) + len(s.withdrawals), nil
}

// exists must be called with the mutex held.
func (s *RecordStore) exists(tx models.TxID) bool {
	if _, ok := s.deposits[tx]; ok {
		return true
	}
	_, ok := s.withdrawals[tx]
	return ok
}

// AccountStore is the in-memory implementation of interfaces.AccountStore.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[models.ClientID]models.Account
}

// NewAccountStore creates an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[models.ClientID]models.Account),
	}
}

// GetOrCreate returns the account for client, initializing a zeroed one on
// first reference.
func (s *AccountStore) GetOrCreate(client models.ClientID) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[client]
	if !ok {
		acct = models.NewAccount(client)
		s.accounts[client] = acct
	}
	return acct, nil
}

func (s *AccountStore) Get(client models.ClientID) (models.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[client]
	return acct, ok, nil
}

func (s *AccountStore) Put(account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.Client] = account
	return nil
}

// All returns a copy of every account so callers can't mutate internal state.
func (s *AccountStore) All() ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, acct)
	}
	return out, nil
}

// Compile-time checks: both stores satisfy their interfaces.
var (
	_ interfaces.RecordStore  = (*RecordStore)(nil)
	_ interfaces.AccountStore = (*AccountStore)(nil)
)
