package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/storage"
)

// uniqueViolation is the postgres error code for a primary key conflict.
const uniqueViolation = "23505"

// EnsureSchema creates the tables the stores need if they do not exist.
func EnsureSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS ledger_records (
		tx     BIGINT PRIMARY KEY,
		client INTEGER NOT NULL,
		kind   TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		state  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS accounts (
		client    INTEGER PRIMARY KEY,
		available NUMERIC NOT NULL,
		held      NUMERIC NOT NULL,
		locked    BOOLEAN NOT NULL
	);`

	_, err := db.Exec(schema)
	return err
}

// RecordStore is the postgres implementation of interfaces.RecordStore.
// Both transaction histories share one table; the kind column tells a
// deposit from a withdrawal and the primary key enforces TxID uniqueness
// across both.
type RecordStore struct {
	db *sql.DB
}

func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) InsertDeposit(tx models.TxID, client models.ClientID, amount decimal.Decimal) error {
	return s.insert(tx, client, models.KindDeposit, amount)
}

func (s *RecordStore) InsertWithdrawal(tx models.TxID, client models.ClientID, amount decimal.Decimal) error {
	return s.insert(tx, client, models.KindWithdrawal, amount)
}

func (s *RecordStore) insert(tx models.TxID, client models.ClientID, kind models.TransactionKind, amount decimal.Decimal) error {
	const query = `INSERT INTO ledger_records (tx, client, kind, amount, state)
	VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.Exec(query, int64(tx), int32(client), kind.String(), amount, models.Undisputed.String())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return storage.ErrDuplicateTx
		}
		return err
	}
	return nil
}

func (s *RecordStore) Get(tx models.TxID) (models.LedgerRecord, bool, error) {
	const query = `SELECT tx, client, kind, amount, state FROM ledger_records WHERE tx = $1`

	var (
		rec     models.LedgerRecord
		txID    int64
		client  int32
		kindRaw string
		state   string
	)
	err := s.db.QueryRow(query, int64(tx)).Scan(&txID, &client, &kindRaw, &rec.Amount, &state)
	if err == sql.ErrNoRows {
		return models.LedgerRecord{}, false, nil
	}
	if err != nil {
		return models.LedgerRecord{}, false, err
	}

	rec.Tx = models.TxID(txID)
	rec.Client = models.ClientID(client)
	rec.Kind = models.ParseTransactionKind(kindRaw)
	rec.State, err = parseDisputeState(state)
	if err != nil {
		return models.LedgerRecord{}, false, err
	}
	return rec, true, nil
}

func (s *RecordStore) SetDisputeState(tx models.TxID, state models.DisputeState) error {
	const query = `UPDATE ledger_records SET state = $2 WHERE tx = $1`

	res, err := s.db.Exec(query, int64(tx), state.String())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrUnknownTx
	}
	return nil
}

func (s *RecordStore) Count() (int, error) {
	const query = `SELECT count(*) FROM ledger_records`

	var count int
	if err := s.db.QueryRow(query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AccountStore is the postgres implementation of interfaces.AccountStore.
type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) GetOrCreate(client models.ClientID) (models.Account, error) {
	const query = `INSERT INTO accounts (client, available, held, locked)
	VALUES ($1, 0, 0, false)
	ON CONFLICT (client) DO NOTHING`

	if _, err := s.db.Exec(query, int32(client)); err != nil {
		return models.Account{}, err
	}

	acct, found, err := s.Get(client)
	if err != nil {
		return models.Account{}, err
	}
	if !found {
		return models.Account{}, fmt.Errorf("account %d missing after upsert", client)
	}
	return acct, nil
}

func (s *AccountStore) Get(client models.ClientID) (models.Account, bool, error) {
	const query = `SELECT client, available, held, locked FROM accounts WHERE client = $1`

	var (
		acct models.Account
		id   int32
	)
	err := s.db.QueryRow(query, int32(client)).Scan(&id, &acct.Available, &acct.Held, &acct.Locked)
	if err == sql.ErrNoRows {
		return models.Account{}, false, nil
	}
	if err != nil {
		return models.Account{}, false, err
	}

	acct.Client = models.ClientID(id)
	return acct, true, nil
}

func (s *AccountStore) Put(account models.Account) error {
	const query = `INSERT INTO accounts (client, available, held, locked)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (client) DO UPDATE SET available = $2, held = $3, locked = $4`

	_, err := s.db.Exec(query, int32(account.Client), account.Available, account.Held, account.Locked)
	return err
}

func (s *AccountStore) All() ([]models.Account, error) {
	const query = `SELECT client, available, held, locked FROM accounts`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var (
			acct models.Account
			id   int32
		)
		if err := rows.Scan(&id, &acct.Available, &acct.Held, &acct.Locked); err != nil {
			return nil, err
		}
		acct.Client = models.ClientID(id)
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func parseDisputeState(s string) (models.DisputeState, error) {
	switch s {
	case models.Undisputed.String():
		return models.Undisputed, nil
	case models.Disputed.String():
		return models.Disputed, nil
	case models.ChargedBack.String():
		return models.ChargedBack, nil
	default:
		return models.Undisputed, fmt.Errorf("unknown dispute state %q", s)
	}
}

var (
	_ interfaces.RecordStore  = (*RecordStore)(nil)
	_ interfaces.AccountStore = (*AccountStore)(nil)
)
