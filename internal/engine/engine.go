package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/models/events"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/storage"
)

// Engine is the transaction processor. It owns the record and account
// stores for the lifetime of one run and applies events strictly in arrival
// order, so it needs no internal locking. Rejected events are logged (and
// published to the audit topic when one is configured) and never stop the
// run; only a store backend failure is fatal.
type Engine struct {
	records    interfaces.RecordStore
	accounts   interfaces.AccountStore
	publisher  interfaces.EventPublisher
	auditTopic string
	logger     *slog.Logger

	processed int
	rejected  int
}

// New creates an engine over the given stores. publisher may be nil, in
// which case no audit events are emitted.
func New(records interfaces.RecordStore, accounts interfaces.AccountStore, publisher interfaces.EventPublisher, auditTopic string, logger *slog.Logger) *Engine {
	return &Engine{
		records:    records,
		accounts:   accounts,
		publisher:  publisher,
		auditTopic: auditTopic,
		logger:     logger,
	}
}

// Run drains the feed until it is closed, processing each event in order.
// Channel close is the end-of-stream signal; the caller then reads the
// account store for the summary.
func (e *Engine) Run(ctx context.Context, feed <-chan models.TransactionEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-feed:
			if !ok {
				return nil
			}
			if err := e.Process(ev); err != nil {
				if _, isRejection := AsRejection(err); isRejection {
					continue
				}
				return err
			}
		}
	}
}

// Process applies a single event. A returned *Rejection means the event was
// dropped with no side effect on balances; any other error is a store
// backend failure and aborts the run.
func (e *Engine) Process(ev models.TransactionEvent) error {
	var err error
	switch ev.Kind {
	case models.KindDeposit:
		err = e.processDeposit(ev)
	case models.KindWithdrawal:
		err = e.processWithdrawal(ev)
	case models.KindDispute:
		err = e.processDispute(ev)
	case models.KindResolve:
		err = e.processResolve(ev)
	case models.KindChargeback:
		err = e.processChargeback(ev)
	default:
		err = reject(ReasonUnknownKind, ev)
	}

	if err != nil {
		rej, isRejection := AsRejection(err)
		if !isRejection {
			return err
		}
		e.rejected++
		e.logger.Error("transaction rejected",
			"kind", rej.Kind.String(),
			"tx", uint32(rej.Tx),
			"client", uint16(rej.Client),
			"reason", string(rej.Reason),
		)
		e.publishRejection(rej)
		return rej
	}

	e.processed++
	return nil
}

// Stats reports how many events were applied and how many were rejected.
func (e *Engine) Stats() (processed, rejected int) {
	return e.processed, e.rejected
}

func (e *Engine) processDeposit(ev models.TransactionEvent) error {
	amount, err := e.requireAmount(ev)
	if err != nil {
		return err
	}

	acct, err := e.accounts.GetOrCreate(ev.Client)
	if err != nil {
		return fmt.Errorf("account store: %w", err)
	}
	if acct.Locked {
		return reject(ReasonAccountLocked, ev)
	}

	if err := e.records.InsertDeposit(ev.Tx, ev.Client, amount); err != nil {
		if errors.Is(err, storage.ErrDuplicateTx) {
			return reject(ReasonDuplicateTx, ev)
		}
		return fmt.Errorf("record store: %w", err)
	}

	acct.Available = acct.Available.Add(amount)
	return e.putAccount(acct)
}

func (e *Engine) processWithdrawal(ev models.TransactionEvent) error {
	amount, err := e.requireAmount(ev)
	if err != nil {
		return err
	}

	acct, err := e.accounts.GetOrCreate(ev.Client)
	if err != nil {
		return fmt.Errorf("account store: %w", err)
	}
	if acct.Locked {
		return reject(ReasonAccountLocked, ev)
	}
	if acct.Available.LessThan(amount) {
		return reject(ReasonInsufficientFunds, ev)
	}

	if err := e.records.InsertWithdrawal(ev.Tx, ev.Client, amount); err != nil {
		if errors.Is(err, storage.ErrDuplicateTx) {
			return reject(ReasonDuplicateTx, ev)
		}
		return fmt.Errorf("record store: %w", err)
	}

	acct.Available = acct.Available.Sub(amount)
	return e.putAccount(acct)
}

func (e *Engine) processDispute(ev models.TransactionEvent) error {
	rec, err := e.lookupRecord(ev)
	if err != nil {
		return err
	}
	if rec.State != models.Undisputed {
		return reject(ReasonInvalidTransition, ev)
	}

	acct, err := e.accounts.GetOrCreate(ev.Client)
	if err != nil {
		return fmt.Errorf("account store: %w", err)
	}

	switch rec.Kind {
	case models.KindDeposit:
		// Freezing a deposit debits available even if that drives it
		// negative; only withdrawals check sufficiency.
		acct.Available = acct.Available.Sub(rec.Amount)
		acct.Held = acct.Held.Add(rec.Amount)
	case models.KindWithdrawal:
		// The withdrawn amount already left available, so the freeze is a
		// liability in held and total grows by the disputed amount.
		acct.Held = acct.Held.Add(rec.Amount)
	}

	if err := e.records.SetDisputeState(ev.Tx, models.Disputed); err != nil {
		return fmt.Errorf("record store: %w", err)
	}
	return e.putAccount(acct)
}

func (e *Engine) processResolve(ev models.TransactionEvent) error {
	rec, err := e.lookupRecord(ev)
	if err != nil {
		return err
	}
	if rec.State != models.Disputed {
		return reject(ReasonInvalidTransition, ev)
	}

	acct, err := e.accounts.GetOrCreate(ev.Client)
	if err != nil {
		return fmt.Errorf("account store: %w", err)
	}

	switch rec.Kind {
	case models.KindDeposit:
		acct.Held = acct.Held.Sub(rec.Amount)
		acct.Available = acct.Available.Add(rec.Amount)
	case models.KindWithdrawal:
		acct.Held = acct.Held.Sub(rec.Amount)
	}

	if err := e.records.SetDisputeState(ev.Tx, models.Undisputed); err != nil {
		return fmt.Errorf("record store: %w", err)
	}
	return e.putAccount(acct)
}

func (e *Engine) processChargeback(ev models.TransactionEvent) error {
	rec, err := e.lookupRecord(ev)
	if err != nil {
		return err
	}
	if rec.State != models.Disputed {
		return reject(ReasonInvalidTransition, ev)
	}

	acct, err := e.accounts.GetOrCreate(ev.Client)
	if err != nil {
		return fmt.Errorf("account store: %w", err)
	}

	switch rec.Kind {
	case models.KindDeposit:
		// The disputed deposit is pulled back; available was already
		// debited at dispute time.
		acct.Held = acct.Held.Sub(rec.Amount)
	case models.KindWithdrawal:
		// The original withdrawal is reversed.
		acct.Held = acct.Held.Sub(rec.Amount)
		acct.Available = acct.Available.Add(rec.Amount)
	}
	acct.Locked = true

	if err := e.records.SetDisputeState(ev.Tx, models.ChargedBack); err != nil {
		return fmt.Errorf("record store: %w", err)
	}
	return e.putAccount(acct)
}

// requireAmount validates the amount of a deposit or withdrawal. Lifecycle
// events go through lookupRecord instead, which requires the opposite.
func (e *Engine) requireAmount(ev models.TransactionEvent) (decimal.Decimal, error) {
	if !ev.Amount.Valid || !ev.Amount.Decimal.IsPositive() {
		return decimal.Decimal{}, reject(ReasonMalformed, ev)
	}
	return ev.Amount.Decimal, nil
}

// lookupRecord resolves a lifecycle event to the record it references,
// rejecting events that carry an amount, point at an unknown tx, or name a
// different client than the record.
func (e *Engine) lookupRecord(ev models.TransactionEvent) (models.LedgerRecord, error) {
	if ev.Amount.Valid {
		return models.LedgerRecord{}, reject(ReasonMalformed, ev)
	}

	rec, found, err := e.records.Get(ev.Tx)
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("record store: %w", err)
	}
	if !found {
		return models.LedgerRecord{}, reject(ReasonUnknownTx, ev)
	}
	if rec.Client != ev.Client {
		return models.LedgerRecord{}, reject(ReasonClientMismatch, ev)
	}
	return rec, nil
}

func (e *Engine) putAccount(acct models.Account) error {
	if err := e.accounts.Put(acct); err != nil {
		return fmt.Errorf("account store: %w", err)
	}
	return nil
}

// publishRejection mirrors a rejection onto the audit topic. Delivery is
// best effort: failures are logged and never stop processing.
func (e *Engine) publishRejection(rej *Rejection) {
	if e.publisher == nil {
		return
	}
	event := events.TransactionRejected{
		EventID:    uuid.New().String(),
		Kind:       rej.Kind.String(),
		Tx:         uint32(rej.Tx),
		Client:     uint16(rej.Client),
		Reason:     string(rej.Reason),
		OccurredAt: time.Now().UTC(),
	}
	if err := e.publisher.Publish(e.auditTopic, event); err != nil {
		e.logger.Error("failed to publish audit event", "error", err)
	}
}
