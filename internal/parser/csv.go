package parser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
)

// Feed reads the raw CSV transaction ledger and delivers one normalized
// TransactionEvent per row, in file order, onto the out channel. The feed
// does not judge semantic validity: a deposit with a missing amount or an
// unrecognized transaction type is passed through for the engine to reject.
// Only rows that cannot be normalized at all (bad integer fields, too few
// columns, unparseable decimals) are dropped with a log line.
type Feed struct {
	r      io.Reader
	out    chan<- models.TransactionEvent
	logger *slog.Logger
}

// New creates a feed over r. The caller owns r; the feed owns out and
// closes it when the input is exhausted.
func New(r io.Reader, out chan<- models.TransactionEvent, logger *slog.Logger) *Feed {
	return &Feed{r: r, out: out, logger: logger}
}

// Run consumes the input to exhaustion, closing the out channel on return
// so the engine sees a clean end-of-stream signal.
func (f *Feed) Run(ctx context.Context) error {
	defer close(f.out)

	rdr := csv.NewReader(f.r)
	rdr.FieldsPerRecord = -1 // lifecycle rows omit the amount column
	rdr.TrimLeadingSpace = true

	// The first row is the type,client,tx,amount header.
	if _, err := rdr.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("read header: %w", err)
	}

	for {
		row, err := rdr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// A malformed row is dropped; an unreadable source is fatal.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				f.logger.Error("failed to read row", "error", err)
				continue
			}
			return fmt.Errorf("read input: %w", err)
		}

		ev, err := parseRow(row)
		if err != nil {
			f.logger.Error("failed to parse row", "row", strings.Join(row, ","), "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case f.out <- ev:
		}
	}
}

func parseRow(row []string) (models.TransactionEvent, error) {
	if len(row) < 3 {
		return models.TransactionEvent{}, fmt.Errorf("expected at least 3 columns, got %d", len(row))
	}

	client, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil {
		return models.TransactionEvent{}, fmt.Errorf("client: %w", err)
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return models.TransactionEvent{}, fmt.Errorf("tx: %w", err)
	}

	ev := models.TransactionEvent{
		Kind:   models.ParseTransactionKind(row[0]),
		Client: models.ClientID(client),
		Tx:     models.TxID(tx),
	}

	if len(row) > 3 {
		if raw := strings.TrimSpace(row[3]); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return models.TransactionEvent{}, fmt.Errorf("amount: %w", err)
			}
			ev.Amount = decimal.NewNullDecimal(amount)
		}
	}

	return ev, nil
}
