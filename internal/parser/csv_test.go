package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/logging"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/parser"
)

func collect(t *testing.T, input string) []models.TransactionEvent {
	t.Helper()

	out := make(chan models.TransactionEvent, 64)
	feed := parser.New(strings.NewReader(input), out, logging.Discard())

	done := make(chan error, 1)
	go func() { done <- feed.Run(context.Background()) }()

	var events []models.TransactionEvent
	for ev := range out {
		events = append(events, ev)
	}
	require.NoError(t, <-done)
	return events
}

func TestFeedNormalizesRowsInOrder(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1, 10.5\n" +
		"withdrawal, 1, 2, 4.25\n" +
		"dispute, 1, 1,\n" +
		"resolve, 1, 1,\n" +
		"chargeback, 1, 1,\n"

	events := collect(t, input)
	require.Len(t, events, 5)

	assert.Equal(t, models.KindDeposit, events[0].Kind)
	assert.Equal(t, models.ClientID(1), events[0].Client)
	assert.Equal(t, models.TxID(1), events[0].Tx)
	require.True(t, events[0].Amount.Valid)
	assert.True(t, events[0].Amount.Decimal.Equal(decimal.RequireFromString("10.5")))

	assert.Equal(t, models.KindWithdrawal, events[1].Kind)
	assert.Equal(t, models.KindDispute, events[2].Kind)
	assert.Equal(t, models.KindResolve, events[3].Kind)
	assert.Equal(t, models.KindChargeback, events[4].Kind)

	// Lifecycle rows carry no amount.
	for _, ev := range events[2:] {
		assert.False(t, ev.Amount.Valid)
	}
}

func TestFeedPassesThroughSemanticallySuspectRows(t *testing.T) {
	// A deposit without an amount and an unknown type are the engine's
	// problem, not the feed's.
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1,\n" +
		"transfer, 1, 2, 3\n"

	events := collect(t, input)
	require.Len(t, events, 2)
	assert.Equal(t, models.KindDeposit, events[0].Kind)
	assert.False(t, events[0].Amount.Valid)
	assert.Equal(t, models.KindUnknown, events[1].Kind)
}

func TestFeedDropsUnparseableRows(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, not-a-client, 1, 10\n" +
		"deposit, 1, not-a-tx, 10\n" +
		"deposit, 1, 2, not-a-number\n" +
		"deposit, 1\n" +
		"deposit, 2, 3, 7\n"

	events := collect(t, input)
	require.Len(t, events, 1)
	assert.Equal(t, models.TxID(3), events[0].Tx)
}

func TestFeedHandlesThreeColumnLifecycleRows(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 5, 9, 2\n" +
		"dispute, 5, 9\n"

	events := collect(t, input)
	require.Len(t, events, 2)
	assert.Equal(t, models.KindDispute, events[1].Kind)
	assert.False(t, events[1].Amount.Valid)
}

func TestFeedClosesChannelOnEmptyInput(t *testing.T) {
	events := collect(t, "type, client, tx, amount\n")
	assert.Empty(t, events)

	events = collect(t, "")
	assert.Empty(t, events)
}
