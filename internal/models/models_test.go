package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
)

func TestParseTransactionKind(t *testing.T) {
	cases := map[string]models.TransactionKind{
		"deposit":     models.KindDeposit,
		" Withdrawal": models.KindWithdrawal,
		"DISPUTE":     models.KindDispute,
		"resolve ":    models.KindResolve,
		"chargeback":  models.KindChargeback,
		"transfer":    models.KindUnknown,
		"":            models.KindUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, models.ParseTransactionKind(raw), "raw=%q", raw)
	}
}

func TestKindIsLifecycle(t *testing.T) {
	assert.False(t, models.KindDeposit.IsLifecycle())
	assert.False(t, models.KindWithdrawal.IsLifecycle())
	assert.True(t, models.KindDispute.IsLifecycle())
	assert.True(t, models.KindResolve.IsLifecycle())
	assert.True(t, models.KindChargeback.IsLifecycle())
}

func TestAccountTotalIsDerived(t *testing.T) {
	acct := models.NewAccount(1)
	assert.True(t, acct.Total().IsZero())

	acct.Available = decimal.RequireFromString("-5")
	acct.Held = decimal.RequireFromString("10")
	assert.True(t, acct.Total().Equal(decimal.RequireFromString("5")))
}
