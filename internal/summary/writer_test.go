package summary_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/models"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/storage/memory"
	"github.com/sheikh-saqib/payments-transaction-engine/internal/summary"
)

func TestWriteRendersSortedFixedPrecisionRows(t *testing.T) {
	store := memory.NewAccountStore()

	require.NoError(t, store.Put(models.Account{
		Client:    3,
		Available: decimal.RequireFromString("1.5"),
		Held:      decimal.RequireFromString("0.25"),
	}))
	require.NoError(t, store.Put(models.Account{
		Client:    1,
		Available: decimal.RequireFromString("-5"),
		Held:      decimal.Zero,
		Locked:    true,
	}))
	require.NoError(t, store.Put(models.Account{
		Client:    2,
		Available: decimal.RequireFromString("10.12345"), // rendered at 4 places
		Held:      decimal.Zero,
	}))

	var out strings.Builder
	require.NoError(t, summary.Write(&out, store))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "client,available,held,total,locked", lines[0])
	assert.Equal(t, "1,-5.0000,0.0000,-5.0000,true", lines[1])
	assert.Equal(t, "2,10.1235,0.0000,10.1235,false", lines[2])
	assert.Equal(t, "3,1.5000,0.2500,1.7500,false", lines[3])
}

func TestWriteEmptyStoreEmitsHeaderOnly(t *testing.T) {
	var out strings.Builder
	require.NoError(t, summary.Write(&out, memory.NewAccountStore()))
	assert.Equal(t, "client,available,held,total,locked\n", out.String())
}
