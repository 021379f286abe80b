package summary

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/sheikh-saqib/payments-transaction-engine/internal/interfaces"
)

// precision is the fixed number of decimal places in the output. Four
// places are enough to keep many small additions from drifting in the
// rendered balances.
const precision = 4

// Write renders the final account summary as CSV: one header row, then one
// row per account sorted by client id so output is reproducible.
func Write(w io.Writer, store interfaces.AccountStore) error {
	accounts, err := store.All()
	if err != nil {
		return err
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Client < accounts[j].Client
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for _, acct := range accounts {
		row := []string{
			strconv.FormatUint(uint64(acct.Client), 10),
			acct.Available.StringFixed(precision),
			acct.Held.StringFixed(precision),
			acct.Total().StringFixed(precision),
			strconv.FormatBool(acct.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
