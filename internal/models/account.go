package models

import "github.com/shopspring/decimal"

// Account is the running balance state for one client. Total is never
// stored; it is always derived from available plus held.
type Account struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount returns a zeroed account for the client. Accounts are created
// lazily on the first event referencing the client.
func NewAccount(client ClientID) Account {
	return Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total is the derived sum of available and held funds.
func (a Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}
