package model

import "time"

// RecurringSeries is a confirmed recurring payment: a subscription,
// direct debit, or other repeating charge the user has accepted.
type RecurringSeries struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Merchant  string // Empty if no merchant is known
	Currency  string
	AccountID string // Empty means the series matches any account
	Frequency string
	Amount    float64 // Expected absolute magnitude per occurrence
	IsActive  bool
}
