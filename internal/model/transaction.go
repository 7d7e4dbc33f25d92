package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single bank transaction from any source.
// Amount is signed: negative values are expenses, positive values income.
type Transaction struct {
	BookedAt    time.Time
	ID          string
	Description string // Raw free-text description from the bank
	Merchant    string // Merchant name if the source provides one
	Currency    string
	AccountID   string
	SeriesID    string // ID of the linked recurring series, empty if unlinked
	Hash        string
	Amount      float64
}

// IsExpense reports whether the transaction is an outgoing payment.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}

// GenerateHash creates a unique hash for duplicate detection on import.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.BookedAt.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
