package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
)

// PersonalExpense is one entry in a user's private spending log, separate
// from any group. Entries flagged essential feed the emergency fund's
// months-of-cover estimate.
type PersonalExpense struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	Essential bool            `json:"essential"`

	// Date is the Unix timestamp the spend applies to; defaults to
	// creation time.
	Date int64 `json:"date"`

	CreatedAt int64 `json:"created_at"`
}

// Validate checks the caller-controlled fields.
func (e *PersonalExpense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return apperr.InvalidInput("category is required")
	}
	if !e.Amount.IsPositive() {
		return apperr.InvalidInput("amount must be > 0")
	}
	return nil
}
