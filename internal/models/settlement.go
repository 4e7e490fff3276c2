package models

import (
	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
)

// Settlement is a recorded direct transfer between two members that reduces
// their mutual balance.
type Settlement struct {
	// ID is the unique identifier (UUID format).
	ID string `json:"id"`

	// GroupID is the owning split group.
	GroupID string `json:"group_id"`

	// From is the payer (debtor settling up), To the receiver.
	From string `json:"from"`
	To   string `json:"to"`

	// Amount is positive, rounded to 2 places.
	Amount decimal.Decimal `json:"amount"`

	// Note is an optional description.
	Note string `json:"note,omitempty"`

	// Date is the Unix timestamp the settlement applies to.
	Date int64 `json:"date"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`
}

// Validate rejects self-transfers and non-positive amounts.
func (s *Settlement) Validate() error {
	if s.From == "" || s.To == "" {
		return apperr.InvalidInput("from and to emails are required")
	}
	if s.From == s.To {
		return apperr.InvalidInput("from and to must be different")
	}
	if !s.Amount.IsPositive() {
		return apperr.InvalidInput("amount must be > 0")
	}
	return nil
}
