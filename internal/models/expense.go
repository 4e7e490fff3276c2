package models

import (
	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
)

// SplitType selects how an expense amount is divided among participants.
type SplitType string

const (
	SplitEqual   SplitType = "equal"
	SplitShares  SplitType = "shares"
	SplitPercent SplitType = "percent"
	SplitExact   SplitType = "exact"
)

// ValidSplitType reports whether t is one of the supported strategies.
func ValidSplitType(t SplitType) bool {
	switch t {
	case SplitEqual, SplitShares, SplitPercent, SplitExact:
		return true
	}
	return false
}

// ExpenseShare is one participant's portion of an expense.
type ExpenseShare struct {
	Email string          `json:"email"`
	Share decimal.Decimal `json:"share"`
}

// Expense is a shared cost paid by one member and split among participants.
type Expense struct {
	// ID is the unique identifier (UUID format).
	ID string `json:"id"`

	// GroupID is the owning split group.
	GroupID string `json:"group_id"`

	// PaidBy is the payer's normalized email.
	PaidBy string `json:"paid_by"`

	// Amount is the total, always positive, rounded to 2 places.
	Amount decimal.Decimal `json:"amount"`

	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`

	// Date is the Unix timestamp the expense applies to; defaults to
	// creation time.
	Date int64 `json:"date"`

	// SplitType records the strategy the shares were computed with.
	SplitType SplitType `json:"split_type"`

	// Participants carry the computed shares. Their sum equals Amount
	// within one cent; enforced by Validate before any write.
	Participants []ExpenseShare `json:"participants"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`
}

// Validate enforces the share-sum invariant: participants are non-empty and
// unique, shares are non-negative, and the sum is within one cent of the
// amount. A failing expense is rejected, never auto-corrected.
func (e *Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return apperr.InvalidInput("amount must be > 0")
	}
	if len(e.Participants) == 0 {
		return apperr.InvalidInput("expense has no participants")
	}
	seen := make(map[string]bool, len(e.Participants))
	sum := decimal.Zero
	for _, p := range e.Participants {
		if p.Email == "" || seen[p.Email] {
			return apperr.InvalidInput("participants must be unique and non-empty")
		}
		seen[p.Email] = true
		if p.Share.IsNegative() {
			return apperr.InvalidInput("share for %s is negative", p.Email)
		}
		sum = sum.Add(p.Share)
	}
	diff := RoundMoney(sum).Sub(RoundMoney(e.Amount)).Abs()
	if diff.GreaterThan(Cent) {
		return apperr.InvalidInput("shares sum to %s, expense total is %s", sum, e.Amount)
	}
	return nil
}
