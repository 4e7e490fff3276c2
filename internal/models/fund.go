package models

import "github.com/shopspring/decimal"

// FundTxType is the direction of a fund transaction.
type FundTxType string

const (
	FundDeposit    FundTxType = "deposit"
	FundWithdrawal FundTxType = "withdrawal"
)

// SafetyBand labels how far along a fund is toward its target.
type SafetyBand string

const (
	BandSecure   SafetyBand = "secure"   // >= 100% of target
	BandSteady   SafetyBand = "steady"   // >= 50%
	BandSeedling SafetyBand = "seedling" // below 50%
)

// EmergencyFund is a per-user savings goal with a running balance.
type EmergencyFund struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// Goal.
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetMonths int             `json:"target_months"`
	TargetDate   int64           `json:"target_date,omitempty"` // Unix timestamp, 0 when unset

	// Current state.
	CurrentBalance decimal.Decimal `json:"current_balance"`
	MonthlyPlan    decimal.Decimal `json:"monthly_plan"` // suggested monthly contribution

	// Progress tracking.
	Badges             []string `json:"badges,omitempty"`
	StreakCount        int      `json:"streak_count"`
	LastContributionAt int64    `json:"last_contribution_at,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Band returns the safety band for the fund's current progress.
func (f *EmergencyFund) Band() SafetyBand {
	if !f.TargetAmount.IsPositive() {
		return BandSeedling
	}
	pct := f.CurrentBalance.Div(f.TargetAmount)
	switch {
	case pct.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return BandSecure
	case pct.GreaterThanOrEqual(decimal.NewFromFloat(0.5)):
		return BandSteady
	default:
		return BandSeedling
	}
}

// HasBadge reports whether the badge was already awarded.
func (f *EmergencyFund) HasBadge(b string) bool {
	for _, have := range f.Badges {
		if have == b {
			return true
		}
	}
	return false
}

// AddBadge awards a badge once.
func (f *EmergencyFund) AddBadge(b string) {
	if !f.HasBadge(b) {
		f.Badges = append(f.Badges, b)
	}
}

// FundTransaction is one deposit or withdrawal against a fund.
type FundTransaction struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	FundID string `json:"fund_id"`

	Type   FundTxType      `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`

	CreatedAt int64 `json:"created_at"`
}
