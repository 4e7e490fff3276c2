package ledger

import (
	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
	"hallmate/internal/models"
)

var (
	hundred   = decimal.NewFromInt(100)
	tolerance = decimal.New(1, -2) // 0.01
)

// Share is one participant's allocated portion of a total.
type Share struct {
	Email  string          `json:"email"`
	Amount decimal.Decimal `json:"amount"`
}

// Allocate divides total among participants according to the strategy.
//
// The weights slice is interpreted per strategy: relative weights for
// "shares", percents for "percent", explicit amounts for "exact". It is
// ignored for "equal".
//
// Postcondition for every strategy: the returned shares are non-negative and
// sum to total within one cent ("equal" is cent-exact). The expense
// validator re-checks this before anything is persisted.
func Allocate(total decimal.Decimal, strategy models.SplitType, participants []string, weights []decimal.Decimal) ([]Share, error) {
	if !total.IsPositive() {
		return nil, apperr.InvalidInput("total must be > 0")
	}
	if len(participants) == 0 {
		return nil, apperr.InvalidInput("at least one participant is required")
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p == "" || seen[p] {
			return nil, apperr.InvalidInput("participants must be unique and non-empty")
		}
		seen[p] = true
	}

	total = models.RoundMoney(total)

	switch strategy {
	case models.SplitEqual:
		return allocateEqual(total, participants), nil
	case models.SplitShares:
		return allocateByWeight(total, participants, weights)
	case models.SplitPercent:
		return allocateByPercent(total, participants, weights)
	case models.SplitExact:
		return allocateExact(total, participants, weights)
	default:
		return nil, apperr.InvalidInput("unknown split type %q", strategy)
	}
}

// allocateEqual gives everyone floor(total/n) at two decimals, then hands the
// leftover cents to participants in input order. The result sums to total
// exactly and no two shares differ by more than one cent.
func allocateEqual(total decimal.Decimal, participants []string) []Share {
	n := decimal.NewFromInt(int64(len(participants)))
	base := total.Div(n).RoundFloor(2)
	remainder := total.Sub(base.Mul(n))

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := base
		if remainder.IsPositive() {
			amount = amount.Add(models.Cent)
			remainder = remainder.Sub(models.Cent)
		}
		shares[i] = Share{Email: p, Amount: amount}
	}
	return shares
}

func allocateByWeight(total decimal.Decimal, participants []string, weights []decimal.Decimal) ([]Share, error) {
	if len(weights) != len(participants) {
		return nil, apperr.InvalidInput("weights must match participants")
	}
	sum := decimal.Zero
	for _, w := range weights {
		if !w.IsPositive() {
			return nil, apperr.InvalidInput("weights must be positive")
		}
		sum = sum.Add(w)
	}
	if !sum.IsPositive() {
		return nil, apperr.InvalidInput("weights must sum to > 0")
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{
			Email:  p,
			Amount: models.RoundMoney(total.Mul(weights[i]).Div(sum)),
		}
	}
	return shares, nil
}

func allocateByPercent(total decimal.Decimal, participants []string, percents []decimal.Decimal) ([]Share, error) {
	if len(percents) != len(participants) {
		return nil, apperr.InvalidInput("percents must match participants")
	}
	sum := decimal.Zero
	for _, p := range percents {
		if p.IsNegative() {
			return nil, apperr.InvalidInput("percents must be non-negative")
		}
		sum = sum.Add(p)
	}
	if models.RoundMoney(sum).Sub(hundred).Abs().GreaterThan(tolerance) {
		return nil, apperr.InvalidInput("percents must sum to 100, got %s", sum)
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{
			Email:  p,
			Amount: models.RoundMoney(total.Mul(percents[i]).Div(hundred)),
		}
	}
	return shares, nil
}

func allocateExact(total decimal.Decimal, participants []string, amounts []decimal.Decimal) ([]Share, error) {
	if len(amounts) != len(participants) {
		return nil, apperr.InvalidInput("amounts must match participants")
	}
	sum := decimal.Zero
	shares := make([]Share, len(participants))
	for i, p := range participants {
		if amounts[i].IsNegative() {
			return nil, apperr.InvalidInput("amounts must be non-negative")
		}
		amount := models.RoundMoney(amounts[i])
		shares[i] = Share{Email: p, Amount: amount}
		sum = sum.Add(amount)
	}
	if sum.Sub(total).Abs().GreaterThan(tolerance) {
		return nil, apperr.InvalidInput("amounts sum to %s, total is %s", sum, total)
	}
	return shares, nil
}
