package ledger

import (
	"github.com/shopspring/decimal"

	"hallmate/internal/models"
)

// ComputeBalances folds a group's expenses and settlements into a net
// balance per member email. Positive means the group owes them, negative
// means they owe the group.
//
// Every current member starts at zero so people with no events still appear.
// The fold is commutative, so event order does not matter. Participants that
// are no longer members (or were auto-added after the event) still get an
// entry. For a closed group the balances sum to zero within member_count
// cents; each accumulation is rounded to two places so drift never compounds.
func ComputeBalances(members []string, expenses []models.Expense, settlements []models.Settlement) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(members))
	for _, email := range members {
		balances[email] = decimal.Zero
	}

	add := func(email string, delta decimal.Decimal) {
		balances[email] = models.RoundMoney(balances[email].Add(delta))
	}

	for _, exp := range expenses {
		add(exp.PaidBy, exp.Amount)
		for _, p := range exp.Participants {
			add(p.Email, p.Share.Neg())
		}
	}

	for _, s := range settlements {
		add(s.From, s.Amount)
		add(s.To, s.Amount.Neg())
	}

	return balances
}

// MealTotals carries the aggregates behind a meal-group balance computation.
type MealTotals struct {
	TotalSpend     decimal.Decimal
	TotalServings  decimal.Decimal
	CostPerServing decimal.Decimal
	SpendBy        map[string]decimal.Decimal
	ServingsBy     map[string]decimal.Decimal
}

// ComputeMealBalances apportions grocery spend by consumption. Each purchased
// item credits its payer; each member owes servings × cost-per-serving, where
// costPerServing = round(totalSpend/totalServings, 2) is shared by every
// member.
//
// Spend with zero recorded servings is a degenerate case, not an error: the
// cost per serving is zero and payers simply stay credited, so a summary
// over a quiet period never fails.
func ComputeMealBalances(members []string, items []models.GroceryItem, entries []models.MealEntry) (map[string]decimal.Decimal, MealTotals) {
	totals := MealTotals{
		TotalSpend:     decimal.Zero,
		TotalServings:  decimal.Zero,
		CostPerServing: decimal.Zero,
		SpendBy:        make(map[string]decimal.Decimal),
		ServingsBy:     make(map[string]decimal.Decimal),
	}

	for _, item := range items {
		if !item.Purchased || !item.Amount.IsPositive() || item.PaidBy == "" {
			continue
		}
		totals.SpendBy[item.PaidBy] = models.RoundMoney(totals.SpendBy[item.PaidBy].Add(item.Amount))
		totals.TotalSpend = models.RoundMoney(totals.TotalSpend.Add(item.Amount))
	}

	for _, entry := range entries {
		if !entry.Servings.IsPositive() {
			continue
		}
		totals.ServingsBy[entry.Email] = totals.ServingsBy[entry.Email].Add(entry.Servings)
		totals.TotalServings = totals.TotalServings.Add(entry.Servings)
	}

	if totals.TotalServings.IsPositive() {
		totals.CostPerServing = models.RoundMoney(totals.TotalSpend.Div(totals.TotalServings))
	}

	balances := make(map[string]decimal.Decimal, len(members))
	for _, email := range members {
		paid := models.RoundMoney(totals.SpendBy[email])
		owed := models.RoundMoney(totals.ServingsBy[email].Mul(totals.CostPerServing))
		balances[email] = models.RoundMoney(paid.Sub(owed))
	}
	return balances, totals
}
