package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"hallmate/internal/models"
)

// epsilon separates real balances from rounding noise.
var epsilon = decimal.NewFromFloat(0.009)

// Transfer is one suggested payment: From pays To the given amount.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Plan turns net balances into a list of transfers that zero every balance
// within rounding tolerance. The order slice fixes iteration order over the
// balance map (member insertion order); keys missing from it are appended
// last, sorted, so the result is always deterministic.
//
// Greedy matching: debtors and creditors are stable-sorted descending by
// magnitude, then the largest debtor repeatedly pays the largest creditor
// min(remaining, remaining), advancing whichever side drops to the noise
// threshold. This yields at most debtors+creditors−1 transfers. It is the
// classic debt-simplification heuristic: optimal for the common two-sided
// cases, bounded but not guaranteed globally minimal in general. The
// tie-break and threshold are load-bearing for reproducible suggestions;
// change them only together with the tests.
func Plan(balances map[string]decimal.Decimal, order []string) []Transfer {
	type side struct {
		email string
		amt   decimal.Decimal
	}

	var debtors, creditors []side
	for _, email := range keysInOrder(balances, order) {
		v := models.RoundMoney(balances[email])
		switch {
		case v.LessThan(epsilon.Neg()):
			debtors = append(debtors, side{email, v.Neg()})
		case v.GreaterThan(epsilon):
			creditors = append(creditors, side{email, v})
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].amt.GreaterThan(debtors[j].amt)
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].amt.GreaterThan(creditors[j].amt)
	})

	var out []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		pay := decimal.Min(debtors[i].amt, creditors[j].amt)
		out = append(out, Transfer{
			From:   debtors[i].email,
			To:     creditors[j].email,
			Amount: models.RoundMoney(pay),
		})
		debtors[i].amt = debtors[i].amt.Sub(pay)
		creditors[j].amt = creditors[j].amt.Sub(pay)
		if debtors[i].amt.LessThanOrEqual(epsilon) {
			i++
		}
		if creditors[j].amt.LessThanOrEqual(epsilon) {
			j++
		}
	}
	return out
}

// keysInOrder returns balance keys following order first, then any leftover
// keys sorted lexically.
func keysInOrder(balances map[string]decimal.Decimal, order []string) []string {
	out := make([]string, 0, len(balances))
	seen := make(map[string]bool, len(balances))
	for _, email := range order {
		if _, ok := balances[email]; ok && !seen[email] {
			out = append(out, email)
			seen[email] = true
		}
	}
	var rest []string
	for email := range balances {
		if !seen[email] {
			rest = append(rest, email)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
