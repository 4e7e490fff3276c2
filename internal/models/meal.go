package models

import "github.com/shopspring/decimal"

// MealSlot names the meal a grocery item or entry belongs to.
type MealSlot string

const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
	MealOther     MealSlot = "other"
)

// ValidMealSlot reports whether s is a known slot.
func ValidMealSlot(s MealSlot) bool {
	switch s {
	case MealBreakfast, MealLunch, MealDinner, MealOther:
		return true
	}
	return false
}

// GroceryItem is a shared shopping-list entry. Once purchased it becomes a
// financial event: the payer is credited the purchase amount when meal
// balances are computed.
type GroceryItem struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`

	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`

	// NeededForDate/NeededForMeal are optional planning hints.
	NeededForDate int64    `json:"needed_for_date,omitempty"`
	NeededForMeal MealSlot `json:"needed_for_meal,omitempty"`

	// Purchase state. Amount is the total cost, ≥ 0, rounded to 2 places.
	Purchased   bool            `json:"purchased"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by,omitempty"`
	PurchasedAt int64           `json:"purchased_at,omitempty"`

	CreatedAt int64 `json:"created_at"`
}

// MealEntry records who ate how many servings at a given meal.
type MealEntry struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`

	// Email is the eater's normalized email.
	Email string `json:"email"`

	// Date is the Unix timestamp of the meal day.
	Date int64 `json:"date"`

	Meal MealSlot `json:"meal"`

	// Servings is positive; fractional servings are allowed.
	Servings decimal.Decimal `json:"servings"`

	CreatedAt int64 `json:"created_at"`
}

// ShoppingDuty assigns one member to shop on one day. A group has at most
// one assignee per day; assigning the same day again replaces the previous
// duty.
type ShoppingDuty struct {
	GroupID string `json:"group_id"`

	// Date is normalized to the start of the duty day (UTC).
	Date int64 `json:"date"`

	Email string `json:"email"`
	Note  string `json:"note,omitempty"`
}
