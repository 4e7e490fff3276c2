package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

func addItem(t *testing.T, ts *testServices, groupID, caller, name string) *models.GroceryItem {
	t.Helper()

	item, err := ts.meal.AddItem(context.Background(), groupID, caller, GroceryItemInput{
		Name:     name,
		Quantity: decimal.NewFromInt(1),
		Unit:     "kg",
	})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	return item
}

func TestPurchaseItem(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindMeal, "bob@uni.edu")
	item := addItem(t, ts, group.ID, "alice@uni.edu", "Rice")

	bought, err := ts.meal.PurchaseItem(ctx, group.ID, "bob@uni.edu", item.ID, PurchaseInput{
		Amount: decimal.RequireFromString("12.50"),
	})
	if err != nil {
		t.Fatalf("PurchaseItem failed: %v", err)
	}
	if !bought.Purchased {
		t.Error("item not marked purchased")
	}
	if bought.PaidBy != "bob@uni.edu" {
		t.Errorf("payer defaults to caller, got %q", bought.PaidBy)
	}
	if bought.PurchasedAt == 0 {
		t.Error("expected purchase time to be set")
	}

	// Buying again is a conflict.
	_, err = ts.meal.PurchaseItem(ctx, group.ID, "bob@uni.edu", item.ID, PurchaseInput{
		Amount: decimal.RequireFromString("1.00"),
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict on double purchase, got %v", err)
	}
}

func TestPurchaseItemInfersPayerFromDuty(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindMeal, "bob@uni.edu", "carol@uni.edu")
	item := addItem(t, ts, group.ID, "alice@uni.edu", "Lentils")

	day := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC).Unix()
	if _, err := ts.meal.AssignDuties(ctx, group.ID, "alice@uni.edu", []DutyInput{
		{Date: day, Email: "carol@uni.edu"},
	}); err != nil {
		t.Fatalf("AssignDuties failed: %v", err)
	}

	bought, err := ts.meal.PurchaseItem(ctx, group.ID, "bob@uni.edu", item.ID, PurchaseInput{
		Amount:      decimal.RequireFromString("8.00"),
		PurchasedAt: day,
	})
	if err != nil {
		t.Fatalf("PurchaseItem failed: %v", err)
	}
	if bought.PaidBy != "carol@uni.edu" {
		t.Errorf("expected duty assignee as payer, got %q", bought.PaidBy)
	}
}

func TestAssignDutiesReplacesSameDay(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindMeal, "bob@uni.edu")

	morning := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC).Unix()
	evening := time.Date(2026, 3, 11, 20, 0, 0, 0, time.UTC).Unix()

	if _, err := ts.meal.AssignDuties(ctx, group.ID, "alice@uni.edu", []DutyInput{
		{Date: morning, Email: "alice@uni.edu"},
	}); err != nil {
		t.Fatalf("AssignDuties failed: %v", err)
	}
	if _, err := ts.meal.AssignDuties(ctx, group.ID, "alice@uni.edu", []DutyInput{
		{Date: evening, Email: "bob@uni.edu"},
	}); err != nil {
		t.Fatalf("AssignDuties failed: %v", err)
	}

	duties, err := ts.meal.ListDuties(ctx, group.ID, "bob@uni.edu", storage.DateRange{})
	if err != nil {
		t.Fatalf("ListDuties failed: %v", err)
	}
	if len(duties) != 1 {
		t.Fatalf("expected one duty for the day, got %d", len(duties))
	}
	if duties[0].Email != "bob@uni.edu" {
		t.Errorf("expected later assignment to win, got %q", duties[0].Email)
	}

	// Non-admins cannot touch the roster.
	if _, err := ts.meal.AssignDuties(ctx, group.ID, "bob@uni.edu", []DutyInput{
		{Date: morning, Email: "bob@uni.edu"},
	}); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected forbidden for non-admin, got %v", err)
	}
}

func TestMealSummary(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindMeal, "bob@uni.edu", "carol@uni.edu")

	// Alice buys 90.00 of groceries.
	item := addItem(t, ts, group.ID, "alice@uni.edu", "Weekly shop")
	if _, err := ts.meal.PurchaseItem(ctx, group.ID, "alice@uni.edu", item.ID, PurchaseInput{
		Amount: decimal.RequireFromString("90.00"),
	}); err != nil {
		t.Fatalf("PurchaseItem failed: %v", err)
	}

	// 30 servings total: alice 10, bob 12, carol 8.
	if _, err := ts.meal.RecordMeals(ctx, group.ID, "alice@uni.edu", []MealEntryInput{
		{Email: "alice@uni.edu", Meal: models.MealLunch, Servings: decimal.NewFromInt(10)},
		{Email: "bob@uni.edu", Meal: models.MealLunch, Servings: decimal.NewFromInt(12)},
		{Email: "carol@uni.edu", Meal: models.MealDinner, Servings: decimal.NewFromInt(8)},
	}); err != nil {
		t.Fatalf("RecordMeals failed: %v", err)
	}

	summary, err := ts.meal.Summary(ctx, group.ID, "bob@uni.edu", storage.DateRange{})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if got := summary.CostPerServing.StringFixed(2); got != "3.00" {
		t.Errorf("cost per serving: expected 3.00, got %s", got)
	}
	want := map[string]string{
		"alice@uni.edu": "60.00",  // paid 90, ate 30
		"bob@uni.edu":   "-36.00", // ate 36
		"carol@uni.edu": "-24.00", // ate 24
	}
	for email, amount := range want {
		if got := summary.Balances[email].StringFixed(2); got != amount {
			t.Errorf("balance[%s]: expected %s, got %s", email, amount, got)
		}
	}
	if len(summary.Suggestions) != 2 {
		t.Errorf("expected 2 suggested transfers, got %d", len(summary.Suggestions))
	}
}

func TestMealSummaryNoServings(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindMeal, "bob@uni.edu")

	item := addItem(t, ts, group.ID, "alice@uni.edu", "Snacks")
	if _, err := ts.meal.PurchaseItem(ctx, group.ID, "alice@uni.edu", item.ID, PurchaseInput{
		Amount: decimal.RequireFromString("15.00"),
	}); err != nil {
		t.Fatalf("PurchaseItem failed: %v", err)
	}

	// Spend without any recorded servings must not fail.
	summary, err := ts.meal.Summary(ctx, group.ID, "alice@uni.edu", storage.DateRange{})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if !summary.CostPerServing.IsZero() {
		t.Errorf("cost per serving: expected 0, got %s", summary.CostPerServing)
	}
	if got := summary.Balances["alice@uni.edu"].StringFixed(2); got != "15.00" {
		t.Errorf("payer balance: expected 15.00, got %s", got)
	}
}

func TestRecordMealsRejectsBadInput(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindMeal, "bob@uni.edu")

	_, err := ts.meal.RecordMeals(ctx, group.ID, "alice@uni.edu", []MealEntryInput{
		{Meal: "brunch", Servings: decimal.NewFromInt(1)},
	})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected invalid input for unknown meal, got %v", err)
	}

	_, err = ts.meal.RecordMeals(ctx, group.ID, "alice@uni.edu", []MealEntryInput{
		{Meal: models.MealLunch, Servings: decimal.Zero},
	})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected invalid input for zero servings, got %v", err)
	}
}
