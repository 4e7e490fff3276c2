package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

func TestAddExpenseEqualDefaultsToAllMembers(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu", "carol@uni.edu")

	expense, err := ts.split.AddExpense(ctx, group.ID, "bob@uni.edu", ExpenseInput{
		Amount:      decimal.RequireFromString("100.00"),
		Description: "Groceries",
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if expense.PaidBy != "bob@uni.edu" {
		t.Errorf("payer defaults to caller, got %q", expense.PaidBy)
	}
	if expense.SplitType != models.SplitEqual {
		t.Errorf("split type defaults to equal, got %q", expense.SplitType)
	}
	if len(expense.Participants) != 3 {
		t.Fatalf("expected all 3 members, got %d", len(expense.Participants))
	}

	// 100.00 over three people: first member takes the extra cent.
	if got := expense.Participants[0].Share.StringFixed(2); got != "33.34" {
		t.Errorf("first share: expected 33.34, got %s", got)
	}
	sum := decimal.Zero
	for _, p := range expense.Participants {
		sum = sum.Add(p.Share)
	}
	if !sum.Equal(expense.Amount) {
		t.Errorf("shares sum to %s, want %s", sum, expense.Amount)
	}
}

func TestAddExpenseAutoAddsParticipants(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu")

	_, err := ts.split.AddExpense(ctx, group.ID, "alice@uni.edu", ExpenseInput{
		Amount:    decimal.RequireFromString("30.00"),
		SplitType: models.SplitEqual,
		Participants: []ParticipantInput{
			{Email: "alice@uni.edu"},
			{Email: "Eve@Uni.Edu"},
		},
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	stored, err := ts.store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if !stored.IsMember("eve@uni.edu") {
		t.Error("new participant was not auto-added")
	}
}

func TestAddExpenseExactMismatch(t *testing.T) {
	ts := newTestServices(t)
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu")

	_, err := ts.split.AddExpense(context.Background(), group.ID, "alice@uni.edu", ExpenseInput{
		Amount:    decimal.RequireFromString("100.00"),
		SplitType: models.SplitExact,
		Participants: []ParticipantInput{
			{Email: "alice@uni.edu", Weight: decimal.RequireFromString("49.99")},
			{Email: "bob@uni.edu", Weight: decimal.RequireFromString("49.98")},
		},
	})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected invalid input for exact mismatch, got %v", err)
	}
}

func TestAddExpenseRejectsOutsider(t *testing.T) {
	ts := newTestServices(t)
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu")

	_, err := ts.split.AddExpense(context.Background(), group.ID, "mallory@uni.edu", ExpenseInput{
		Amount: decimal.RequireFromString("10.00"),
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestSummaryWithSettlement(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu", "carol@uni.edu")

	// Alice pays 90 split equally: bob and carol owe her 30 each.
	if _, err := ts.split.AddExpense(ctx, group.ID, "alice@uni.edu", ExpenseInput{
		Amount: decimal.RequireFromString("90.00"),
	}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	// Bob settles his 30 directly.
	if _, err := ts.split.RecordSettlement(ctx, group.ID, "bob@uni.edu", SettlementInput{
		From:   "bob@uni.edu",
		To:     "alice@uni.edu",
		Amount: decimal.RequireFromString("30.00"),
	}); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	summary, err := ts.split.Summary(ctx, group.ID, "alice@uni.edu", storage.DateRange{})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	want := map[string]string{
		"alice@uni.edu": "30.00",
		"bob@uni.edu":   "0.00",
		"carol@uni.edu": "-30.00",
	}
	for email, amount := range want {
		if got := summary.Balances[email].StringFixed(2); got != amount {
			t.Errorf("balance[%s]: expected %s, got %s", email, amount, got)
		}
	}

	if len(summary.Suggestions) != 1 {
		t.Fatalf("expected 1 suggested transfer, got %d", len(summary.Suggestions))
	}
	s := summary.Suggestions[0]
	if s.From != "carol@uni.edu" || s.To != "alice@uni.edu" || s.Amount.StringFixed(2) != "30.00" {
		t.Errorf("unexpected suggestion: %s pays %s %s", s.From, s.To, s.Amount)
	}
}

func TestRecordSettlementRejectsSelfTransfer(t *testing.T) {
	ts := newTestServices(t)
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu")

	_, err := ts.split.RecordSettlement(context.Background(), group.ID, "bob@uni.edu", SettlementInput{
		From:   "bob@uni.edu",
		To:     "Bob@Uni.Edu",
		Amount: decimal.RequireFromString("5.00"),
	})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected invalid input for self transfer, got %v", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu")

	expense, err := ts.split.AddExpense(ctx, group.ID, "alice@uni.edu", ExpenseInput{
		Amount: decimal.RequireFromString("20.00"),
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if err := ts.split.DeleteExpense(ctx, group.ID, "bob@uni.edu", expense.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	if err := ts.split.DeleteExpense(ctx, group.ID, "bob@uni.edu", expense.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}

	expenses, err := ts.split.ListExpenses(ctx, group.ID, "alice@uni.edu", storage.DateRange{})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("expected no expenses after delete, got %d", len(expenses))
	}
}

func TestListExpensesDateRange(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu")

	for _, date := range []int64{1000, 2000, 3000} {
		if _, err := ts.split.AddExpense(ctx, group.ID, "alice@uni.edu", ExpenseInput{
			Amount: decimal.RequireFromString("10.00"),
			Date:   date,
		}); err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
	}

	expenses, err := ts.split.ListExpenses(ctx, group.ID, "alice@uni.edu", storage.DateRange{From: 1500, To: 2500})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Date != 2000 {
		t.Errorf("expected exactly the middle expense, got %d results", len(expenses))
	}
}
