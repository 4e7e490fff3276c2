package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"hallmate/internal/models"
	"hallmate/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	newGroup := func(kind models.GroupKind, members ...string) *models.Group {
		g := &models.Group{
			Kind:      kind,
			Name:      "Test Group",
			CreatedBy: "alice@uni.edu",
		}
		for _, m := range members {
			g.Members = append(g.Members, models.Member{Email: m})
		}
		return g
	}

	t.Run("CreateGroup generates ID and normalizes members", func(t *testing.T) {
		group := newGroup(models.GroupKindSplit, "alice@uni.edu", "Bob@Uni.Edu", "bob@uni.edu")

		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		if len(group.Members) != 2 {
			t.Errorf("Expected duplicate member to be dropped, got %d members", len(group.Members))
		}
		if !group.IsAdmin("alice@uni.edu") {
			t.Error("Expected creator to be promoted to admin")
		}
	})

	t.Run("GetGroup preserves member order", func(t *testing.T) {
		group := newGroup(models.GroupKindSplit, "carol@uni.edu", "alice@uni.edu", "bob@uni.edu")
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []string{"carol@uni.edu", "alice@uni.edu", "bob@uni.edu"}
		for i, email := range want {
			if got.Members[i].Email != email {
				t.Errorf("member[%d]: got %s, want %s", i, got.Members[i].Email, email)
			}
		}
	})

	t.Run("GetGroup returns nil for nonexistent group", func(t *testing.T) {
		got, err := store.GetGroup(ctx, "nonexistent-id")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got != nil {
			t.Error("Expected nil for nonexistent group")
		}
	})

	t.Run("ListGroupsByMember filters by kind and email", func(t *testing.T) {
		split := newGroup(models.GroupKindSplit, "dave@uni.edu")
		meal := newGroup(models.GroupKindMeal, "dave@uni.edu")
		for _, g := range []*models.Group{split, meal} {
			if err := store.CreateGroup(ctx, g); err != nil {
				t.Fatalf("CreateGroup failed: %v", err)
			}
		}

		groups, err := store.ListGroupsByMember(ctx, models.GroupKindMeal, "dave@uni.edu")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != meal.ID {
			t.Errorf("Expected only the meal group, got %d groups", len(groups))
		}
	})

	t.Run("Expense round-trips with share order", func(t *testing.T) {
		group := newGroup(models.GroupKindSplit, "bob@uni.edu")
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		expense := &models.Expense{
			GroupID:   group.ID,
			PaidBy:    "alice@uni.edu",
			Amount:    decimal.RequireFromString("100.00"),
			SplitType: models.SplitEqual,
			Participants: []models.ExpenseShare{
				{Email: "bob@uni.edu", Share: decimal.RequireFromString("33.34")},
				{Email: "alice@uni.edu", Share: decimal.RequireFromString("33.33")},
				{Email: "carol@uni.edu", Share: decimal.RequireFromString("33.33")},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpenses(ctx, group.ID, storage.DateRange{})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Fatalf("Expected 1 expense, got %d", len(expenses))
		}
		got := expenses[0]
		if !got.Amount.Equal(expense.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", got.Amount, expense.Amount)
		}
		if got.Participants[0].Email != "bob@uni.edu" {
			t.Errorf("Share order lost: first share is %s", got.Participants[0].Email)
		}
	})

	t.Run("DeleteExpense is scoped to its group", func(t *testing.T) {
		a := newGroup(models.GroupKindSplit, "bob@uni.edu")
		b := newGroup(models.GroupKindSplit, "bob@uni.edu")
		for _, g := range []*models.Group{a, b} {
			if err := store.CreateGroup(ctx, g); err != nil {
				t.Fatalf("CreateGroup failed: %v", err)
			}
		}
		expense := &models.Expense{
			GroupID:   a.ID,
			PaidBy:    "alice@uni.edu",
			Amount:    decimal.RequireFromString("10.00"),
			SplitType: models.SplitEqual,
			Participants: []models.ExpenseShare{
				{Email: "alice@uni.edu", Share: decimal.RequireFromString("10.00")},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.DeleteExpense(ctx, b.ID, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected not found deleting through wrong group, got %v", err)
		}
		if err := store.DeleteExpense(ctx, a.ID, expense.ID); err != nil {
			t.Errorf("DeleteExpense failed: %v", err)
		}
	})

	t.Run("UpsertShoppingDuty replaces same day", func(t *testing.T) {
		group := newGroup(models.GroupKindMeal, "bob@uni.edu")
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		day := int64(1767225600)
		for _, email := range []string{"alice@uni.edu", "bob@uni.edu"} {
			duty := &models.ShoppingDuty{GroupID: group.ID, Date: day, Email: email}
			if err := store.UpsertShoppingDuty(ctx, duty); err != nil {
				t.Fatalf("UpsertShoppingDuty failed: %v", err)
			}
		}

		duty, err := store.GetShoppingDuty(ctx, group.ID, day)
		if err != nil {
			t.Fatalf("GetShoppingDuty failed: %v", err)
		}
		if duty == nil || duty.Email != "bob@uni.edu" {
			t.Errorf("Expected the later assignment to win, got %+v", duty)
		}
	})

	t.Run("Fund upsert keeps one row per user", func(t *testing.T) {
		fund := &models.EmergencyFund{
			UserID:         "user-1",
			TargetAmount:   decimal.RequireFromString("1000.00"),
			CurrentBalance: decimal.RequireFromString("250.00"),
			MonthlyPlan:    decimal.RequireFromString("125.00"),
			Badges:         []string{"first-deposit", "quarter-way"},
			StreakCount:    2,
		}
		if err := store.SaveFund(ctx, fund); err != nil {
			t.Fatalf("SaveFund failed: %v", err)
		}

		fund.CurrentBalance = decimal.RequireFromString("300.00")
		if err := store.SaveFund(ctx, fund); err != nil {
			t.Fatalf("SaveFund update failed: %v", err)
		}

		got, err := store.GetFundByUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("GetFundByUser failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected fund")
		}
		if got.CurrentBalance.StringFixed(2) != "300.00" {
			t.Errorf("Balance: got %s, want 300.00", got.CurrentBalance)
		}
		if len(got.Badges) != 2 {
			t.Errorf("Badges lost in round-trip: got %v", got.Badges)
		}
	})

	t.Run("User lookup is case-insensitive", func(t *testing.T) {
		user := models.NewUser("Frank@Uni.Edu", "Frank", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		got, err := store.GetUserByEmail(ctx, "FRANK@uni.edu")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Error("Expected to find user regardless of email case")
		}
	})

	t.Run("DeleteGroup cascades to dependents", func(t *testing.T) {
		group := newGroup(models.GroupKindSplit, "bob@uni.edu")
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		expense := &models.Expense{
			GroupID:   group.ID,
			PaidBy:    "alice@uni.edu",
			Amount:    decimal.RequireFromString("10.00"),
			SplitType: models.SplitEqual,
			Participants: []models.ExpenseShare{
				{Email: "alice@uni.edu", Share: decimal.RequireFromString("10.00")},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		expenses, err := store.ListExpenses(ctx, group.ID, storage.DateRange{})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected expenses to be cascade-deleted, got %d", len(expenses))
		}
	})

	t.Run("DeleteGroup cascades after pooled connections", func(t *testing.T) {
		group := newGroup(models.GroupKindSplit, "bob@uni.edu")
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		expense := &models.Expense{
			GroupID:   group.ID,
			PaidBy:    "alice@uni.edu",
			Amount:    decimal.RequireFromString("10.00"),
			SplitType: models.SplitEqual,
			Participants: []models.ExpenseShare{
				{Email: "alice@uni.edu", Share: decimal.RequireFromString("10.00")},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		// Fan out reads so the pool opens more connections; the foreign-key
		// pragma must hold on whichever one runs the delete.
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.GetGroup(ctx, group.ID); err != nil {
					t.Errorf("GetGroup failed: %v", err)
				}
			}()
		}
		wg.Wait()

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		expenses, err := store.ListExpenses(ctx, group.ID, storage.DateRange{})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected expenses to be cascade-deleted, got %d", len(expenses))
		}
	})

	t.Run("Personal expense round-trip and essential sum", func(t *testing.T) {
		entries := []models.PersonalExpense{
			{UserID: "user-1", Category: "rent", Amount: decimal.RequireFromString("300.00"), Essential: true, Date: 1000},
			{UserID: "user-1", Category: "groceries", Amount: decimal.RequireFromString("120.50"), Essential: true, Date: 2000},
			{UserID: "user-1", Category: "concert", Amount: decimal.RequireFromString("80.00"), Date: 3000},
			{UserID: "user-2", Category: "rent", Amount: decimal.RequireFromString("999.00"), Essential: true, Date: 2000},
		}
		for i := range entries {
			if err := store.CreatePersonalExpense(ctx, &entries[i]); err != nil {
				t.Fatalf("CreatePersonalExpense failed: %v", err)
			}
		}

		listed, err := store.ListPersonalExpenses(ctx, "user-1")
		if err != nil {
			t.Fatalf("ListPersonalExpenses failed: %v", err)
		}
		if len(listed) != 3 {
			t.Fatalf("Expected 3 entries for user-1, got %d", len(listed))
		}
		if listed[0].Category != "concert" {
			t.Errorf("Expected newest first, got %s", listed[0].Category)
		}

		// Only user-1's essential entries dated at or after 2000.
		total, err := store.SumEssentialSpendSince(ctx, "user-1", 2000)
		if err != nil {
			t.Fatalf("SumEssentialSpendSince failed: %v", err)
		}
		if got := total.StringFixed(2); got != "120.50" {
			t.Errorf("Essential sum: expected 120.50, got %s", got)
		}

		entries[0].Amount = decimal.RequireFromString("310.00")
		if err := store.UpdatePersonalExpense(ctx, &entries[0]); err != nil {
			t.Fatalf("UpdatePersonalExpense failed: %v", err)
		}
		got, err := store.GetPersonalExpense(ctx, "user-1", entries[0].ID)
		if err != nil {
			t.Fatalf("GetPersonalExpense failed: %v", err)
		}
		if got == nil || got.Amount.StringFixed(2) != "310.00" {
			t.Errorf("Expected updated amount 310.00, got %+v", got)
		}

		// Scoped to the owner.
		if other, err := store.GetPersonalExpense(ctx, "user-2", entries[0].ID); err != nil || other != nil {
			t.Errorf("Expected nil for someone else's entry, got %+v, %v", other, err)
		}
		if err := store.DeletePersonalExpense(ctx, "user-2", entries[0].ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound deleting someone else's entry, got %v", err)
		}
		if err := store.DeletePersonalExpense(ctx, "user-1", entries[0].ID); err != nil {
			t.Errorf("DeletePersonalExpense failed: %v", err)
		}
	})
}
