package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
	"hallmate/internal/ledger"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// GroceryItemInput is the request to put an item on the shopping list.
type GroceryItemInput struct {
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	NeededForDate int64           `json:"needed_for_date"`
	NeededForMeal models.MealSlot `json:"needed_for_meal"`
}

// PurchaseInput marks a grocery item bought. PaidBy may be left empty; the
// payer is then inferred from the shopping duty of the purchase day, falling
// back to the caller.
type PurchaseInput struct {
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	PurchasedAt int64           `json:"purchased_at"`
}

// DutyInput assigns one member to shop on one day.
type DutyInput struct {
	Date  int64  `json:"date"`
	Email string `json:"email"`
	Note  string `json:"note"`
}

// MealEntryInput records one eater's servings at a meal.
type MealEntryInput struct {
	Email    string          `json:"email"`
	Date     int64           `json:"date"`
	Meal     models.MealSlot `json:"meal"`
	Servings decimal.Decimal `json:"servings"`
}

// MealSummary is the computed financial state of a meal group over a period.
type MealSummary struct {
	GroupID        string                     `json:"group_id"`
	TotalSpend     decimal.Decimal            `json:"total_spend"`
	TotalServings  decimal.Decimal            `json:"total_servings"`
	CostPerServing decimal.Decimal            `json:"cost_per_serving"`
	SpendBy        map[string]decimal.Decimal `json:"spend_by"`
	ServingsBy     map[string]decimal.Decimal `json:"servings_by"`
	Balances       map[string]decimal.Decimal `json:"balances"`
	Suggestions    []ledger.Transfer          `json:"suggestions"`
}

// MealService manages shared meal groups: the shopping list, duty roster,
// meal log, and the consumption-weighted cost split derived from them.
type MealService struct {
	store storage.Store
	guard *Guard
}

// NewMealService creates the meal-group service.
func NewMealService(store storage.Store, guard *Guard) *MealService {
	return &MealService{store: store, guard: guard}
}

// AddItem puts a new item on the group's shopping list.
func (s *MealService) AddItem(ctx context.Context, groupID, callerEmail string, in GroceryItemInput) (*models.GroceryItem, error) {
	group, err := s.guard.LoadGroup(ctx, models.GroupKindMeal, groupID, callerEmail, false)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.InvalidInput("item name is required")
	}
	if in.Quantity.IsNegative() {
		return nil, apperr.InvalidInput("quantity must be >= 0")
	}
	if in.NeededForMeal != "" && !models.ValidMealSlot(in.NeededForMeal) {
		return nil, apperr.InvalidInput("unknown meal %q", in.NeededForMeal)
	}

	item := &models.GroceryItem{
		ID:            uuid.New().String(),
		GroupID:       group.ID,
		Name:          name,
		Quantity:      in.Quantity,
		Unit:          strings.TrimSpace(in.Unit),
		NeededForDate: in.NeededForDate,
		NeededForMeal: in.NeededForMeal,
		Amount:        decimal.Zero,
		CreatedAt:     time.Now().Unix(),
	}
	if err := s.store.CreateGroceryItem(ctx, item); err != nil {
		return nil, apperr.Internal(err)
	}
	return item, nil
}

// ListItems returns the group's shopping list, optionally filtered.
func (s *MealService) ListItems(ctx context.Context, groupID, callerEmail string, f storage.GroceryFilter) ([]models.GroceryItem, error) {
	if _, err := s.guard.LoadGroup(ctx, models.GroupKindMeal, groupID, callerEmail, false); err != nil {
		return nil, err
	}
	items, err := s.store.ListGroceryItems(ctx, groupID, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// PurchaseItem marks an item bought and records who paid what. Buying an
// already-purchased item again is a conflict, not an update.
func (s *MealService) PurchaseItem(ctx context.Context, groupID, callerEmail, itemID string, in PurchaseInput) (*models.GroceryItem, error) {
	group, err := s.guard.LoadGroup(ctx, models.GroupKindMeal, groupID, callerEmail, false)
	if err != nil {
		return nil, err
	}
	if in.Amount.IsNegative() {
		return nil, apperr.InvalidInput("amount must be >= 0")
	}

	item, err := s.store.GetGroceryItem(ctx, groupID, itemID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if item == nil {
		return nil, apperr.NotFound("grocery item not found")
	}
	if item.Purchased {
		return nil, apperr.Conflict("item already purchased")
	}

	purchasedAt := in.PurchasedAt
	if purchasedAt == 0 {
		purchasedAt = time.Now().Unix()
	}
	paidBy, err := s.resolvePayer(ctx, group, in.PaidBy, callerEmail, purchasedAt)
	if err != nil {
		return nil, err
	}
	if err := s.guard.EnsureMembers(ctx, group, paidBy); err != nil {
		return nil, err
	}

	item.Purchased = true
	item.Amount = models.RoundMoney(in.Amount)
	item.PaidBy = paidBy
	item.PurchasedAt = purchasedAt
	if err := s.store.SaveGroceryItem(ctx, item); err != nil {
		return nil, apperr.Internal(err)
	}
	slog.Info("grocery item purchased",
		"group_id", group.ID, "item_id", item.ID, "paid_by", paidBy, "amount", item.Amount)
	return item, nil
}

// resolvePayer picks the payer for a purchase: explicit request first, then
// the duty assignee of the purchase day, then the caller.
func (s *MealService) resolvePayer(ctx context.Context, group *models.Group, requested, caller string, purchasedAt int64) (string, error) {
	if email := models.NormalizeEmail(requested); email != "" {
		return email, nil
	}
	duty, err := s.store.GetShoppingDuty(ctx, group.ID, DayStart(purchasedAt))
	if err != nil {
		return "", apperr.Internal(err)
	}
	if duty != nil && duty.Email != "" {
		return duty.Email, nil
	}
	return models.NormalizeEmail(caller), nil
}

// AssignDuties upserts the shopping roster. Admin only. Dates are normalized
// to day start so one day holds at most one assignee.
func (s *MealService) AssignDuties(ctx context.Context, groupID, callerEmail string, in []DutyInput) ([]models.ShoppingDuty, error) {
	if len(in) == 0 {
		return nil, apperr.InvalidInput("at least one duty is required")
	}
	group, err := s.guard.LoadGroup(ctx, models.GroupKindMeal, groupID, callerEmail, true)
	if err != nil {
		return nil, err
	}

	duties := make([]models.ShoppingDuty, 0, len(in))
	for _, d := range in {
		email := models.NormalizeEmail(d.Email)
		if email == "" {
			return nil, apperr.InvalidInput("duty email is required")
		}
		if d.Date == 0 {
			return nil, apperr.InvalidInput("duty date is required")
		}
		duties = append(duties, models.ShoppingDuty{
			GroupID: group.ID,
			Date:    DayStart(d.Date),
			Email:   email,
			Note:    strings.TrimSpace(d.Note),
		})
	}

	emails := make([]string, len(duties))
	for i, d := range duties {
		emails[i] = d.Email
	}
	if err := s.guard.EnsureMembers(ctx, group, emails...); err != nil {
		return nil, err
	}
	for i := range duties {
		if err := s.store.UpsertShoppingDuty(ctx, &duties[i]); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	return duties, nil
}

// ListDuties returns the duty roster in date order.
func (s *MealService) ListDuties(ctx context.Context, groupID, callerEmail string, r storage.DateRange) ([]models.ShoppingDuty, error) {
	if _, err := s.guard.LoadGroup(ctx, models.GroupKindMeal, groupID, callerEmail, false); err != nil {
		return nil, err
	}
	duties, err := s.store.ListShoppingDuties(ctx, groupID, r)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return duties, nil
}

// RecordMeals logs a batch of servings. Entries default the eater to the
// caller and the date to now; unknown eaters are auto-added to the group.
func (s *MealService) RecordMeals(ctx context.Context, groupID, callerEmail string, in []MealEntryInput) ([]models.MealEntry, error) {
	if len(in) == 0 {
		return nil, apperr.InvalidInput("at least one meal entry is required")
	}
	group, err := s.guard.LoadGroup(ctx, models.GroupKindMeal, groupID, callerEmail, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	entries := make([]models.MealEntry, 0, len(in))
	emails := make([]string, 0, len(in))
	for _, e := range in {
		email := models.NormalizeEmail(e.Email)
		if email == "" {
			email = models.NormalizeEmail(callerEmail)
		}
		if !models.ValidMealSlot(e.Meal) {
			return nil, apperr.InvalidInput("unknown meal %q", e.Meal)
		}
		if !e.Servings.IsPositive() {
			return nil, apperr.InvalidInput("servings must be > 0")
		}
		date := e.Date
		if date == 0 {
			date = now
		}
		entries = append(entries, models.MealEntry{
			ID:        uuid.New().String(),
			GroupID:   group.ID,
			Email:     email,
			Date:      date,
			Meal:      e.Meal,
			Servings:  e.Servings,
			CreatedAt: now,
		})
		emails = append(emails, email)
	}

	if err := s.guard.EnsureMembers(ctx, group, emails...); err != nil {
		return nil, err
	}
	if err := s.store.CreateMealEntries(ctx, entries); err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

// ListMeals returns logged entries, optionally filtered by eater and date.
func (s *MealService) ListMeals(ctx context.Context, groupID, callerEmail string, f storage.MealEntryFilter) ([]models.MealEntry, error) {
	if _, err := s.guard.LoadGroup(ctx, models.GroupKindMeal, groupID, callerEmail, false); err != nil {
		return nil, err
	}
	entries, err := s.store.ListMealEntries(ctx, groupID, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

// Summary computes the consumption-weighted cost split for the period:
// purchased spend per payer, servings per eater, the shared cost per
// serving, net balances, and suggested transfers.
func (s *MealService) Summary(ctx context.Context, groupID, callerEmail string, r storage.DateRange) (*MealSummary, error) {
	group, err := s.guard.LoadGroup(ctx, models.GroupKindMeal, groupID, callerEmail, false)
	if err != nil {
		return nil, err
	}

	purchased := true
	items, err := s.store.ListGroceryItems(ctx, groupID, storage.GroceryFilter{
		Purchased: &purchased,
		Range:     r,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	entries, err := s.store.ListMealEntries(ctx, groupID, storage.MealEntryFilter{Range: r})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	balances, totals := ledger.ComputeMealBalances(group.MemberEmails(), items, entries)
	return &MealSummary{
		GroupID:        group.ID,
		TotalSpend:     totals.TotalSpend,
		TotalServings:  totals.TotalServings,
		CostPerServing: totals.CostPerServing,
		SpendBy:        totals.SpendBy,
		ServingsBy:     totals.ServingsBy,
		Balances:       balances,
		Suggestions:    ledger.Plan(balances, group.MemberEmails()),
	}, nil
}

// DayStart truncates a Unix timestamp to the start of its UTC day.
func DayStart(ts int64) int64 {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
}
