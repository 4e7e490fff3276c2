// Package storage abstracts persistent data access. The core computations
// never touch it directly; services fetch snapshots here and hand them to
// the ledger.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"hallmate/internal/models"
)

// ErrNotFound is returned by delete and update operations when the target
// row does not exist. Lookups return (nil, nil) instead.
var ErrNotFound = errors.New("not found")

// DateRange bounds a query by Unix timestamps. Zero means unbounded.
type DateRange struct {
	From int64
	To   int64
}

// Contains reports whether ts falls inside the range.
func (r DateRange) Contains(ts int64) bool {
	if r.From != 0 && ts < r.From {
		return false
	}
	if r.To != 0 && ts > r.To {
		return false
	}
	return true
}

// MealEntryFilter narrows meal entry listings.
type MealEntryFilter struct {
	Range DateRange
	Email string
}

// GroceryFilter narrows grocery item listings.
type GroceryFilter struct {
	// Purchased filters on purchase state when non-nil.
	Purchased *bool
	// Range bounds the purchase time for purchased items.
	Range DateRange
}

// Store is the persistence interface the services depend on. The sqlite
// package provides the production implementation; tests use it against a
// temp-dir database.
type Store interface {
	// Groups (split and meal families share the table, split by kind).
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	SaveGroup(ctx context.Context, group *models.Group) error
	ListGroupsByMember(ctx context.Context, kind models.GroupKind, email string) ([]models.Group, error)
	// DeleteGroup cascades to every dependent record.
	DeleteGroup(ctx context.Context, id string) error

	// Split-group events. Append-only: no update operations exist.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context, groupID string, r DateRange) ([]models.Expense, error)
	DeleteExpense(ctx context.Context, groupID, expenseID string) error
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	ListSettlements(ctx context.Context, groupID string, r DateRange) ([]models.Settlement, error)

	// Meal-group records.
	CreateGroceryItem(ctx context.Context, item *models.GroceryItem) error
	GetGroceryItem(ctx context.Context, groupID, itemID string) (*models.GroceryItem, error)
	ListGroceryItems(ctx context.Context, groupID string, f GroceryFilter) ([]models.GroceryItem, error)
	SaveGroceryItem(ctx context.Context, item *models.GroceryItem) error
	UpsertShoppingDuty(ctx context.Context, duty *models.ShoppingDuty) error
	GetShoppingDuty(ctx context.Context, groupID string, day int64) (*models.ShoppingDuty, error)
	ListShoppingDuties(ctx context.Context, groupID string, r DateRange) ([]models.ShoppingDuty, error)
	CreateMealEntries(ctx context.Context, entries []models.MealEntry) error
	ListMealEntries(ctx context.Context, groupID string, f MealEntryFilter) ([]models.MealEntry, error)

	// Personal spending log, scoped to one user.
	CreatePersonalExpense(ctx context.Context, expense *models.PersonalExpense) error
	GetPersonalExpense(ctx context.Context, userID, id string) (*models.PersonalExpense, error)
	ListPersonalExpenses(ctx context.Context, userID string) ([]models.PersonalExpense, error)
	UpdatePersonalExpense(ctx context.Context, expense *models.PersonalExpense) error
	DeletePersonalExpense(ctx context.Context, userID, id string) error
	// SumEssentialSpendSince totals essential personal expenses dated at or
	// after since.
	SumEssentialSpendSince(ctx context.Context, userID string, since int64) (decimal.Decimal, error)

	// Emergency fund.
	GetFundByUser(ctx context.Context, userID string) (*models.EmergencyFund, error)
	SaveFund(ctx context.Context, fund *models.EmergencyFund) error
	CreateFundTransaction(ctx context.Context, tx *models.FundTransaction) error
	ListFundTransactions(ctx context.Context, fundID string, page, limit int) ([]models.FundTransaction, int, error)

	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Tasks, documents, notifications.
	CreateTask(ctx context.Context, task *models.Task) error
	ListTasks(ctx context.Context) ([]models.Task, error)
	CompleteTask(ctx context.Context, id string) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	CreateDocument(ctx context.Context, doc *models.Document) error
	ListDocuments(ctx context.Context, course, category string) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
