package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// CreateGroceryItem persists a new shopping-list entry.
func (s *SQLiteStore) CreateGroceryItem(ctx context.Context, item *models.GroceryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO grocery_items (id, group_id, name, quantity, unit, needed_for_date, needed_for_meal,
			purchased, amount, paid_by, purchased_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.GroupID, item.Name, item.Quantity.String(), item.Unit,
		item.NeededForDate, item.NeededForMeal,
		boolToInt(item.Purchased), item.Amount.StringFixed(2), item.PaidBy, item.PurchasedAt, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert grocery item: %w", err)
	}
	return nil
}

// GetGroceryItem retrieves one item scoped to its group.
// Returns (nil, nil) when missing.
func (s *SQLiteStore) GetGroceryItem(ctx context.Context, groupID, itemID string) (*models.GroceryItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, name, quantity, unit, needed_for_date, needed_for_meal,
			purchased, amount, paid_by, purchased_at, created_at
		FROM grocery_items WHERE id = ? AND group_id = ?`, itemID, groupID)

	item, err := scanGroceryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return item, err
}

// SaveGroceryItem rewrites an item's purchase state and planning fields.
func (s *SQLiteStore) SaveGroceryItem(ctx context.Context, item *models.GroceryItem) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE grocery_items
		SET name = ?, quantity = ?, unit = ?, needed_for_date = ?, needed_for_meal = ?,
			purchased = ?, amount = ?, paid_by = ?, purchased_at = ?
		WHERE id = ? AND group_id = ?`,
		item.Name, item.Quantity.String(), item.Unit, item.NeededForDate, item.NeededForMeal,
		boolToInt(item.Purchased), item.Amount.StringFixed(2), item.PaidBy, item.PurchasedAt,
		item.ID, item.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update grocery item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListGroceryItems returns a group's items, newest first. The date range
// applies to purchase time and only makes sense combined with Purchased=true.
func (s *SQLiteStore) ListGroceryItems(ctx context.Context, groupID string, f storage.GroceryFilter) ([]models.GroceryItem, error) {
	query := `
		SELECT id, group_id, name, quantity, unit, needed_for_date, needed_for_meal,
			purchased, amount, paid_by, purchased_at, created_at
		FROM grocery_items WHERE group_id = ?`
	args := []any{groupID}
	if f.Purchased != nil {
		query += " AND purchased = ?"
		args = append(args, boolToInt(*f.Purchased))
	}
	if f.Range.From != 0 {
		query += " AND purchased_at >= ?"
		args = append(args, f.Range.From)
	}
	if f.Range.To != 0 {
		query += " AND purchased_at <= ?"
		args = append(args, f.Range.To)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	defer rows.Close()

	var items []models.GroceryItem
	for rows.Next() {
		item, err := scanGroceryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroceryItem(row rowScanner) (*models.GroceryItem, error) {
	item := &models.GroceryItem{}
	var quantity, amount string
	var purchased int
	err := row.Scan(&item.ID, &item.GroupID, &item.Name, &quantity, &item.Unit,
		&item.NeededForDate, &item.NeededForMeal,
		&purchased, &amount, &item.PaidBy, &item.PurchasedAt, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan grocery item: %w", err)
	}
	item.Purchased = purchased != 0
	if item.Quantity, err = models.ParseMoney(quantity); err != nil {
		return nil, fmt.Errorf("bad quantity for item %s: %w", item.ID, err)
	}
	if item.Amount, err = models.ParseMoney(amount); err != nil {
		return nil, fmt.Errorf("bad amount for item %s: %w", item.ID, err)
	}
	return item, nil
}

// UpsertShoppingDuty assigns the duty for one day, replacing any previous
// assignee for that (group, day).
func (s *SQLiteStore) UpsertShoppingDuty(ctx context.Context, duty *models.ShoppingDuty) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shopping_duties (group_id, date, email, note) VALUES (?, ?, ?, ?)
		ON CONFLICT(group_id, date) DO UPDATE SET email = excluded.email, note = excluded.note`,
		duty.GroupID, duty.Date, duty.Email, duty.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert duty: %w", err)
	}
	return nil
}

// GetShoppingDuty returns the duty for the given day start, or (nil, nil).
func (s *SQLiteStore) GetShoppingDuty(ctx context.Context, groupID string, day int64) (*models.ShoppingDuty, error) {
	duty := &models.ShoppingDuty{}
	err := s.db.QueryRowContext(ctx,
		"SELECT group_id, date, email, note FROM shopping_duties WHERE group_id = ? AND date = ?",
		groupID, day,
	).Scan(&duty.GroupID, &duty.Date, &duty.Email, &duty.Note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get duty: %w", err)
	}
	return duty, nil
}

// ListShoppingDuties returns duties in date order.
func (s *SQLiteStore) ListShoppingDuties(ctx context.Context, groupID string, r storage.DateRange) ([]models.ShoppingDuty, error) {
	query := "SELECT group_id, date, email, note FROM shopping_duties WHERE group_id = ?"
	args := []any{groupID}
	if r.From != 0 {
		query += " AND date >= ?"
		args = append(args, r.From)
	}
	if r.To != 0 {
		query += " AND date <= ?"
		args = append(args, r.To)
	}
	query += " ORDER BY date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list duties: %w", err)
	}
	defer rows.Close()

	var duties []models.ShoppingDuty
	for rows.Next() {
		var d models.ShoppingDuty
		if err := rows.Scan(&d.GroupID, &d.Date, &d.Email, &d.Note); err != nil {
			return nil, fmt.Errorf("failed to scan duty: %w", err)
		}
		duties = append(duties, d)
	}
	return duties, rows.Err()
}

// CreateMealEntries inserts a batch of entries in one transaction.
func (s *SQLiteStore) CreateMealEntries(ctx context.Context, entries []models.MealEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.CreatedAt == 0 {
			e.CreatedAt = now
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO meal_entries (id, group_id, email, date, meal, servings, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			e.ID, e.GroupID, e.Email, e.Date, e.Meal, e.Servings.String(), e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert meal entry: %w", err)
		}
	}
	return tx.Commit()
}

// ListMealEntries returns entries newest first, optionally filtered by eater
// and date range.
func (s *SQLiteStore) ListMealEntries(ctx context.Context, groupID string, f storage.MealEntryFilter) ([]models.MealEntry, error) {
	query := "SELECT id, group_id, email, date, meal, servings, created_at FROM meal_entries WHERE group_id = ?"
	args := []any{groupID}
	if f.Email != "" {
		query += " AND email = ?"
		args = append(args, models.NormalizeEmail(f.Email))
	}
	if f.Range.From != 0 {
		query += " AND date >= ?"
		args = append(args, f.Range.From)
	}
	if f.Range.To != 0 {
		query += " AND date <= ?"
		args = append(args, f.Range.To)
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal entries: %w", err)
	}
	defer rows.Close()

	var entries []models.MealEntry
	for rows.Next() {
		var e models.MealEntry
		var servings string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Email, &e.Date, &e.Meal, &servings, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal entry: %w", err)
		}
		if e.Servings, err = models.ParseMoney(servings); err != nil {
			return nil, fmt.Errorf("bad servings for entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
