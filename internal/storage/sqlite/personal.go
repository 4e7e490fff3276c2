package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// CreatePersonalExpense inserts an entry in the user's spending log.
func (s *SQLiteStore) CreatePersonalExpense(ctx context.Context, expense *models.PersonalExpense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO personal_expenses (id, user_id, category, amount, note, essential, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.UserID, expense.Category, expense.Amount.StringFixed(2),
		expense.Note, boolToInt(expense.Essential), expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create personal expense: %w", err)
	}
	return nil
}

// GetPersonalExpense returns one entry, or (nil, nil) when absent or owned
// by someone else.
func (s *SQLiteStore) GetPersonalExpense(ctx context.Context, userID, id string) (*models.PersonalExpense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, amount, note, essential, date, created_at
		FROM personal_expenses WHERE id = ? AND user_id = ?`, id, userID)
	expense, err := scanPersonalExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personal expense: %w", err)
	}
	return expense, nil
}

// ListPersonalExpenses returns the user's log, newest first.
func (s *SQLiteStore) ListPersonalExpenses(ctx context.Context, userID string) ([]models.PersonalExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount, note, essential, date, created_at
		FROM personal_expenses WHERE user_id = ? ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list personal expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.PersonalExpense
	for rows.Next() {
		expense, err := scanPersonalExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan personal expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	return expenses, rows.Err()
}

// UpdatePersonalExpense rewrites an entry; storage.ErrNotFound when the row
// does not exist for that user.
func (s *SQLiteStore) UpdatePersonalExpense(ctx context.Context, expense *models.PersonalExpense) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE personal_expenses SET category = ?, amount = ?, note = ?, essential = ?, date = ?
		WHERE id = ? AND user_id = ?`,
		expense.Category, expense.Amount.StringFixed(2), expense.Note,
		boolToInt(expense.Essential), expense.Date, expense.ID, expense.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update personal expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeletePersonalExpense removes an entry; storage.ErrNotFound when absent.
func (s *SQLiteStore) DeletePersonalExpense(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM personal_expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete personal expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SumEssentialSpendSince totals the user's essential entries dated at or
// after since. Summed in Go so the cent-exact decimal representation is
// preserved.
func (s *SQLiteStore) SumEssentialSpendSince(ctx context.Context, userID string, since int64) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT amount FROM personal_expenses
		WHERE user_id = ? AND essential = 1 AND date >= ?`, userID, since)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum essential spend: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		amount, err := models.ParseMoney(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad amount: %w", err)
		}
		total = total.Add(amount)
	}
	return total, rows.Err()
}

func scanPersonalExpense(scan func(...any) error) (*models.PersonalExpense, error) {
	expense := &models.PersonalExpense{}
	var amount string
	var essential int
	err := scan(&expense.ID, &expense.UserID, &expense.Category, &amount,
		&expense.Note, &essential, &expense.Date, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}
	if expense.Amount, err = models.ParseMoney(amount); err != nil {
		return nil, fmt.Errorf("bad amount: %w", err)
	}
	expense.Essential = essential != 0
	return expense, nil
}
