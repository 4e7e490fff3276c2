package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// CreateExpense persists an expense with its participant shares. The expense
// must already be validated; storage never adjusts shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.Date == 0 {
		expense.Date = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO expenses (id, group_id, paid_by, amount, description, category, date, split_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PaidBy, expense.Amount.StringFixed(2),
		expense.Description, expense.Category, expense.Date, expense.SplitType, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, p := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, email, share, position) VALUES (?, ?, ?, ?)",
			expense.ID, p.Email, p.Share.StringFixed(2), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant share: %w", err)
		}
	}
	return tx.Commit()
}

// ListExpenses returns a group's expenses, newest first, with shares in
// their original order. The range filters on each expense's own date.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, r storage.DateRange) ([]models.Expense, error) {
	query := "SELECT id, group_id, paid_by, amount, description, category, date, split_type, created_at FROM expenses WHERE group_id = ?"
	args := []any{groupID}
	if r.From != 0 {
		query += " AND date >= ?"
		args = append(args, r.From)
	}
	if r.To != 0 {
		query += " AND date <= ?"
		args = append(args, r.To)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var amount string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.PaidBy, &amount, &e.Description, &e.Category, &e.Date, &e.SplitType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Amount, err = models.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("bad amount for expense %s: %w", e.ID, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range expenses {
		if err := s.loadShares(ctx, &expenses[i]); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT email, share FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participant shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.ExpenseShare
		var share string
		if err := rows.Scan(&p.Email, &share); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		if p.Share, err = models.ParseMoney(share); err != nil {
			return fmt.Errorf("bad share for expense %s: %w", expense.ID, err)
		}
		expense.Participants = append(expense.Participants, p)
	}
	return rows.Err()
}

// DeleteExpense removes an expense scoped to its group.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND group_id = ?", expenseID, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
