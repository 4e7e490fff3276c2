package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hallmate/internal/models"
)

// GetFundByUser returns the user's emergency fund, or (nil, nil) when none
// has been set up.
func (s *SQLiteStore) GetFundByUser(ctx context.Context, userID string) (*models.EmergencyFund, error) {
	fund := &models.EmergencyFund{}
	var targetAmount, currentBalance, monthlyPlan, badges string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, target_amount, target_months, target_date,
			current_balance, monthly_plan, badges, streak_count, last_contribution_at,
			created_at, updated_at
		FROM funds WHERE user_id = ?`, userID,
	).Scan(&fund.ID, &fund.UserID, &targetAmount, &fund.TargetMonths, &fund.TargetDate,
		&currentBalance, &monthlyPlan, &badges, &fund.StreakCount, &fund.LastContributionAt,
		&fund.CreatedAt, &fund.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fund: %w", err)
	}

	if fund.TargetAmount, err = models.ParseMoney(targetAmount); err != nil {
		return nil, fmt.Errorf("bad target amount: %w", err)
	}
	if fund.CurrentBalance, err = models.ParseMoney(currentBalance); err != nil {
		return nil, fmt.Errorf("bad balance: %w", err)
	}
	if fund.MonthlyPlan, err = models.ParseMoney(monthlyPlan); err != nil {
		return nil, fmt.Errorf("bad monthly plan: %w", err)
	}
	if badges != "" {
		fund.Badges = strings.Split(badges, ",")
	}
	return fund, nil
}

// SaveFund inserts or rewrites the fund row for its user.
func (s *SQLiteStore) SaveFund(ctx context.Context, fund *models.EmergencyFund) error {
	if fund.ID == "" {
		fund.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if fund.CreatedAt == 0 {
		fund.CreatedAt = now
	}
	fund.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO funds (id, user_id, target_amount, target_months, target_date,
			current_balance, monthly_plan, badges, streak_count, last_contribution_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			target_amount = excluded.target_amount,
			target_months = excluded.target_months,
			target_date = excluded.target_date,
			current_balance = excluded.current_balance,
			monthly_plan = excluded.monthly_plan,
			badges = excluded.badges,
			streak_count = excluded.streak_count,
			last_contribution_at = excluded.last_contribution_at,
			updated_at = excluded.updated_at`,
		fund.ID, fund.UserID, fund.TargetAmount.StringFixed(2), fund.TargetMonths, fund.TargetDate,
		fund.CurrentBalance.StringFixed(2), fund.MonthlyPlan.StringFixed(2),
		strings.Join(fund.Badges, ","), fund.StreakCount, fund.LastContributionAt,
		fund.CreatedAt, fund.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save fund: %w", err)
	}
	return nil
}

// CreateFundTransaction records one deposit or withdrawal.
func (s *SQLiteStore) CreateFundTransaction(ctx context.Context, tx *models.FundTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO fund_transactions (id, user_id, fund_id, type, amount, note, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		tx.ID, tx.UserID, tx.FundID, tx.Type, tx.Amount.StringFixed(2), tx.Note, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund transaction: %w", err)
	}
	return nil
}

// ListFundTransactions returns one page of a fund's history, newest first,
// along with the total row count.
func (s *SQLiteStore) ListFundTransactions(ctx context.Context, fundID string, page, limit int) ([]models.FundTransaction, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM fund_transactions WHERE fund_id = ?", fundID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count fund transactions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, fund_id, type, amount, note, created_at
		FROM fund_transactions WHERE fund_id = ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		fundID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fund transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.FundTransaction
	for rows.Next() {
		var t models.FundTransaction
		var amount string
		if err := rows.Scan(&t.ID, &t.UserID, &t.FundID, &t.Type, &amount, &t.Note, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan fund transaction: %w", err)
		}
		if t.Amount, err = models.ParseMoney(amount); err != nil {
			return nil, 0, fmt.Errorf("bad amount for transaction %s: %w", t.ID, err)
		}
		txs = append(txs, t)
	}
	return txs, total, rows.Err()
}
