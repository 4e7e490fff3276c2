package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// CreateSettlement persists a validated settlement.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = now
	}
	if settlement.Date == 0 {
		settlement.Date = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settlements (id, group_id, from_email, to_email, amount, note, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.From, settlement.To,
		settlement.Amount.StringFixed(2), settlement.Note, settlement.Date, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// ListSettlements returns a group's settlements, newest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string, r storage.DateRange) ([]models.Settlement, error) {
	query := "SELECT id, group_id, from_email, to_email, amount, note, date, created_at FROM settlements WHERE group_id = ?"
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
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var st models.Settlement
		var amount string
		if err := rows.Scan(&st.ID, &st.GroupID, &st.From, &st.To, &amount, &st.Note, &st.Date, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if st.Amount, err = models.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("bad amount for settlement %s: %w", st.ID, err)
		}
		settlements = append(settlements, st)
	}
	return settlements, rows.Err()
}
