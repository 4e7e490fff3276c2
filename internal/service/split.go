package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
	"hallmate/internal/ledger"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// ParticipantInput is one requested participant of an expense. Weight is
// interpreted per split type: relative shares, a percent, or an exact amount.
// It is ignored for equal splits.
type ParticipantInput struct {
	Email  string          `json:"email"`
	Weight decimal.Decimal `json:"weight"`
}

// ExpenseInput is the request to record a shared expense.
type ExpenseInput struct {
	Amount       decimal.Decimal    `json:"amount"`
	Description  string             `json:"description"`
	Category     string             `json:"category"`
	Date         int64              `json:"date"`
	PaidBy       string             `json:"paid_by"`
	SplitType    models.SplitType   `json:"split_type"`
	Participants []ParticipantInput `json:"participants"`
}

// SettlementInput is the request to record a direct repayment.
type SettlementInput struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
	Date   int64           `json:"date"`
}

// GroupSummary is the computed financial state of a split group.
type GroupSummary struct {
	GroupID     string                     `json:"group_id"`
	Balances    map[string]decimal.Decimal `json:"balances"`
	Suggestions []ledger.Transfer          `json:"suggestions"`
}

// SplitService records expenses and settlements for split groups and derives
// balances and settlement suggestions from them.
type SplitService struct {
	store storage.Store
	guard *Guard
}

// NewSplitService creates the split-group service.
func NewSplitService(store storage.Store, guard *Guard) *SplitService {
	return &SplitService{store: store, guard: guard}
}

// AddExpense validates, allocates shares per the split type, auto-adds any
// unknown participants as members, and persists the expense.
func (s *SplitService) AddExpense(ctx context.Context, groupID, callerEmail string, in ExpenseInput) (*models.Expense, error) {
	group, err := s.guard.LoadGroup(ctx, models.GroupKindSplit, groupID, callerEmail, false)
	if err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, apperr.InvalidInput("amount must be > 0")
	}
	splitType := in.SplitType
	if splitType == "" {
		splitType = models.SplitEqual
	}
	if !models.ValidSplitType(splitType) {
		return nil, apperr.InvalidInput("unknown split type %q", splitType)
	}

	paidBy := models.NormalizeEmail(in.PaidBy)
	if paidBy == "" {
		paidBy = models.NormalizeEmail(callerEmail)
	}

	participants, weights, err := resolveParticipants(group, splitType, in.Participants)
	if err != nil {
		return nil, err
	}

	shares, err := ledger.Allocate(in.Amount, splitType, participants, weights)
	if err != nil {
		return nil, err
	}

	if err := s.guard.EnsureMembers(ctx, group, append([]string{paidBy}, participants...)...); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	date := in.Date
	if date == 0 {
		date = now
	}
	expense := &models.Expense{
		ID:          uuid.New().String(),
		GroupID:     group.ID,
		PaidBy:      paidBy,
		Amount:      models.RoundMoney(in.Amount),
		Description: in.Description,
		Category:    in.Category,
		Date:        date,
		SplitType:   splitType,
		CreatedAt:   now,
	}
	for _, sh := range shares {
		expense.Participants = append(expense.Participants, models.ExpenseShare{
			Email: sh.Email,
			Share: sh.Amount,
		})
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, apperr.Internal(err)
	}
	slog.Info("expense recorded",
		"group_id", group.ID, "expense_id", expense.ID,
		"amount", expense.Amount, "split_type", splitType)
	return expense, nil
}

// resolveParticipants normalizes the requested participants and lines up
// their weights. An empty request means an equal split across the whole
// current membership; any other split type must name its participants.
func resolveParticipants(group *models.Group, splitType models.SplitType, in []ParticipantInput) ([]string, []decimal.Decimal, error) {
	if len(in) == 0 {
		if splitType != models.SplitEqual {
			return nil, nil, apperr.InvalidInput("split type %q requires participants", splitType)
		}
		return group.MemberEmails(), nil, nil
	}

	seen := make(map[string]bool, len(in))
	emails := make([]string, 0, len(in))
	weights := make([]decimal.Decimal, 0, len(in))
	for _, p := range in {
		email := models.NormalizeEmail(p.Email)
		if email == "" {
			return nil, nil, apperr.InvalidInput("participant email is required")
		}
		if seen[email] {
			return nil, nil, apperr.InvalidInput("duplicate participant %s", email)
		}
		seen[email] = true
		emails = append(emails, email)
		weights = append(weights, p.Weight)
	}
	if splitType == models.SplitEqual {
		return emails, nil, nil
	}
	return emails, weights, nil
}

// ListExpenses returns a group's expenses, optionally bounded by date.
func (s *SplitService) ListExpenses(ctx context.Context, groupID, callerEmail string, r storage.DateRange) ([]models.Expense, error) {
	if _, err := s.guard.LoadGroup(ctx, models.GroupKindSplit, groupID, callerEmail, false); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, groupID, r)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense. Any member may delete; the balance
// computation simply stops seeing it.
func (s *SplitService) DeleteExpense(ctx context.Context, groupID, callerEmail, expenseID string) error {
	if _, err := s.guard.LoadGroup(ctx, models.GroupKindSplit, groupID, callerEmail, false); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, groupID, expenseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("expense not found")
		}
		return apperr.Internal(err)
	}
	return nil
}

// RecordSettlement persists a direct repayment between two members.
func (s *SplitService) RecordSettlement(ctx context.Context, groupID, callerEmail string, in SettlementInput) (*models.Settlement, error) {
	group, err := s.guard.LoadGroup(ctx, models.GroupKindSplit, groupID, callerEmail, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	date := in.Date
	if date == 0 {
		date = now
	}
	settlement := &models.Settlement{
		ID:        uuid.New().String(),
		GroupID:   group.ID,
		From:      models.NormalizeEmail(in.From),
		To:        models.NormalizeEmail(in.To),
		Amount:    models.RoundMoney(in.Amount),
		Note:      in.Note,
		Date:      date,
		CreatedAt: now,
	}
	if err := settlement.Validate(); err != nil {
		return nil, err
	}
	if err := s.guard.EnsureMembers(ctx, group, settlement.From, settlement.To); err != nil {
		return nil, err
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, apperr.Internal(err)
	}
	slog.Info("settlement recorded",
		"group_id", group.ID, "from", settlement.From, "to", settlement.To,
		"amount", settlement.Amount)
	return settlement, nil
}

// ListSettlements returns a group's settlements, optionally bounded by date.
func (s *SplitService) ListSettlements(ctx context.Context, groupID, callerEmail string, r storage.DateRange) ([]models.Settlement, error) {
	if _, err := s.guard.LoadGroup(ctx, models.GroupKindSplit, groupID, callerEmail, false); err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, groupID, r)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return settlements, nil
}

// Summary folds all expenses and settlements in the range into per-member
// balances and a minimal set of suggested transfers.
func (s *SplitService) Summary(ctx context.Context, groupID, callerEmail string, r storage.DateRange) (*GroupSummary, error) {
	group, err := s.guard.LoadGroup(ctx, models.GroupKindSplit, groupID, callerEmail, false)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, groupID, r)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	settlements, err := s.store.ListSettlements(ctx, groupID, r)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	balances := ledger.ComputeBalances(group.MemberEmails(), expenses, settlements)
	return &GroupSummary{
		GroupID:     group.ID,
		Balances:    balances,
		Suggestions: ledger.Plan(balances, group.MemberEmails()),
	}, nil
}
