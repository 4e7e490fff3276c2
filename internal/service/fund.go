package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// Badge names awarded as a fund crosses progress milestones.
const (
	BadgeFirstDeposit = "first-deposit"
	BadgeTenth        = "tenth-way"
	BadgeQuarter      = "quarter-way"
	BadgeHalf         = "half-way"
	BadgeThreeQuarter = "three-quarter-way"
	BadgeGoalReached  = "goal-reached"
)

// Badges for months of essential spend covered by the balance. Only awarded
// on funds whose goal spans at least that many months.
const (
	BadgeThreeMonths  = "three-months-covered"
	BadgeSixMonths    = "six-months-covered"
	BadgeTwelveMonths = "twelve-months-covered"
)

// Badges for consecutive contribution months.
const (
	BadgeStreakThree  = "streak-3"
	BadgeStreakSix    = "streak-6"
	BadgeStreakTwelve = "streak-12"
)

// FundSetupInput starts or restarts an emergency fund goal.
//
// Method "amount" takes the target directly. Method "months" derives it from
// the caller's stated essential monthly spend times the number of months of
// cover they want.
type FundSetupInput struct {
	Method           string          `json:"method"`
	TargetAmount     decimal.Decimal `json:"target_amount"`
	TargetMonths     int             `json:"target_months"`
	EssentialMonthly decimal.Decimal `json:"essential_monthly"`
	TargetDate       int64           `json:"target_date"`
}

// FundGoalInput adjusts an existing goal.
type FundGoalInput struct {
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetMonths int             `json:"target_months"`
	TargetDate   int64           `json:"target_date"`
}

// FundTxInput is one deposit or withdrawal request.
type FundTxInput struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// FundSummary is the fund plus its derived progress numbers.
type FundSummary struct {
	Fund        *models.EmergencyFund `json:"fund"`
	ProgressPct decimal.Decimal       `json:"progress_pct"`
	Band        models.SafetyBand     `json:"band"`
	Remaining   decimal.Decimal       `json:"remaining"`

	// NextMilestone is the first progress badge not yet reached, and
	// NextMilestoneNeeded the deposit that would cross it.
	NextMilestone       string          `json:"next_milestone,omitempty"`
	NextMilestoneNeeded decimal.Decimal `json:"next_milestone_needed"`
}

// FundService manages per-user emergency funds: goal setup, contributions
// and withdrawals, streaks and badges, and the suggested monthly plan.
type FundService struct {
	store storage.Store

	// now is swappable in tests so streak logic can cross month boundaries.
	now func() time.Time
}

// NewFundService creates the emergency fund service.
func NewFundService(store storage.Store) *FundService {
	return &FundService{store: store, now: time.Now}
}

// Setup creates or resets the caller's fund goal. The balance and history
// survive a re-setup; only the goal and plan change.
func (s *FundService) Setup(ctx context.Context, userID string, in FundSetupInput) (*models.EmergencyFund, error) {
	target, months, err := s.resolveTarget(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	fund, err := s.store.GetFundByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if fund == nil {
		fund = &models.EmergencyFund{
			ID:             uuid.New().String(),
			UserID:         userID,
			CurrentBalance: decimal.Zero,
		}
	}
	fund.TargetAmount = target
	fund.TargetMonths = months
	fund.TargetDate = in.TargetDate
	fund.MonthlyPlan = s.monthlyPlan(fund)

	if err := s.store.SaveFund(ctx, fund); err != nil {
		return nil, apperr.Internal(err)
	}
	slog.Info("fund goal set", "user_id", userID, "target", target, "months", months)
	return fund, nil
}

func (s *FundService) resolveTarget(ctx context.Context, userID string, in FundSetupInput) (decimal.Decimal, int, error) {
	months := in.TargetMonths
	switch in.Method {
	case "", "amount":
		if !in.TargetAmount.IsPositive() {
			return decimal.Zero, 0, apperr.InvalidInput("target amount must be > 0")
		}
		if months <= 0 {
			months = 6
		}
		return models.RoundMoney(in.TargetAmount), months, nil
	case "months":
		essential := in.EssentialMonthly
		if !essential.IsPositive() {
			avg, err := s.avgEssentialMonthly(ctx, userID)
			if err != nil {
				return decimal.Zero, 0, err
			}
			essential = avg
		}
		if !essential.IsPositive() {
			return decimal.Zero, 0, apperr.InvalidInput("cannot infer essential monthly spend; log essential expenses or use the amount method")
		}
		if months <= 0 {
			months = 6
		}
		target := models.RoundMoney(essential.Mul(decimal.NewFromInt(int64(months))))
		return target, months, nil
	default:
		return decimal.Zero, 0, apperr.InvalidInput("unknown setup method %q", in.Method)
	}
}

// avgEssentialMonthly averages the caller's essential entries in the
// personal spending log over the last three months. Zero when the log is
// empty.
func (s *FundService) avgEssentialMonthly(ctx context.Context, userID string) (decimal.Decimal, error) {
	const lookback = 3
	since := s.now().UTC().AddDate(0, -lookback, 0).Unix()
	total, err := s.store.SumEssentialSpendSince(ctx, userID, since)
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	return models.RoundMoney(total.Div(decimal.NewFromInt(lookback))), nil
}

// monthlyPlan suggests how much to put aside per month to reach the target:
// the remaining amount spread over the months left until the target date,
// or over the configured horizon when no date is set. Rounded up, so the
// plan followed for the remaining months never lands short of the target.
func (s *FundService) monthlyPlan(fund *models.EmergencyFund) decimal.Decimal {
	remaining := fund.TargetAmount.Sub(fund.CurrentBalance)
	if !remaining.IsPositive() {
		return decimal.Zero
	}
	months := fund.TargetMonths
	if fund.TargetDate > 0 {
		months = monthsUntil(s.now().UTC(), time.Unix(fund.TargetDate, 0).UTC())
	}
	if months < 1 {
		months = 1
	}
	return remaining.Div(decimal.NewFromInt(int64(months))).RoundCeil(2)
}

// monthsUntil counts 30-day months between two instants, rounding up and
// never reporting less than one.
func monthsUntil(from, to time.Time) int {
	const month = 30 * 24 * time.Hour
	d := to.Sub(from)
	if d <= 0 {
		return 1
	}
	return int((d + month - 1) / month)
}

// Contribute deposits into the fund, extends the monthly streak, awards any
// newly crossed milestone badges, and refreshes the plan.
func (s *FundService) Contribute(ctx context.Context, userID string, in FundTxInput) (*models.EmergencyFund, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.InvalidInput("amount must be > 0")
	}
	fund, err := s.requireFund(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	amount := models.RoundMoney(in.Amount)
	fund.CurrentBalance = models.RoundMoney(fund.CurrentBalance.Add(amount))
	fund.StreakCount = nextStreak(fund, now)
	fund.LastContributionAt = now.Unix()
	awardBadges(fund)
	fund.MonthlyPlan = s.monthlyPlan(fund)

	if err := s.store.SaveFund(ctx, fund); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.recordTx(ctx, fund, models.FundDeposit, amount, in.Note); err != nil {
		return nil, err
	}
	slog.Info("fund contribution", "user_id", userID, "amount", amount, "balance", fund.CurrentBalance)
	return fund, nil
}

// Withdraw takes money out of the fund. Overdrawing is rejected.
func (s *FundService) Withdraw(ctx context.Context, userID string, in FundTxInput) (*models.EmergencyFund, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.InvalidInput("amount must be > 0")
	}
	fund, err := s.requireFund(ctx, userID)
	if err != nil {
		return nil, err
	}

	amount := models.RoundMoney(in.Amount)
	if amount.GreaterThan(fund.CurrentBalance) {
		return nil, apperr.InvalidInput("withdrawal %s exceeds balance %s", amount, fund.CurrentBalance)
	}
	fund.CurrentBalance = models.RoundMoney(fund.CurrentBalance.Sub(amount))
	fund.MonthlyPlan = s.monthlyPlan(fund)

	if err := s.store.SaveFund(ctx, fund); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.recordTx(ctx, fund, models.FundWithdrawal, amount, in.Note); err != nil {
		return nil, err
	}
	slog.Info("fund withdrawal", "user_id", userID, "amount", amount, "balance", fund.CurrentBalance)
	return fund, nil
}

// UpdateGoal adjusts the target without touching the balance or history.
func (s *FundService) UpdateGoal(ctx context.Context, userID string, in FundGoalInput) (*models.EmergencyFund, error) {
	fund, err := s.requireFund(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.TargetAmount.IsPositive() {
		fund.TargetAmount = models.RoundMoney(in.TargetAmount)
	}
	if in.TargetMonths > 0 {
		fund.TargetMonths = in.TargetMonths
	}
	if in.TargetDate > 0 {
		fund.TargetDate = in.TargetDate
	}
	awardBadges(fund)
	fund.MonthlyPlan = s.monthlyPlan(fund)

	if err := s.store.SaveFund(ctx, fund); err != nil {
		return nil, apperr.Internal(err)
	}
	return fund, nil
}

// Summary returns the fund with derived progress figures.
func (s *FundService) Summary(ctx context.Context, userID string) (*FundSummary, error) {
	fund, err := s.requireFund(ctx, userID)
	if err != nil {
		return nil, err
	}

	pct := decimal.Zero
	if fund.TargetAmount.IsPositive() {
		pct = fund.CurrentBalance.Div(fund.TargetAmount).Mul(decimal.NewFromInt(100)).Round(1)
	}
	remaining := fund.TargetAmount.Sub(fund.CurrentBalance)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	milestone, needed := nextMilestone(fund)
	return &FundSummary{
		Fund:                fund,
		ProgressPct:         pct,
		Band:                fund.Band(),
		Remaining:           remaining,
		NextMilestone:       milestone,
		NextMilestoneNeeded: needed,
	}, nil
}

// Transactions returns one page of the fund's history, newest first.
func (s *FundService) Transactions(ctx context.Context, userID string, page, limit int) ([]models.FundTransaction, int, error) {
	fund, err := s.requireFund(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	txs, total, err := s.store.ListFundTransactions(ctx, fund.ID, page, limit)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return txs, total, nil
}

func (s *FundService) requireFund(ctx context.Context, userID string) (*models.EmergencyFund, error) {
	fund, err := s.store.GetFundByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if fund == nil {
		return nil, apperr.NotFound("no emergency fund set up")
	}
	return fund, nil
}

func (s *FundService) recordTx(ctx context.Context, fund *models.EmergencyFund, typ models.FundTxType, amount decimal.Decimal, note string) error {
	tx := &models.FundTransaction{
		ID:        uuid.New().String(),
		UserID:    fund.UserID,
		FundID:    fund.ID,
		Type:      typ,
		Amount:    amount,
		Note:      strings.TrimSpace(note),
		CreatedAt: s.now().Unix(),
	}
	if err := s.store.CreateFundTransaction(ctx, tx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// nextStreak computes the monthly contribution streak: a deposit in the
// month right after the last one extends it, another deposit in the same
// month keeps it, and a longer gap starts over at 1.
func nextStreak(fund *models.EmergencyFund, now time.Time) int {
	if fund.LastContributionAt == 0 {
		return 1
	}
	last := time.Unix(fund.LastContributionAt, 0).UTC()
	now = now.UTC()
	lastMonth := last.Year()*12 + int(last.Month())
	thisMonth := now.Year()*12 + int(now.Month())
	switch thisMonth - lastMonth {
	case 0:
		return fund.StreakCount
	case 1:
		return fund.StreakCount + 1
	default:
		return 1
	}
}

var milestones = []struct {
	pct   decimal.Decimal
	badge string
}{
	{decimal.NewFromFloat(0.1), BadgeTenth},
	{decimal.NewFromFloat(0.25), BadgeQuarter},
	{decimal.NewFromFloat(0.5), BadgeHalf},
	{decimal.NewFromFloat(0.75), BadgeThreeQuarter},
	{decimal.NewFromInt(1), BadgeGoalReached},
}

var coverageBadges = []struct {
	months int
	badge  string
}{
	{3, BadgeThreeMonths},
	{6, BadgeSixMonths},
	{12, BadgeTwelveMonths},
}

var streakBadges = []struct {
	count int
	badge string
}{
	{3, BadgeStreakThree},
	{6, BadgeStreakSix},
	{12, BadgeStreakTwelve},
}

func awardBadges(fund *models.EmergencyFund) {
	if fund.CurrentBalance.IsPositive() {
		fund.AddBadge(BadgeFirstDeposit)
	}
	for _, s := range streakBadges {
		if fund.StreakCount >= s.count {
			fund.AddBadge(s.badge)
		}
	}
	if !fund.TargetAmount.IsPositive() {
		return
	}
	pct := fund.CurrentBalance.Div(fund.TargetAmount)
	for _, m := range milestones {
		if pct.GreaterThanOrEqual(m.pct) {
			fund.AddBadge(m.badge)
		}
	}
	// A goal spanning TargetMonths months of essential spend covers N
	// months once the balance passes N/TargetMonths of the target.
	for _, c := range coverageBadges {
		if fund.TargetMonths < c.months {
			continue
		}
		covered := decimal.NewFromInt(int64(c.months)).Div(decimal.NewFromInt(int64(fund.TargetMonths)))
		if pct.GreaterThanOrEqual(covered) {
			fund.AddBadge(c.badge)
		}
	}
}

// nextMilestone finds the first progress milestone still ahead of the
// balance and the deposit that would cross it.
func nextMilestone(fund *models.EmergencyFund) (string, decimal.Decimal) {
	if !fund.TargetAmount.IsPositive() {
		return "", decimal.Zero
	}
	pct := fund.CurrentBalance.Div(fund.TargetAmount)
	for _, m := range milestones {
		if pct.LessThan(m.pct) {
			needed := fund.TargetAmount.Mul(m.pct).Sub(fund.CurrentBalance).RoundCeil(2)
			if needed.IsNegative() {
				needed = decimal.Zero
			}
			return m.badge, needed
		}
	}
	return "", decimal.Zero
}
