package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hallmate/internal/apperr"
	"hallmate/internal/models"
)

func TestFundSetupByAmount(t *testing.T) {
	ts := newTestServices(t)

	fund, err := ts.fund.Setup(context.Background(), "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("1200.00"),
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if got := fund.TargetAmount.StringFixed(2); got != "1200.00" {
		t.Errorf("target: expected 1200.00, got %s", got)
	}
	if fund.TargetMonths != 6 {
		t.Errorf("months default: expected 6, got %d", fund.TargetMonths)
	}
	// 1200 over the default 6-month horizon.
	if got := fund.MonthlyPlan.StringFixed(2); got != "200.00" {
		t.Errorf("monthly plan: expected 200.00, got %s", got)
	}
}

func TestFundSetupByMonths(t *testing.T) {
	ts := newTestServices(t)

	fund, err := ts.fund.Setup(context.Background(), "user-1", FundSetupInput{
		Method:           "months",
		TargetMonths:     3,
		EssentialMonthly: decimal.RequireFromString("450.50"),
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if got := fund.TargetAmount.StringFixed(2); got != "1351.50" {
		t.Errorf("target: expected 1351.50, got %s", got)
	}

	_, err = ts.fund.Setup(context.Background(), "user-2", FundSetupInput{Method: "months"})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected invalid input without essential spend, got %v", err)
	}
}

func TestFundSetupPreservesBalance(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("1000.00"),
	}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if _, err := ts.fund.Contribute(ctx, "user-1", FundTxInput{
		Amount: decimal.RequireFromString("300.00"),
	}); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	fund, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("2000.00"),
	})
	if err != nil {
		t.Fatalf("re-Setup failed: %v", err)
	}
	if got := fund.CurrentBalance.StringFixed(2); got != "300.00" {
		t.Errorf("balance must survive re-setup: expected 300.00, got %s", got)
	}
}

func TestContributeBadges(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("100.00"),
	}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	fund, err := ts.fund.Contribute(ctx, "user-1", FundTxInput{
		Amount: decimal.RequireFromString("50.00"),
	})
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	for _, badge := range []string{BadgeFirstDeposit, BadgeTenth, BadgeQuarter, BadgeHalf} {
		if !fund.HasBadge(badge) {
			t.Errorf("expected badge %s at 50%%", badge)
		}
	}
	if fund.HasBadge(BadgeGoalReached) {
		t.Error("goal badge awarded too early")
	}

	fund, err = ts.fund.Contribute(ctx, "user-1", FundTxInput{
		Amount: decimal.RequireFromString("50.00"),
	})
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if !fund.HasBadge(BadgeGoalReached) {
		t.Error("expected goal badge at 100%")
	}
}

func TestContributeStreak(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("1000.00"),
	}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	clock := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	ts.fund.now = func() time.Time { return clock }

	deposit := func() int {
		t.Helper()
		fund, err := ts.fund.Contribute(ctx, "user-1", FundTxInput{Amount: decimal.NewFromInt(10)})
		if err != nil {
			t.Fatalf("Contribute failed: %v", err)
		}
		return fund.StreakCount
	}

	if got := deposit(); got != 1 {
		t.Errorf("first deposit: expected streak 1, got %d", got)
	}

	// Same month keeps the streak.
	clock = clock.AddDate(0, 0, 5)
	if got := deposit(); got != 1 {
		t.Errorf("same month: expected streak 1, got %d", got)
	}

	// Next month extends it.
	clock = clock.AddDate(0, 1, 0)
	if got := deposit(); got != 2 {
		t.Errorf("next month: expected streak 2, got %d", got)
	}

	// A gap resets it.
	clock = clock.AddDate(0, 3, 0)
	if got := deposit(); got != 1 {
		t.Errorf("after gap: expected streak 1, got %d", got)
	}
}

func TestMonthlyPlanRoundsUp(t *testing.T) {
	ts := newTestServices(t)

	fund, err := ts.fund.Setup(context.Background(), "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("100.00"),
		TargetMonths: 3,
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	// 100/3 rounds up to the cent; three plan payments cover the target.
	if got := fund.MonthlyPlan.StringFixed(2); got != "33.34" {
		t.Errorf("monthly plan: expected 33.34, got %s", got)
	}
}

func TestContributeCoverageBadges(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	// Six months of 100.00 essential spend.
	if _, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		Method:           "months",
		TargetMonths:     6,
		EssentialMonthly: decimal.RequireFromString("100.00"),
	}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	fund, err := ts.fund.Contribute(ctx, "user-1", FundTxInput{
		Amount: decimal.RequireFromString("300.00"),
	})
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if !fund.HasBadge(BadgeThreeMonths) {
		t.Error("expected three-months badge at half a six-month goal")
	}
	if fund.HasBadge(BadgeSixMonths) {
		t.Error("six-months badge awarded too early")
	}

	fund, err = ts.fund.Contribute(ctx, "user-1", FundTxInput{
		Amount: decimal.RequireFromString("300.00"),
	})
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if !fund.HasBadge(BadgeSixMonths) {
		t.Error("expected six-months badge at the full goal")
	}
	// A six-month goal can never certify a year of cover.
	if fund.HasBadge(BadgeTwelveMonths) {
		t.Error("twelve-months badge awarded on a six-month goal")
	}
}

func TestContributeStreakBadges(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("10000.00"),
	}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	clock := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	ts.fund.now = func() time.Time { return clock }

	var fund *models.EmergencyFund
	for i := 0; i < 3; i++ {
		var err error
		fund, err = ts.fund.Contribute(ctx, "user-1", FundTxInput{Amount: decimal.NewFromInt(10)})
		if err != nil {
			t.Fatalf("Contribute failed: %v", err)
		}
		clock = clock.AddDate(0, 1, 0)
	}
	if !fund.HasBadge(BadgeStreakThree) {
		t.Error("expected streak-3 badge after three consecutive months")
	}
	if fund.HasBadge(BadgeStreakSix) {
		t.Error("streak-6 badge awarded too early")
	}
}

func TestFundSetupInfersEssentialSpend(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	now := time.Now()

	// Three months of essential rent plus a non-essential entry that must
	// not count toward the average.
	for i := 0; i < 3; i++ {
		if err := ts.store.CreatePersonalExpense(ctx, &models.PersonalExpense{
			UserID:    "user-1",
			Category:  "rent",
			Amount:    decimal.RequireFromString("300.00"),
			Essential: true,
			Date:      now.AddDate(0, -i, 0).Unix(),
		}); err != nil {
			t.Fatalf("CreatePersonalExpense failed: %v", err)
		}
	}
	if err := ts.store.CreatePersonalExpense(ctx, &models.PersonalExpense{
		UserID:   "user-1",
		Category: "concert",
		Amount:   decimal.RequireFromString("500.00"),
		Date:     now.Unix(),
	}); err != nil {
		t.Fatalf("CreatePersonalExpense failed: %v", err)
	}

	fund, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		Method:       "months",
		TargetMonths: 3,
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	// Average essential spend is 900/3 = 300 a month; three months of cover.
	if got := fund.TargetAmount.StringFixed(2); got != "900.00" {
		t.Errorf("target: expected 900.00, got %s", got)
	}
}

func TestFundSummaryNextMilestone(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("100.00"),
	}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if _, err := ts.fund.Contribute(ctx, "user-1", FundTxInput{
		Amount: decimal.RequireFromString("30.00"),
	}); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	summary, err := ts.fund.Summary(ctx, "user-1")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.NextMilestone != BadgeHalf {
		t.Errorf("next milestone: expected %s, got %s", BadgeHalf, summary.NextMilestone)
	}
	if got := summary.NextMilestoneNeeded.StringFixed(2); got != "20.00" {
		t.Errorf("needed: expected 20.00, got %s", got)
	}
}

func TestWithdrawRejectsOverdraw(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("500.00"),
	}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if _, err := ts.fund.Contribute(ctx, "user-1", FundTxInput{
		Amount: decimal.RequireFromString("100.00"),
	}); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	_, err := ts.fund.Withdraw(ctx, "user-1", FundTxInput{
		Amount: decimal.RequireFromString("100.01"),
	})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input for overdraw, got %v", err)
	}

	fund, err := ts.fund.Withdraw(ctx, "user-1", FundTxInput{
		Amount: decimal.RequireFromString("40.00"),
	})
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if got := fund.CurrentBalance.StringFixed(2); got != "60.00" {
		t.Errorf("balance: expected 60.00, got %s", got)
	}
}

func TestFundTransactionsPaginated(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.fund.Setup(ctx, "user-1", FundSetupInput{
		TargetAmount: decimal.RequireFromString("1000.00"),
	}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := ts.fund.Contribute(ctx, "user-1", FundTxInput{
			Amount: decimal.NewFromInt(int64(i + 1)),
		}); err != nil {
			t.Fatalf("Contribute failed: %v", err)
		}
	}

	txs, total, err := ts.fund.Transactions(ctx, "user-1", 1, 2)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total: expected 5, got %d", total)
	}
	if len(txs) != 2 {
		t.Errorf("page size: expected 2, got %d", len(txs))
	}

	txs, _, err = ts.fund.Transactions(ctx, "user-1", 3, 2)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("last page: expected 1, got %d", len(txs))
	}
}

func TestFundSummaryNoFund(t *testing.T) {
	ts := newTestServices(t)

	_, err := ts.fund.Summary(context.Background(), "nobody")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
