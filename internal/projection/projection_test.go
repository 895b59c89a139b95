package projection

import (
	"math"
	"testing"
	"time"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/settle"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestLinearProjection(t *testing.T) {
	p := Linear(5, 6, 1000)

	if p.Percentage != 30 {
		t.Errorf("Expected 30%%, got %f", p.Percentage)
	}
	if !almostEqual(p.Bankroll, 1300, 1e-9) {
		t.Errorf("Expected bankroll 1300, got %f", p.Bankroll)
	}
	if !almostEqual(p.Profit, 300, 1e-9) {
		t.Errorf("Expected profit 300, got %f", p.Profit)
	}
}

func TestCompoundProjection(t *testing.T) {
	p := Compound(5, 6, 1000)

	// (1.05^6 - 1) * 100 ≈ 34.0096
	if !almostEqual(p.Percentage, 34.0096, 0.001) {
		t.Errorf("Expected ~34.01%%, got %f", p.Percentage)
	}
	if !almostEqual(p.Bankroll, 1340.096, 0.01) {
		t.Errorf("Expected bankroll ~1340.10, got %f", p.Bankroll)
	}
}

func TestCompoundExceedsLinearForPositiveGoals(t *testing.T) {
	lin := Linear(5, 6, 1000)
	comp := Compound(5, 6, 1000)
	if comp.Percentage <= lin.Percentage {
		t.Errorf("Compound (%f) should exceed linear (%f)", comp.Percentage, lin.Percentage)
	}
}

func TestBettingROI(t *testing.T) {
	bets := []ledger.Bet{
		{Amount: 100, Profit: 100, Status: settle.StatusWon},
		{Amount: 50, Profit: -50, Status: settle.StatusLost},
		{Amount: 200, Profit: 0, Status: settle.StatusPending}, // ignored
	}

	roi := BettingROI(bets)
	if !almostEqual(roi.ROI, 50, 1e-9) {
		t.Errorf("Expected ROI 50, got %f", roi.ROI)
	}
	// 50 profit over 150 staked
	if !almostEqual(roi.ROIPercentage, 100.0/3, 1e-9) {
		t.Errorf("Expected ~33.33%%, got %f", roi.ROIPercentage)
	}
}

func TestBettingROIZeroStake(t *testing.T) {
	roi := BettingROI(nil)
	if roi.ROI != 0 || roi.ROIPercentage != 0 {
		t.Errorf("Expected zero ROI for no bets, got %+v", roi)
	}
}

func TestTotalGrowth(t *testing.T) {
	// Started at 1000, deposited 500, withdrew 200, now at 1500:
	// betting alone earned 1500 - 1000 - 500 + 200 = 200
	g := TotalGrowth(1000, 1500, 500, 200)
	if !almostEqual(g.Growth, 200, 1e-9) {
		t.Errorf("Expected growth 200, got %f", g.Growth)
	}
	if !almostEqual(g.GrowthPercentage, 20, 1e-9) {
		t.Errorf("Expected 20%%, got %f", g.GrowthPercentage)
	}
}

func TestTotalGrowthZeroInitial(t *testing.T) {
	g := TotalGrowth(0, 500, 500, 0)
	if g.GrowthPercentage != 0 {
		t.Errorf("Expected 0%% for zero initial, got %f", g.GrowthPercentage)
	}
}

func TestBankrollAtMonthStart(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)

	bets := []ledger.Bet{
		{Profit: 100, ProfitApplied: true, SettledAt: &thisMonth},
		{Profit: 500, ProfitApplied: true, SettledAt: &lastMonth}, // outside window
		{Profit: 999, ProfitApplied: false},                      // never applied
	}
	txs := []ledger.Transaction{
		{Type: ledger.TypeDeposit, Amount: 200, At: thisMonth},
		{Type: ledger.TypeWithdrawal, Amount: 50, At: thisMonth},
		{Type: ledger.TypeDeposit, Amount: 1000, At: lastMonth}, // outside window
	}

	// current = start + 100 + 200 - 50, so start = current - 250
	got := BankrollAtMonthStart(1250, bets, txs, now)
	if !almostEqual(got, 1000, 1e-9) {
		t.Errorf("Expected 1000, got %f", got)
	}
}

func TestMonthlyProgressPace(t *testing.T) {
	// June has 30 days; the 15th means half the month has elapsed, so a
	// 10% goal pace-adjusts to 5%.
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	behind := MonthlyProgress(1040, 1000, 10, now)
	if behind.DaysElapsed != 15 || behind.DaysInMonth != 30 {
		t.Fatalf("Bad day math: %d/%d", behind.DaysElapsed, behind.DaysInMonth)
	}
	if !almostEqual(behind.CurrentProgressPercentage, 4, 1e-9) {
		t.Errorf("Expected 4%%, got %f", behind.CurrentProgressPercentage)
	}
	if behind.IsOnTrack {
		t.Error("4%% against a 5%% pace should be off track")
	}

	ahead := MonthlyProgress(1060, 1000, 10, now)
	if !ahead.IsOnTrack {
		t.Error("6%% against a 5%% pace should be on track")
	}
}

func TestMonthlyProgressZeroBase(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	p := MonthlyProgress(500, 0, 10, now)
	if p.CurrentProgressPercentage != 0 {
		t.Errorf("Expected 0 progress for zero base, got %f", p.CurrentProgressPercentage)
	}
}
