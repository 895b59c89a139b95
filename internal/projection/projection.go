package projection

import (
	"math"
	"time"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/settle"
)

// Projection is a future bankroll estimate over a number of months.
type Projection struct {
	Bankroll   float64 `json:"bankroll"`
	Profit     float64 `json:"profit"`
	Percentage float64 `json:"percentage"`
}

// Linear projects growth as the monthly goal times the number of months,
// without reinvestment.
func Linear(monthlyGoalPct float64, months int, bankroll float64) Projection {
	pct := monthlyGoalPct * float64(months)
	return fromPercentage(pct, bankroll)
}

// Compound projects growth with each month's gain reinvested.
func Compound(monthlyGoalPct float64, months int, bankroll float64) Projection {
	pct := (math.Pow(1+monthlyGoalPct/100, float64(months)) - 1) * 100
	return fromPercentage(pct, bankroll)
}

func fromPercentage(pct, bankroll float64) Projection {
	projected := bankroll * (1 + pct/100)
	return Projection{
		Bankroll:   projected,
		Profit:     projected - bankroll,
		Percentage: pct,
	}
}

// ROI is the aggregate betting result over settled bets.
type ROI struct {
	ROI           float64 `json:"roi"`
	ROIPercentage float64 `json:"roi_percentage"`
}

// BettingROI sums profit and stake over every non-pending bet. A zero
// total stake yields a zero percentage rather than an error.
func BettingROI(bets []ledger.Bet) ROI {
	var profit, staked float64
	for _, b := range bets {
		if b.Status == settle.StatusPending || b.Status == "" {
			continue
		}
		profit += b.Profit
		staked += b.Amount
	}

	out := ROI{ROI: profit}
	if staked > 0 {
		out.ROIPercentage = profit / staked * 100
	}
	return out
}

// Growth is bankroll growth attributable to betting performance alone.
type Growth struct {
	Growth           float64 `json:"growth"`
	GrowthPercentage float64 `json:"growth_percentage"`
}

// TotalGrowth nets cash movements out of the balance change so only
// betting performance remains. A zero initial bankroll yields a zero
// percentage.
func TotalGrowth(initial, current, deposits, withdrawals float64) Growth {
	growth := current - initial - deposits + withdrawals
	out := Growth{Growth: growth}
	if initial > 0 {
		out.GrowthPercentage = growth / initial * 100
	}
	return out
}

// monthStart returns the first instant of now's calendar month.
func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// BankrollAtMonthStart reconstructs the balance at the first instant of the
// current month by walking the ledger's sign conventions in reverse:
// deposits and applied bet profit dated this month are subtracted back out,
// withdrawals added back in.
func BankrollAtMonthStart(current float64, bets []ledger.Bet, txs []ledger.Transaction, now time.Time) float64 {
	start := monthStart(now)
	balance := current

	for _, b := range bets {
		if !b.ProfitApplied || b.SettledAt == nil {
			continue
		}
		if b.SettledAt.Before(start) || b.SettledAt.After(now) {
			continue
		}
		balance -= b.Profit
	}

	for _, tx := range txs {
		if tx.At.Before(start) || tx.At.After(now) {
			continue
		}
		if tx.Type == ledger.TypeDeposit {
			balance -= tx.Amount
		} else {
			balance += tx.Amount
		}
	}

	return balance
}

// Progress is the pace-adjusted standing against the monthly goal.
type Progress struct {
	CurrentProgressPercentage float64 `json:"current_progress_percentage"`
	IsOnTrack                 bool    `json:"is_on_track"`
	DaysElapsed               int     `json:"days_elapsed"`
	DaysInMonth               int     `json:"days_in_month"`
}

// MonthlyProgress compares growth since the month start against the goal
// scaled by the fraction of the month already elapsed, rather than the
// full target. A zero month-start base yields zero progress.
func MonthlyProgress(current, monthStartBankroll, goalPct float64, now time.Time) Progress {
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	p := Progress{
		DaysElapsed: now.Day(),
		DaysInMonth: daysInMonth,
	}

	if monthStartBankroll > 0 {
		p.CurrentProgressPercentage = (current - monthStartBankroll) / monthStartBankroll * 100
	}

	pace := goalPct * float64(p.DaysElapsed) / float64(p.DaysInMonth)
	p.IsOnTrack = p.CurrentProgressPercentage >= pace
	return p
}
