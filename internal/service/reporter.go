package service

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/logger"
	"bankrollbot/internal/projection"
)

// Notifier delivers a message to the owner. The Telegram bot implements
// this; tests substitute a recorder.
type Notifier interface {
	Notify(text string) error
}

// Reporter runs the scheduled summaries: a daily check that also carries
// any crossed stop alerts, a weekly standing report, and a monthly recap.
type Reporter struct {
	cron     *cron.Cron
	ledger   *ledger.Ledger
	alerts   *AlertService
	notifier Notifier
}

// NewReporter creates a reporter; Register wires it to cron specs.
func NewReporter(l *ledger.Ledger, alerts *AlertService, n Notifier) *Reporter {
	return &Reporter{
		cron:     cron.New(),
		ledger:   l,
		alerts:   alerts,
		notifier: n,
	}
}

// Register adds the daily, weekly and monthly jobs.
func (r *Reporter) Register(dailyCron, weeklyCron, monthlyCron string) error {
	if _, err := r.cron.AddFunc(dailyCron, r.DailyCheck); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := r.cron.AddFunc(weeklyCron, r.WeeklyReport); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	if _, err := r.cron.AddFunc(monthlyCron, r.MonthlyReport); err != nil {
		return fmt.Errorf("register monthly task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (r *Reporter) Start() {
	r.cron.Start()
	logger.Debug("reporter_started", "")
}

// Stop stops the cron scheduler.
func (r *Reporter) Stop() {
	r.cron.Stop()
	logger.Debug("reporter_stopped", "")
}

// DailyCheck sends crossed stop alerts, if any.
func (r *Reporter) DailyCheck() {
	alerts := r.alerts.Evaluate(time.Now())
	if len(alerts) == 0 {
		return
	}
	text := "⚠️ Stop thresholds crossed:\n"
	for _, a := range alerts {
		text += "• " + a.String() + "\n"
	}
	r.trySend(text)
}

// WeeklyReport sends the current bankroll and monthly pace standing.
func (r *Reporter) WeeklyReport() {
	now := time.Now()
	current := r.ledger.CurrentBankroll()
	monthStart := projection.BankrollAtMonthStart(current, r.ledger.Bets(), r.ledger.Transactions(), now)
	progress := projection.MonthlyProgress(current, monthStart, r.ledger.MonthlyGoalPct(), now)

	pace := "behind pace"
	if progress.IsOnTrack {
		pace = "on track"
	}
	text := fmt.Sprintf("📊 Weekly report\n\nBankroll: %.2f\nMonth so far: %+.2f%% (%s, day %d of %d)",
		current, progress.CurrentProgressPercentage, pace, progress.DaysElapsed, progress.DaysInMonth)
	r.trySend(text)
}

// MonthlyReport sends the betting result summary for the books.
func (r *Reporter) MonthlyReport() {
	state := r.ledger.State()
	var deposits, withdrawals float64
	for _, tx := range r.ledger.Transactions() {
		if tx.Type == ledger.TypeDeposit {
			deposits += tx.Amount
		} else {
			withdrawals += tx.Amount
		}
	}
	roi := projection.BettingROI(r.ledger.Bets())
	growth := projection.TotalGrowth(state.InitialBankroll, state.CurrentBankroll, deposits, withdrawals)

	text := fmt.Sprintf("📅 Monthly recap\n\nBankroll: %.2f\nBetting ROI: %+.2f (%.2f%%)\nTotal growth: %+.2f (%.2f%%)",
		state.CurrentBankroll, roi.ROI, roi.ROIPercentage, growth.Growth, growth.GrowthPercentage)
	r.trySend(text)
}

func (r *Reporter) trySend(text string) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(text); err != nil {
		logger.Error("reporter_send", err)
	}
}
