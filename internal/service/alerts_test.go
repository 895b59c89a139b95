package service

import (
	"strings"
	"testing"
	"time"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/money"
	"bankrollbot/internal/risk"
	"bankrollbot/internal/settle"
	"bankrollbot/internal/storage"
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	l, err := ledger.New(storage.NewMemStore())
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}
	return l
}

func loseBet(t *testing.T, l *ledger.Ledger, stake float64) {
	t.Helper()
	_, err := l.AddBet("loss", []settle.Leg{
		{Amount: stake, Odds: 2.0, Status: settle.StatusLost},
	}, time.Now())
	if err != nil {
		t.Fatalf("AddBet failed: %v", err)
	}
}

func TestEvaluateNoThresholdsNoAlerts(t *testing.T) {
	l := newTestLedger(t)
	l.SetInitialBankroll(1000)
	loseBet(t, l, 500)

	alerts := NewAlertService(l).Evaluate(time.Now())
	if len(alerts) != 0 {
		t.Errorf("Unset thresholds fired: %+v", alerts)
	}
}

func TestEvaluateDailyStopLossCurrency(t *testing.T) {
	l := newTestLedger(t)
	l.SetInitialBankroll(1000)
	l.SetThreshold(risk.FieldDailyLoss, money.Value{Mode: money.ModeCurrency, Amount: 100})

	loseBet(t, l, 150)

	alerts := NewAlertService(l).Evaluate(time.Now())
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Window != WindowDaily || a.Kind != AlertStopLoss {
		t.Errorf("Wrong alert: %+v", a)
	}
	if a.NetProfit != -150 {
		t.Errorf("Expected net -150, got %f", a.NetProfit)
	}
	if !strings.Contains(a.String(), "STOP_LOSS") {
		t.Errorf("Alert text missing kind: %s", a.String())
	}
}

func TestEvaluateStopLossNotCrossed(t *testing.T) {
	l := newTestLedger(t)
	l.SetInitialBankroll(1000)
	l.SetThreshold(risk.FieldDailyLoss, money.Value{Mode: money.ModeCurrency, Amount: 100})

	loseBet(t, l, 50)

	alerts := NewAlertService(l).Evaluate(time.Now())
	if len(alerts) != 0 {
		t.Errorf("Expected no alerts for a 50 loss against a 100 stop, got %+v", alerts)
	}
}

func TestEvaluatePercentageThresholdUsesWindowBase(t *testing.T) {
	l := newTestLedger(t)
	l.SetInitialBankroll(1000)
	// Stop when down 10% of the bankroll the window opened with
	l.SetThreshold(risk.FieldDailyLoss, money.Value{Mode: money.ModePercentage, Amount: 10})

	// Down 120 from a 1000 base: 10% limit = 100, crossed
	loseBet(t, l, 120)

	alerts := NewAlertService(l).Evaluate(time.Now())
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Limit != 100 {
		t.Errorf("Expected limit 100 from the window-start base, got %f", alerts[0].Limit)
	}
}

func TestEvaluateStopGain(t *testing.T) {
	l := newTestLedger(t)
	l.SetInitialBankroll(1000)
	l.SetThreshold(risk.FieldDailyGain, money.Value{Mode: money.ModeCurrency, Amount: 200})

	if _, err := l.AddBet("win", []settle.Leg{
		{Amount: 100, Odds: 4.0, Status: settle.StatusWon},
	}, time.Now()); err != nil {
		t.Fatalf("AddBet failed: %v", err)
	}

	alerts := NewAlertService(l).Evaluate(time.Now())
	if len(alerts) != 1 || alerts[0].Kind != AlertStopGain {
		t.Fatalf("Expected one stop-gain alert, got %+v", alerts)
	}
}

func TestEvaluateWeeklyAndMonthlyWindowsCatchSameLoss(t *testing.T) {
	l := newTestLedger(t)
	l.SetInitialBankroll(1000)
	l.SetThreshold(risk.FieldWeeklyLoss, money.Value{Mode: money.ModeCurrency, Amount: 100})
	l.SetThreshold(risk.FieldMonthlyLoss, money.Value{Mode: money.ModeCurrency, Amount: 100})

	loseBet(t, l, 150)

	alerts := NewAlertService(l).Evaluate(time.Now())
	if len(alerts) != 2 {
		t.Fatalf("Expected weekly and monthly alerts, got %+v", alerts)
	}
}

func TestWindowStart(t *testing.T) {
	// Wednesday 2026-08-19
	now := time.Date(2026, 8, 19, 15, 30, 0, 0, time.UTC)

	daily := windowStart(WindowDaily, now)
	if daily != time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Bad daily start: %v", daily)
	}
	weekly := windowStart(WindowWeekly, now)
	if weekly != time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Bad weekly start (expected Monday): %v", weekly)
	}
	monthly := windowStart(WindowMonthly, now)
	if monthly != time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Bad monthly start: %v", monthly)
	}

	// Sunday belongs to the week that started the previous Monday
	sunday := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	if got := windowStart(WindowWeekly, sunday); got != time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Bad weekly start for Sunday: %v", got)
	}
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(text string) error {
	r.messages = append(r.messages, text)
	return nil
}

func TestReporterDailyCheckSendsOnlyWhenCrossed(t *testing.T) {
	l := newTestLedger(t)
	l.SetInitialBankroll(1000)
	l.SetThreshold(risk.FieldDailyLoss, money.Value{Mode: money.ModeCurrency, Amount: 100})

	n := &recordingNotifier{}
	r := NewReporter(l, NewAlertService(l), n)

	r.DailyCheck()
	if len(n.messages) != 0 {
		t.Errorf("Expected no message before a loss, got %v", n.messages)
	}

	loseBet(t, l, 150)
	r.DailyCheck()
	if len(n.messages) != 1 || !strings.Contains(n.messages[0], "STOP_LOSS") {
		t.Errorf("Expected a stop-loss message, got %v", n.messages)
	}
}

func TestReporterWeeklyReport(t *testing.T) {
	l := newTestLedger(t)
	l.SetInitialBankroll(1000)
	l.SetTarget(ledger.TargetPercentage, 10, 0)

	n := &recordingNotifier{}
	r := NewReporter(l, NewAlertService(l), n)

	r.WeeklyReport()
	if len(n.messages) != 1 || !strings.Contains(n.messages[0], "Bankroll") {
		t.Errorf("Expected a weekly report, got %v", n.messages)
	}
}

func TestReporterRegisterBadSpec(t *testing.T) {
	l := newTestLedger(t)
	r := NewReporter(l, NewAlertService(l), nil)
	if err := r.Register("not a cron spec", "0 9 * * 1", "0 9 1 * *"); err == nil {
		t.Error("Expected error for invalid cron spec")
	}
	if err := r.Register("0 22 * * *", "0 9 * * 1", "0 9 1 * *"); err != nil {
		t.Errorf("Valid specs rejected: %v", err)
	}
}

func TestEvaluatePercentageStopSkippedOnZeroBase(t *testing.T) {
	l := newTestLedger(t)
	// The whole bankroll arrived today, so the daily window opened at 0
	if _, err := l.Record(ledger.TypeDeposit, 100, time.Now(), "seed", ""); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	l.SetThreshold(risk.FieldDailyLoss, money.Value{Mode: money.ModePercentage, Amount: 10})
	l.SetThreshold(risk.FieldDailyGain, money.Value{Mode: money.ModePercentage, Amount: 10})

	loseBet(t, l, 50)

	alerts := NewAlertService(l).Evaluate(time.Now())
	for _, a := range alerts {
		if a.Window == WindowDaily {
			t.Errorf("Percentage stop fired against a zero base: %+v", a)
		}
	}
}

func TestEvaluateCurrencyStopStillFiresOnZeroBase(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Record(ledger.TypeDeposit, 100, time.Now(), "seed", ""); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	l.SetThreshold(risk.FieldDailyLoss, money.Value{Mode: money.ModeCurrency, Amount: 40})

	loseBet(t, l, 50)

	alerts := NewAlertService(l).Evaluate(time.Now())
	found := false
	for _, a := range alerts {
		if a.Window == WindowDaily && a.Kind == AlertStopLoss {
			found = true
		}
	}
	if !found {
		t.Error("Currency stop should fire regardless of the window base")
	}
}
