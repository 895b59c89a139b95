package service

import (
	"fmt"
	"time"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/money"
	"bankrollbot/internal/risk"
)

// Window is the period a stop threshold applies to.
type Window string

const (
	WindowDaily   Window = "DAILY"
	WindowWeekly  Window = "WEEKLY"
	WindowMonthly Window = "MONTHLY"
)

// AlertKind says which side of a stop pair fired.
type AlertKind string

const (
	AlertStopLoss AlertKind = "STOP_LOSS"
	AlertStopGain AlertKind = "STOP_GAIN"
)

// Alert reports a crossed stop threshold. Advisory only: the ledger keeps
// accepting operations, the user decides whether to stop.
type Alert struct {
	Window    Window      `json:"window"`
	Kind      AlertKind   `json:"kind"`
	Threshold money.Value `json:"threshold"`
	Limit     float64     `json:"limit"`
	NetProfit float64     `json:"net_profit"`
}

func (a Alert) String() string {
	verb := "down"
	if a.Kind == AlertStopGain {
		verb = "up"
	}
	return fmt.Sprintf("%s %s hit: %s %.2f against a limit of %.2f",
		a.Window, a.Kind, verb, a.NetProfit, a.Limit)
}

// AlertService evaluates the configured stop-loss/stop-gain thresholds
// against betting results in the daily, weekly and monthly windows.
type AlertService struct {
	ledger *ledger.Ledger
}

// NewAlertService creates a new alert service over the ledger.
func NewAlertService(l *ledger.Ledger) *AlertService {
	return &AlertService{ledger: l}
}

// windowStart returns the first instant of the window containing now.
func windowStart(w Window, now time.Time) time.Time {
	switch w {
	case WindowWeekly:
		// ISO week: back to Monday 00:00
		offset := (int(now.Weekday()) + 6) % 7
		day := now.AddDate(0, 0, -offset)
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	case WindowMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
}

// netProfit sums applied bet profit settled inside [start, now]. Cash
// movements are not performance, so deposits and withdrawals stay out.
func (s *AlertService) netProfit(start, now time.Time) float64 {
	var total float64
	for _, b := range s.ledger.Bets() {
		if !b.ProfitApplied || b.SettledAt == nil {
			continue
		}
		if b.SettledAt.Before(start) || b.SettledAt.After(now) {
			continue
		}
		total += b.Profit
	}
	return total
}

// baseBankroll reconstructs the bankroll at the window start, so
// percentage thresholds are read against the base the window opened with.
func (s *AlertService) baseBankroll(start, now time.Time) float64 {
	balance := s.ledger.CurrentBankroll()
	balance -= s.netProfit(start, now)
	for _, tx := range s.ledger.Transactions() {
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

// Evaluate checks all six stops and returns the ones that have been
// crossed as of now. Unset thresholds (zero amount) never fire.
func (s *AlertService) Evaluate(now time.Time) []Alert {
	thresholds := s.ledger.Thresholds()

	pairs := []struct {
		window Window
		loss   risk.Field
		gain   risk.Field
	}{
		{WindowDaily, risk.FieldDailyLoss, risk.FieldDailyGain},
		{WindowWeekly, risk.FieldWeeklyLoss, risk.FieldWeeklyGain},
		{WindowMonthly, risk.FieldMonthlyLoss, risk.FieldMonthlyGain},
	}

	var alerts []Alert
	for _, pair := range pairs {
		start := windowStart(pair.window, now)
		net := s.netProfit(start, now)
		base := s.baseBankroll(start, now)

		// A percentage stop against a zero or negative base converts to a
		// zero or negative limit, which would fire on any result. Treat it
		// as unset until the base is positive again.
		loss, _ := thresholds.Get(pair.loss)
		if loss.Amount > 0 && (loss.Mode == money.ModeCurrency || base > 0) {
			if limit := money.Convert(loss.Amount, loss.Mode, money.ModeCurrency, base); net <= -limit {
				alerts = append(alerts, Alert{
					Window: pair.window, Kind: AlertStopLoss,
					Threshold: loss, Limit: limit, NetProfit: net,
				})
			}
		}

		gain, _ := thresholds.Get(pair.gain)
		if gain.Amount > 0 && (gain.Mode == money.ModeCurrency || base > 0) {
			if limit := money.Convert(gain.Amount, gain.Mode, money.ModeCurrency, base); net >= limit {
				alerts = append(alerts, Alert{
					Window: pair.window, Kind: AlertStopGain,
					Threshold: gain, Limit: limit, NetProfit: net,
				})
			}
		}
	}
	return alerts
}
