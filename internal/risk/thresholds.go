package risk

import (
	"fmt"

	"bankrollbot/internal/money"
)

// Field names one of the six stop-loss/stop-gain slots.
type Field string

const (
	FieldDailyLoss   Field = "daily_loss"
	FieldDailyGain   Field = "daily_gain"
	FieldWeeklyLoss  Field = "weekly_loss"
	FieldWeeklyGain  Field = "weekly_gain"
	FieldMonthlyLoss Field = "monthly_loss"
	FieldMonthlyGain Field = "monthly_gain"
)

// Thresholds holds the six stop pairs. Each value carries its own unit
// tag; a zero amount means the stop is not configured.
type Thresholds struct {
	DailyLoss   money.Value `json:"daily_loss"`
	DailyGain   money.Value `json:"daily_gain"`
	WeeklyLoss  money.Value `json:"weekly_loss"`
	WeeklyGain  money.Value `json:"weekly_gain"`
	MonthlyLoss money.Value `json:"monthly_loss"`
	MonthlyGain money.Value `json:"monthly_gain"`
}

// Default returns all six stops unset, tagged as currency.
func Default() Thresholds {
	zero := money.Value{Mode: money.ModeCurrency}
	return Thresholds{
		DailyLoss:   zero,
		DailyGain:   zero,
		WeeklyLoss:  zero,
		WeeklyGain:  zero,
		MonthlyLoss: zero,
		MonthlyGain: zero,
	}
}

func (t *Thresholds) slot(f Field) (*money.Value, error) {
	switch f {
	case FieldDailyLoss:
		return &t.DailyLoss, nil
	case FieldDailyGain:
		return &t.DailyGain, nil
	case FieldWeeklyLoss:
		return &t.WeeklyLoss, nil
	case FieldWeeklyGain:
		return &t.WeeklyGain, nil
	case FieldMonthlyLoss:
		return &t.MonthlyLoss, nil
	case FieldMonthlyGain:
		return &t.MonthlyGain, nil
	default:
		return nil, fmt.Errorf("unknown threshold field: %s", f)
	}
}

// Get returns the tagged value for a field.
func (t *Thresholds) Get(f Field) (money.Value, error) {
	slot, err := t.slot(f)
	if err != nil {
		return money.Value{}, err
	}
	return *slot, nil
}

// Set stores a tagged value for a field.
func (t *Thresholds) Set(f Field, v money.Value) error {
	slot, err := t.slot(f)
	if err != nil {
		return err
	}
	*slot = v
	return nil
}

// SetMode re-tags a field, converting the stored number against the
// bankroll at the moment of the switch so the fraction of bankroll the
// stop represents is preserved even though the displayed number changes.
func (t *Thresholds) SetMode(f Field, mode money.Mode, bankroll float64) error {
	slot, err := t.slot(f)
	if err != nil {
		return err
	}
	*slot = money.ConvertValue(*slot, mode, bankroll)
	return nil
}
