package money

// Mode says how a stored number is meant to be read: as an absolute
// currency amount or as a percentage of the current bankroll.
type Mode string

const (
	ModeCurrency   Mode = "CURRENCY"
	ModePercentage Mode = "PERCENTAGE"
)

// Value is a number tagged with its unit. Keeping the tag on the value
// itself (instead of a sibling mode flag) means the two can never drift
// apart when a threshold is re-tagged.
type Value struct {
	Mode   Mode    `json:"mode"`
	Amount float64 `json:"amount"`
}

// Convert re-expresses value between currency and percentage-of-bankroll
// against the given bankroll. Same-mode conversion is the identity. A zero
// or negative bankroll is a legitimate degenerate state, so the
// currency-to-percentage direction yields 0 instead of failing.
// Full precision is returned; display rounding is the caller's concern.
func Convert(value float64, from, to Mode, bankroll float64) float64 {
	if from == to {
		return value
	}
	if to == ModePercentage {
		if bankroll <= 0 {
			return 0
		}
		return value / bankroll * 100
	}
	return value / 100 * bankroll
}

// ConvertValue is Convert lifted onto the tagged representation.
func ConvertValue(v Value, to Mode, bankroll float64) Value {
	return Value{Mode: to, Amount: Convert(v.Amount, v.Mode, to, bankroll)}
}
