package money

import (
	"math"
	"testing"
)

func TestConvertSameMode(t *testing.T) {
	if got := Convert(42.5, ModeCurrency, ModeCurrency, 1000); got != 42.5 {
		t.Errorf("Expected identity conversion, got %f", got)
	}
	if got := Convert(5, ModePercentage, ModePercentage, 0); got != 5 {
		t.Errorf("Expected identity conversion, got %f", got)
	}
}

func TestConvertCurrencyToPercentage(t *testing.T) {
	// 50 out of a 1000 bankroll is 5%
	if got := Convert(50, ModeCurrency, ModePercentage, 1000); got != 5 {
		t.Errorf("Expected 5, got %f", got)
	}
}

func TestConvertPercentageToCurrency(t *testing.T) {
	// 5% of a 1000 bankroll is 50
	if got := Convert(5, ModePercentage, ModeCurrency, 1000); got != 50 {
		t.Errorf("Expected 50, got %f", got)
	}
}

func TestConvertZeroBankroll(t *testing.T) {
	if got := Convert(50, ModeCurrency, ModePercentage, 0); got != 0 {
		t.Errorf("Expected 0 for zero bankroll, got %f", got)
	}
	if got := Convert(50, ModeCurrency, ModePercentage, -10); got != 0 {
		t.Errorf("Expected 0 for negative bankroll, got %f", got)
	}
	// Percentage to currency of an empty bankroll is simply 0
	if got := Convert(5, ModePercentage, ModeCurrency, 0); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	values := []float64{0, 0.01, 1, 33.33, 250, 99999.99}
	bankrolls := []float64{0.5, 1, 137.42, 1000, 250000}

	for _, v := range values {
		for _, bank := range bankrolls {
			back := Convert(Convert(v, ModeCurrency, ModePercentage, bank), ModePercentage, ModeCurrency, bank)
			if math.Abs(back-v) > 1e-9 {
				t.Errorf("Round trip of %f through bankroll %f gave %f", v, bank, back)
			}
		}
	}
}

func TestConvertValueKeepsTag(t *testing.T) {
	v := Value{Mode: ModeCurrency, Amount: 50}
	got := ConvertValue(v, ModePercentage, 1000)
	if got.Mode != ModePercentage {
		t.Errorf("Expected mode %s, got %s", ModePercentage, got.Mode)
	}
	if got.Amount != 5 {
		t.Errorf("Expected amount 5, got %f", got.Amount)
	}
}
