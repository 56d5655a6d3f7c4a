package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConverter_ToGBP(t *testing.T) {
	conv := NewConverter(nil)

	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"USD conversion", "10.00", "USD", "8.2"},
		{"EUR conversion", "10.00", "EUR", "8.6"},
		{"GBP identity", "10.00", "GBP", "10"},
		{"unknown currency passes through", "10.00", "JPY", "10"},
		{"rounds to two places once", "19.99", "USD", "16.39"}, // 16.3918
		{"zero", "0", "USD", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got := conv.ToGBP(amount, tt.currency)
			if got.String() != tt.want {
				t.Errorf("ToGBP(%s, %s) = %s, want %s", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

type halfRate struct{}

func (halfRate) Rate(code string) (decimal.Decimal, bool) {
	if code == "USD" {
		return decimal.RequireFromString("0.5"), true
	}
	return decimal.Decimal{}, false
}

func TestConverter_PluggableProvider(t *testing.T) {
	conv := NewConverter(halfRate{})

	got := conv.ToGBP(decimal.NewFromInt(10), "USD")
	if got.String() != "5" {
		t.Errorf("expected custom provider rate to apply, got %s", got)
	}

	// Codes the provider does not know still pass through.
	got = conv.ToGBP(decimal.RequireFromString("3.33"), "EUR")
	if got.String() != "3.33" {
		t.Errorf("expected pass-through for unknown code, got %s", got)
	}
}
