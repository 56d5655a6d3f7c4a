// Package currency converts source-native prices into GBP.
package currency

import "github.com/shopspring/decimal"

// RateProvider yields the GBP conversion rate for a currency code.
// The second return value is false for unknown currencies.
type RateProvider interface {
	Rate(code string) (decimal.Decimal, bool)
}

// FixedRates is the default rate provider. The factors are fixed
// approximations carried over from the original pricing data; a live FX
// feed can be plugged in through RateProvider without touching callers.
type FixedRates struct {
	rates map[string]decimal.Decimal
}

// NewFixedRates returns the default fixed-rate table.
func NewFixedRates() *FixedRates {
	return &FixedRates{
		rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromFloat(0.82),
			"EUR": decimal.NewFromFloat(0.86),
			"GBP": decimal.NewFromInt(1),
		},
	}
}

// Rate returns the GBP conversion factor for code.
func (f *FixedRates) Rate(code string) (decimal.Decimal, bool) {
	r, ok := f.rates[code]
	return r, ok
}

// Converter normalizes amounts into GBP.
type Converter struct {
	provider RateProvider
}

// NewConverter returns a converter backed by the given provider.
// A nil provider falls back to the fixed-rate table.
func NewConverter(provider RateProvider) *Converter {
	if provider == nil {
		provider = NewFixedRates()
	}
	return &Converter{provider: provider}
}

// ToGBP converts amount from the given currency into GBP, rounded to two
// decimal places. Rounding happens here and nowhere else. Unknown
// currencies pass through unconverted.
func (c *Converter) ToGBP(amount decimal.Decimal, code string) decimal.Decimal {
	rate, ok := c.provider.Rate(code)
	if !ok {
		return amount.Round(2)
	}
	return amount.Mul(rate).Round(2)
}
