package currency

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// StaticConverter converts using a fixed in-memory rate table. Rates are
// keyed "FROM/TO"; the inverse pair is derived when only one direction is
// configured.
type StaticConverter struct {
	rates map[string]decimal.Decimal
}

// NewStaticConverter builds a converter from a "FROM/TO" → rate table.
func NewStaticConverter(rates map[string]float64) *StaticConverter {
	c := &StaticConverter{rates: make(map[string]decimal.Decimal, len(rates))}
	for pair, rate := range rates {
		c.rates[strings.ToUpper(pair)] = decimal.NewFromFloat(rate)
	}
	return c
}

func (c *StaticConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amount, nil
	}

	if rate, ok := c.rates[from+"/"+to]; ok {
		return amount.Mul(rate).Round(2), nil
	}
	if rate, ok := c.rates[to+"/"+from]; ok && !rate.IsZero() {
		return amount.DivRound(rate, 2), nil
	}

	return decimal.Zero, ErrRateUnavailable
}

// DefaultRates is the built-in table for installs without a configured
// rate source.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"EUR/USD": 1.08,
		"GBP/USD": 1.27,
		"EUR/GBP": 0.85,
		"USD/CHF": 0.88,
		"EUR/CHF": 0.95,
	}
}
