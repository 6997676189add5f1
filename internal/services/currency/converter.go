// Package currency defines the conversion contract used for cross-currency
// transfers. The rate source itself lives outside the core; failures to
// reach it surface as a recoverable, distinct error kind.
package currency

import (
	"context"

	"centime/internal/errors"

	"github.com/shopspring/decimal"
)

// Converter converts an amount between two ISO currency codes.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// ErrRateUnavailable is returned when the rate source cannot be reached or
// does not know the pair. Callers must treat it as transient.
var ErrRateUnavailable = errors.ErrRateUnavailable
