package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings are the process-wide overdraft and interest defaults applied at
// wallet creation and read by the maintenance job.
type Settings struct {
	DefaultCurrency         string
	DefaultInterestRate     decimal.Decimal
	DefaultOverdraftLimit   decimal.Decimal
	NegativeMonthsThreshold int
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		DefaultCurrency:         DefaultCurrency,
		DefaultInterestRate:     decimal.NewFromFloat(DefaultInterestRate),
		DefaultOverdraftLimit:   decimal.NewFromFloat(DefaultOverdraftLimit),
		NegativeMonthsThreshold: DefaultNegativeMonthsThreshold,
	}
}

// CreateWalletInput describes a wallet creation request.
type CreateWalletInput struct {
	Name             string
	Currency         string
	Type             string
	OverdraftEnabled bool
}

// MetricsCollector receives ledger metrics. Implementations must be safe
// for concurrent use.
type MetricsCollector interface {
	RecordTransaction(kind string, amount float64)
	RecordError(operation, errType string)
	RecordVerification(outcome string)
	RecordJobRun(job string, duration time.Duration)
}
