package wallet

import "time"

// Default overdraft/interest settings, overridable from the environment.
const (
	DefaultCurrency                = "USD"
	DefaultInterestRate            = 0.046
	DefaultOverdraftLimit          = 500.0
	DefaultNegativeMonthsThreshold = 3
)

// Cache keys and durations
const (
	WalletCachePrefix = "wallet:"
	CacheDuration     = 5 * time.Minute
)
