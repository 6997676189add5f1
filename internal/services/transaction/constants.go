package transaction

// High-value thresholds: a non-deposit transaction at or above 80% of the
// current balance, or above the absolute ceiling, must be verified before
// it commits.
const (
	HighValueBalanceRatio = 0.8
	HighValueAbsolute     = 20000
)

// Verification code time-to-live and attempt cap.
const (
	VerificationTTL         = 10 // minutes
	MaxVerificationAttempts = 5
)
