package errors

var (
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrCategoryNotFound = &DomainError{
		Code:    "CATEGORY_NOT_FOUND",
		Message: "category not found",
	}
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "user does not own or participate in this wallet",
	}
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient wallet balance",
	}
	ErrOverdraftExceeded = &DomainError{
		Code:    "OVERDRAFT_EXCEEDED",
		Message: "amount exceeds the overdraft limit",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrCurrencyMismatch = &DomainError{
		Code:    "CURRENCY_MISMATCH",
		Message: "wallet currencies differ and no conversion is available",
	}
	ErrWalletBlocked = &DomainError{
		Code:    "WALLET_BLOCKED",
		Message: "wallet is blocked",
	}
	ErrConflict = &DomainError{
		Code:    "CONFLICT",
		Message: "operation lost a concurrent update, no changes were applied",
	}
	ErrRateUnavailable = &DomainError{
		Code:    "RATE_UNAVAILABLE",
		Message: "currency rate source is temporarily unavailable",
	}
)
