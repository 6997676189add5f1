package errors

var (
	ErrInvalidOrExpiredToken = &DomainError{
		Code:    "INVALID_OR_EXPIRED_TOKEN",
		Message: "verification token is invalid or has expired",
	}
	ErrInvalidCode = &DomainError{
		Code:    "INVALID_CODE",
		Message: "verification code does not match",
	}
	ErrTooManyAttempts = &DomainError{
		Code:    "TOO_MANY_ATTEMPTS",
		Message: "verification attempt limit reached",
	}
)
