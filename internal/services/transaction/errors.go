package transaction

import "errors"

// Service errors
var (
	ErrInvalidKind          = errors.New("invalid transaction kind")
	ErrInvalidAmount        = errors.New("invalid transaction amount")
	ErrMissingRecipient     = errors.New("transfer requires a recipient wallet")
	ErrUnexpectedRecipient  = errors.New("only transfers may name a recipient wallet")
	ErrSelfTransfer         = errors.New("cannot transfer to the same wallet")
	ErrTransactionImmutable = errors.New("completed transactions cannot be modified")
	ErrInvalidInterval      = errors.New("invalid recurrence interval")
)
