package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds
const (
	TransactionKindDeposit  = "deposit"
	TransactionKindWithdraw = "withdraw"
	TransactionKindTransfer = "transfer"
)

// Transaction statuses
const (
	StatusPending              = "pending"
	StatusAwaitingVerification = "awaiting_verification"
	StatusCompleted            = "completed"
	StatusFailed               = "failed"
	StatusCancelled            = "cancelled"
	StatusExpired              = "expired"
)

// Recurrence intervals
const (
	IntervalDaily   = "daily"
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

// Transaction is a single ledger entry against a wallet. A completed
// transaction is immutable; recurring series create a fresh record per
// occurrence instead of mutating the template.
type Transaction struct {
	ID                 uint            `gorm:"primarykey"`
	Reference          string          `gorm:"uniqueIndex;not null"`
	WalletID           uint            `gorm:"not null;index"`
	Kind               string          `gorm:"not null"`
	Amount             decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency           string          `gorm:"default:'USD'"`
	Status             string          `gorm:"not null;default:'pending'"`
	Description        string
	RecipientWalletID  *uint  `gorm:"index"`
	CardID             *uint
	CategoryID         *uint  `gorm:"index"`
	RecurrenceInterval *string
	Metadata           JSON `gorm:"type:jsonb"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsTerminal reports whether the transaction status can no longer change.
func (t *Transaction) IsTerminal() bool {
	switch t.Status {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Signed returns the amount with the sign it contributes to the wallet
// balance: deposits positive, withdrawals and outgoing transfers negative.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Kind == TransactionKindDeposit {
		return t.Amount
	}
	return t.Amount.Neg()
}

// ValidInterval reports whether s names a supported recurrence interval.
func ValidInterval(s string) bool {
	switch s {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}
