package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet types
const (
	WalletTypePersonal = "personal"
	WalletTypeJoint    = "joint"
	WalletTypeSavings  = "savings"
)

// Wallet statuses
const (
	WalletStatusActive  = "active"
	WalletStatusBlocked = "blocked"
)

// Wallet is an account holding a balance in a single currency. Personal
// wallets may run negative up to OverdraftLimit when overdraft is enabled;
// savings wallets accrue monthly interest at InterestRate (annual).
type Wallet struct {
	ID               uint            `gorm:"primarykey"`
	UserID           uint            `gorm:"not null;index"`
	Name             string          `gorm:"not null"`
	Currency         string          `gorm:"default:'USD'"`
	Balance          decimal.Decimal `gorm:"type:numeric(20,2);default:0"`
	Type             string          `gorm:"not null;default:'personal'"`
	Status           string          `gorm:"not null;default:'active'"`
	OverdraftEnabled bool            `gorm:"default:false"`
	OverdraftLimit   decimal.Decimal `gorm:"type:numeric(20,2);default:0"`
	InterestRate     decimal.Decimal `gorm:"type:numeric(8,4);default:0"`
	NegativeMonths   int             `gorm:"default:0"`
	Members          []WalletMember  `gorm:"foreignKey:WalletID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// WalletMember grants a non-owner user access to a joint wallet.
type WalletMember struct {
	ID       uint `gorm:"primarykey"`
	WalletID uint `gorm:"not null;uniqueIndex:idx_wallet_member"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_wallet_member"`
}

// HasAccess reports whether userID owns the wallet or is a joint member.
func (w *Wallet) HasAccess(userID uint) bool {
	if w.UserID == userID {
		return true
	}
	for _, m := range w.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Spendable returns the amount the wallet can be debited by right now:
// balance plus the overdraft headroom for overdraft-enabled personal wallets,
// plain balance otherwise.
func (w *Wallet) Spendable() decimal.Decimal {
	if w.Type == WalletTypePersonal && w.OverdraftEnabled {
		return w.Balance.Add(w.OverdraftLimit)
	}
	return w.Balance
}
