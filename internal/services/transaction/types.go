package transaction

import (
	"time"

	"centime/internal/models"

	"github.com/shopspring/decimal"
)

// CreateRequest describes a transaction to apply against a wallet.
type CreateRequest struct {
	WalletID           uint            `json:"wallet_id"`
	Kind               string          `json:"kind"`
	Amount             decimal.Decimal `json:"amount"`
	RecipientWalletID  *uint           `json:"recipient_wallet_id,omitempty"`
	CardID             *uint           `json:"card_id,omitempty"`
	CategoryID         *uint           `json:"category_id,omitempty"`
	Description        string          `json:"description"`
	RecurrenceInterval *string         `json:"recurrence_interval,omitempty"`
}

// CreateResult is the outcome of CreateTransaction: either a committed
// transaction, or a verification token the caller must confirm first.
type CreateResult struct {
	Transaction          *models.Transaction
	RequiresVerification bool
	VerificationToken    string
}

// PendingVerification is the ephemeral record tying a verification token to
// the original request and its one-time code. It lives only in the pending
// store and dies on consumption or TTL expiry.
type PendingVerification struct {
	Token     string        `json:"token"`
	UserID    uint          `json:"user_id"`
	Code      string        `json:"code"`
	Request   CreateRequest `json:"request"`
	ExpiresAt time.Time     `json:"expires_at"`
}
