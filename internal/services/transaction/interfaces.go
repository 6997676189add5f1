package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"centime/internal/models"
	"centime/internal/repositories"
)

// PendingStore keeps verification records until they are consumed or their
// TTL lapses. Consume must be atomic: concurrent calls for one token may
// return the record at most once.
type PendingStore interface {
	Put(ctx context.Context, pv *PendingVerification, ttl time.Duration) error
	Get(ctx context.Context, token string) (*PendingVerification, error)
	Consume(ctx context.Context, token string) (*PendingVerification, error)
	// Fail records a wrong-code attempt and returns the attempt count so the
	// caller can enforce the retry cap.
	Fail(ctx context.Context, token string) (int, error)
	Delete(ctx context.Context, token string) error
}

// Notifier dispatches verification codes; implemented outside the core.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, username, code string) error
}

// Converter translates amounts between currencies for cross-currency
// transfers.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// UserDirectory resolves the acting user for code dispatch.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Service is the transaction processor: the only component allowed to
// mutate wallet balances outside the maintenance job.
type Service interface {
	CreateTransaction(ctx context.Context, req CreateRequest, userID uint) (*CreateResult, error)
	Commit(ctx context.Context, req CreateRequest, userID uint) (*models.Transaction, error)
	FilterTransactions(ctx context.Context, userID uint, filter repositories.TransactionFilter, page, pageSize int) ([]models.Transaction, int64, error)
	AddTransactionToCategory(ctx context.Context, userID, txID, categoryID uint) error
}
