// Package verification confirms high-value transactions: it checks one-time
// codes against pending records and hands verified requests back to the
// transaction processor's commit path exactly once.
package verification

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	domainerrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/services/transaction"
	"centime/internal/services/wallet"

	"go.uber.org/zap"
)

// Committer is the slice of the transaction processor the gateway needs.
type Committer interface {
	Commit(ctx context.Context, req transaction.CreateRequest, userID uint) (*models.Transaction, error)
}

// Service verifies tokens and codes for pending high-value transactions.
type Service struct {
	store     transaction.PendingStore
	committer Committer
	metrics   wallet.MetricsCollector
	log       *zap.Logger
}

func NewService(store transaction.PendingStore, committer Committer, metrics wallet.MetricsCollector, log *zap.Logger) *Service {
	if store == nil {
		panic("pending store is required")
	}
	if committer == nil {
		panic("committer is required")
	}
	if metrics == nil {
		metrics = &wallet.NoopMetricsCollector{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, committer: committer, metrics: metrics, log: log}
}

// Verify checks token and code and, on success, commits the stored request.
// The pending record is consumed atomically, so concurrent calls with the
// same valid token commit at most once.
func (s *Service) Verify(ctx context.Context, token, code string) (*models.Transaction, error) {
	pv, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending verification: %w", err)
	}
	if pv == nil || time.Now().After(pv.ExpiresAt) {
		if pv != nil {
			_ = s.store.Delete(ctx, token)
		}
		s.metrics.RecordVerification("expired")
		return nil, domainerrors.ErrInvalidOrExpiredToken
	}

	if subtle.ConstantTimeCompare([]byte(pv.Code), []byte(code)) != 1 {
		attempts, ferr := s.store.Fail(ctx, token)
		if ferr != nil {
			return nil, fmt.Errorf("failed to record attempt: %w", ferr)
		}
		if attempts >= transaction.MaxVerificationAttempts {
			_ = s.store.Delete(ctx, token)
			s.metrics.RecordVerification("attempts_exhausted")
			return nil, domainerrors.ErrTooManyAttempts
		}
		s.metrics.RecordVerification("invalid_code")
		return nil, domainerrors.ErrInvalidCode
	}

	// Exactly-once consumption: whoever wins the consume gets to commit;
	// everyone else sees the token as already gone.
	pv, err = s.store.Consume(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to consume pending verification: %w", err)
	}
	if pv == nil {
		return nil, domainerrors.ErrInvalidOrExpiredToken
	}

	// The commit path re-validates funds under lock; the balance may have
	// drifted since the code was issued.
	tx, err := s.committer.Commit(ctx, pv.Request, pv.UserID)
	if err != nil {
		s.metrics.RecordVerification("commit_failed")
		s.log.Warn("verified transaction failed to commit",
			zap.String("token", token), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordVerification("completed")
	return tx, nil
}
