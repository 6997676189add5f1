// Package transaction implements the ledger's transaction processor: it
// validates requests, gates high-value movements behind verification, and
// owns the atomic commit path that mutates wallet balances.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainerrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/repositories"
	"centime/internal/services/wallet"
	"centime/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	repo          repositories.WalletRepository
	txRepo        repositories.TransactionRepository
	recurringRepo repositories.RecurringRepository
	categoryRepo  repositories.CategoryRepository
	pending       PendingStore
	notifier      Notifier
	converter     Converter
	users         UserDirectory
	cache         wallet.Cache
	metrics       wallet.MetricsCollector
	log           *zap.Logger
}

// Config wires the processor's collaborators.
type Config struct {
	WalletRepo    repositories.WalletRepository
	TxRepo        repositories.TransactionRepository
	RecurringRepo repositories.RecurringRepository
	CategoryRepo  repositories.CategoryRepository
	Pending       PendingStore
	Notifier      Notifier
	Converter     Converter
	Users         UserDirectory
	Cache         wallet.Cache
	Metrics       wallet.MetricsCollector
	Logger        *zap.Logger
}

// NewService creates the transaction processor.
func NewService(cfg Config) Service {
	if cfg.WalletRepo == nil {
		panic("wallet repo is required")
	}
	if cfg.TxRepo == nil {
		panic("transaction repo is required")
	}
	if cfg.Pending == nil {
		panic("pending store is required")
	}
	if cfg.Notifier == nil {
		panic("notifier is required")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &wallet.NoopMetricsCollector{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &service{
		repo:          cfg.WalletRepo,
		txRepo:        cfg.TxRepo,
		recurringRepo: cfg.RecurringRepo,
		categoryRepo:  cfg.CategoryRepo,
		pending:       cfg.Pending,
		notifier:      cfg.Notifier,
		converter:     cfg.Converter,
		users:         cfg.Users,
		cache:         cfg.Cache,
		metrics:       cfg.Metrics,
		log:           cfg.Logger,
	}
}

// CreateTransaction validates ownership and funds, then either commits the
// request immediately or parks it behind a verification token when it is
// high-value.
func (s *service) CreateTransaction(ctx context.Context, req CreateRequest, userID uint) (*CreateResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	w, err := s.repo.GetByID(ctx, req.WalletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	if !w.HasAccess(userID) {
		return nil, domainerrors.ErrUnauthorized
	}

	// Early funds check outside the lock; the commit path re-checks under
	// lock because the balance may drift in between.
	if req.Kind != models.TransactionKindDeposit {
		if err := checkFunds(w, req.Amount.Round(2)); err != nil {
			return nil, err
		}
	}

	if isHighValue(req.Kind, req.Amount, w.Balance) {
		token, err := s.requireVerification(ctx, req, userID)
		if err != nil {
			return nil, err
		}
		return &CreateResult{
			RequiresVerification: true,
			VerificationToken:    token,
		}, nil
	}

	tx, err := s.Commit(ctx, req, userID)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Transaction: tx}, nil
}

// isHighValue implements the verification predicate: never for deposits,
// otherwise when the amount reaches 80% of the current balance or exceeds
// the absolute ceiling.
func isHighValue(kind string, amount, balance decimal.Decimal) bool {
	if kind == models.TransactionKindDeposit {
		return false
	}
	ratio := balance.Mul(decimal.NewFromFloat(HighValueBalanceRatio))
	return amount.GreaterThanOrEqual(ratio) ||
		amount.GreaterThan(decimal.NewFromInt(HighValueAbsolute))
}

// requireVerification parks the request in the pending store and dispatches
// a one-time code. Balances stay untouched until the code is confirmed.
func (s *service) requireVerification(ctx context.Context, req CreateRequest, userID uint) (string, error) {
	token, err := utils.GenerateSecureToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	ttl := VerificationTTL * time.Minute
	pv := &PendingVerification{
		Token:     token,
		UserID:    userID,
		Code:      code,
		Request:   req,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.pending.Put(ctx, pv, ttl); err != nil {
		return "", fmt.Errorf("failed to store pending verification: %w", err)
	}

	email, username := "", ""
	if s.users != nil {
		if u, err := s.users.GetByID(ctx, userID); err == nil {
			email, username = u.Email, u.Name
		}
	}
	if err := s.notifier.SendVerificationCode(ctx, email, username, code); err != nil {
		// The record stays; the user can request a fresh transaction if the
		// code never arrives.
		s.log.Error("failed to dispatch verification code", zap.Uint("user_id", userID), zap.Error(err))
	}

	s.metrics.RecordVerification("required")
	return token, nil
}

func (s *service) FilterTransactions(ctx context.Context, userID uint, filter repositories.TransactionFilter, page, pageSize int) ([]models.Transaction, int64, error) {
	wallets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wallets: %w", err)
	}
	if len(wallets) == 0 {
		return nil, 0, nil
	}

	ids := make([]uint, len(wallets))
	for i, w := range wallets {
		ids[i] = w.ID
	}
	return s.txRepo.Filter(ctx, ids, filter, page, pageSize)
}

// AddTransactionToCategory tags a transaction with one of the caller's
// categories. Ledger fields stay immutable; only the category label moves.
func (s *service) AddTransactionToCategory(ctx context.Context, userID, txID, categoryID uint) error {
	tx, err := s.txRepo.GetByID(ctx, txID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return domainerrors.ErrTransactionNotFound
		}
		return err
	}

	w, err := s.repo.GetByID(ctx, tx.WalletID)
	if err != nil {
		return domainerrors.ErrWalletNotFound
	}
	if !w.HasAccess(userID) {
		return domainerrors.ErrUnauthorized
	}

	cat, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return domainerrors.ErrCategoryNotFound
		}
		return err
	}
	if cat.UserID != userID {
		return domainerrors.ErrUnauthorized
	}

	tx.CategoryID = &categoryID
	return s.txRepo.Update(ctx, tx)
}
