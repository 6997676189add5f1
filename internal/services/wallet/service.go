package wallet

import (
	"context"
	"errors"
	"fmt"

	domainerrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/repositories"

	"go.uber.org/zap"
)

type service struct {
	repo     repositories.WalletRepository
	cache    Cache
	settings Settings
	log      *zap.Logger
}

// NewService creates a new wallet service.
func NewService(repo repositories.WalletRepository, cache Cache, settings Settings, log *zap.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if settings.DefaultCurrency == "" {
		settings = DefaultSettings()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &service{
		repo:     repo,
		cache:    cache,
		settings: settings,
		log:      log,
	}
}

func (s *service) CreateWallet(ctx context.Context, userID uint, input CreateWalletInput) (*models.Wallet, error) {
	switch input.Type {
	case models.WalletTypePersonal, models.WalletTypeJoint, models.WalletTypeSavings:
	case "":
		input.Type = models.WalletTypePersonal
	default:
		return nil, ErrInvalidType
	}

	currency := input.Currency
	if currency == "" {
		currency = s.settings.DefaultCurrency
	}

	w := &models.Wallet{
		UserID:   userID,
		Name:     input.Name,
		Currency: currency,
		Type:     input.Type,
		Status:   models.WalletStatusActive,
	}
	// Overdraft applies to personal wallets only; savings wallets carry the
	// default interest rate instead.
	if input.Type == models.WalletTypePersonal && input.OverdraftEnabled {
		w.OverdraftEnabled = true
		w.OverdraftLimit = s.settings.DefaultOverdraftLimit
		w.InterestRate = s.settings.DefaultInterestRate
	}
	if input.Type == models.WalletTypeSavings {
		w.InterestRate = s.settings.DefaultInterestRate
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	if err := s.cache.CacheWallet(ctx, w); err != nil {
		s.log.Warn("failed to cache wallet", zap.Uint("wallet_id", w.ID), zap.Error(err))
	}
	return w, nil
}

func (s *service) GetWallet(ctx context.Context, userID, walletID uint) (*models.Wallet, error) {
	if w, err := s.cache.GetWallet(ctx, walletID); err == nil && w != nil {
		if !w.HasAccess(userID) {
			return nil, domainerrors.ErrUnauthorized
		}
		return w, nil
	}

	w, err := s.repo.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if !w.HasAccess(userID) {
		return nil, domainerrors.ErrUnauthorized
	}

	if err := s.cache.CacheWallet(ctx, w); err != nil {
		s.log.Warn("failed to cache wallet", zap.Uint("wallet_id", w.ID), zap.Error(err))
	}
	return w, nil
}

func (s *service) ListWallets(ctx context.Context, userID uint) ([]models.Wallet, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) AddMember(ctx context.Context, ownerID, walletID, memberID uint) error {
	w, err := s.repo.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return domainerrors.ErrWalletNotFound
		}
		return err
	}
	if w.UserID != ownerID {
		return ErrNotOwner
	}
	if w.Type != models.WalletTypeJoint {
		return ErrNotJoint
	}
	for _, m := range w.Members {
		if m.UserID == memberID {
			return ErrMemberExists
		}
	}

	if err := s.repo.AddMember(ctx, &models.WalletMember{WalletID: walletID, UserID: memberID}); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return s.cache.InvalidateWallet(ctx, walletID)
}

func (s *service) SetOverdraft(ctx context.Context, ownerID, walletID uint, enabled bool) error {
	w, err := s.repo.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return domainerrors.ErrWalletNotFound
		}
		return err
	}
	if w.UserID != ownerID {
		return ErrNotOwner
	}
	if w.Type != models.WalletTypePersonal {
		return ErrInvalidType
	}

	w.OverdraftEnabled = enabled
	if enabled {
		if w.OverdraftLimit.IsZero() {
			w.OverdraftLimit = s.settings.DefaultOverdraftLimit
		}
		if w.InterestRate.IsZero() {
			w.InterestRate = s.settings.DefaultInterestRate
		}
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return err
	}
	return s.cache.InvalidateWallet(ctx, walletID)
}
