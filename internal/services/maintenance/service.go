// Package maintenance runs the monthly ledger upkeep: savings interest
// accrual and overdraft penalties, including blocking accounts that stay
// negative too long.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"centime/internal/models"
	"centime/internal/repositories"
	"centime/internal/services/wallet"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UserManager blocks and unblocks accounts; implemented by the user service.
type UserManager interface {
	Block(ctx context.Context, userID uint) error
	Unblock(ctx context.Context, userID uint) error
}

// Report summarizes one maintenance run.
type Report struct {
	InterestApplied  int
	PenaltiesApplied int
	Blocked          int
	Unblocked        int
	Errors           []error
	Duration         time.Duration
}

// Service applies monthly interest and overdraft consequences.
type Service struct {
	repo     repositories.WalletRepository
	users    UserManager
	cache    wallet.Cache
	settings wallet.Settings
	metrics  wallet.MetricsCollector
	log      *zap.Logger
}

func NewService(
	repo repositories.WalletRepository,
	users UserManager,
	cache wallet.Cache,
	settings wallet.Settings,
	metrics wallet.MetricsCollector,
	log *zap.Logger,
) *Service {
	if repo == nil {
		panic("wallet repo is required")
	}
	if users == nil {
		panic("user manager is required")
	}
	if settings.NegativeMonthsThreshold == 0 {
		settings = wallet.DefaultSettings()
	}
	if metrics == nil {
		metrics = &wallet.NoopMetricsCollector{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		users:    users,
		cache:    cache,
		settings: settings,
		metrics:  metrics,
		log:      log,
	}
}

var twelve = decimal.NewFromInt(12)

// Run executes one maintenance pass. Wallets are processed independently;
// each read-modify-write locks its own row so concurrent transaction
// commits on the same wallet cannot interleave with the adjustment.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	savings, err := s.repo.ListByType(ctx, models.WalletTypeSavings)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings wallets: %w", err)
	}
	for _, w := range savings {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.applyInterest(ctx, w.ID); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("wallet %d: %w", w.ID, err))
			continue
		}
		report.InterestApplied++
	}

	overdrawn, err := s.repo.ListOverdrawn(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list overdrawn wallets: %w", err)
	}
	for _, w := range overdrawn {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, err := s.applyOverdraft(ctx, w.ID)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("wallet %d: %w", w.ID, err))
			continue
		}
		switch outcome {
		case outcomePenalized:
			report.PenaltiesApplied++
		case outcomeBlocked:
			report.PenaltiesApplied++
			report.Blocked++
		case outcomeRecovered:
			report.Unblocked++
		}
	}

	report.Duration = time.Since(start)
	s.metrics.RecordJobRun("maintenance", report.Duration)
	s.log.Info("maintenance run finished",
		zap.Int("interest_applied", report.InterestApplied),
		zap.Int("penalties_applied", report.PenaltiesApplied),
		zap.Int("blocked", report.Blocked),
		zap.Int("unblocked", report.Unblocked),
		zap.Int("errors", len(report.Errors)),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// applyInterest credits one month of interest: balance × annualRate / 12,
// rounded to 2 decimals.
func (s *Service) applyInterest(ctx context.Context, walletID uint) error {
	return s.withLockedWallet(ctx, walletID, func(w *models.Wallet) error {
		if w.Type != models.WalletTypeSavings || w.Balance.LessThanOrEqual(decimal.Zero) {
			return nil
		}
		rate := w.InterestRate
		if rate.IsZero() {
			rate = s.settings.DefaultInterestRate
		}
		interest := w.Balance.Mul(rate).Div(twelve).Round(2)
		w.Balance = w.Balance.Add(interest).Round(2)
		return nil
	})
}

type overdraftOutcome int

const (
	outcomeNone overdraftOutcome = iota
	outcomePenalized
	outcomeBlocked
	outcomeRecovered
)

// applyOverdraft penalizes a negative personal wallet, escalating to a
// block once the consecutive-negative-months threshold is reached, and
// unblocks wallets that recovered.
func (s *Service) applyOverdraft(ctx context.Context, walletID uint) (overdraftOutcome, error) {
	outcome := outcomeNone
	var ownerID uint

	err := s.withLockedWallet(ctx, walletID, func(w *models.Wallet) error {
		if w.Type != models.WalletTypePersonal {
			return nil
		}
		ownerID = w.UserID

		if w.Balance.IsNegative() {
			rate := w.InterestRate
			if rate.IsZero() {
				rate = s.settings.DefaultInterestRate
			}
			penalty := w.Balance.Abs().Mul(rate).Round(2)
			w.Balance = w.Balance.Sub(penalty).Round(2)
			w.NegativeMonths++
			outcome = outcomePenalized
			if w.NegativeMonths >= s.settings.NegativeMonthsThreshold {
				w.Status = models.WalletStatusBlocked
				outcome = outcomeBlocked
			}
			return nil
		}

		if w.NegativeMonths > 0 {
			w.NegativeMonths = 0
			w.Status = models.WalletStatusActive
			outcome = outcomeRecovered
		}
		return nil
	})
	if err != nil {
		return outcomeNone, err
	}

	// Account-level consequences happen outside the wallet lock; the
	// collaborator owns its own consistency.
	switch outcome {
	case outcomeBlocked:
		if err := s.users.Block(ctx, ownerID); err != nil {
			return outcome, fmt.Errorf("failed to block user %d: %w", ownerID, err)
		}
	case outcomeRecovered:
		if err := s.users.Unblock(ctx, ownerID); err != nil {
			return outcome, fmt.Errorf("failed to unblock user %d: %w", ownerID, err)
		}
	}
	return outcome, nil
}

// withLockedWallet runs fn against a row-locked wallet and persists the
// result in the same database transaction.
func (s *Service) withLockedWallet(ctx context.Context, walletID uint, fn func(*models.Wallet) error) error {
	err := s.repo.ExecuteInTransaction(ctx, func(r repositories.WalletRepository) error {
		w, err := r.GetForUpdate(ctx, walletID)
		if err != nil {
			return err
		}
		if err := fn(w); err != nil {
			return err
		}
		return r.Update(ctx, w)
	})
	if err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateWallet(ctx, walletID)
	}
	return nil
}
