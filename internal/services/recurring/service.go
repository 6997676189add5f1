// Package recurring advances recurring-transaction series: each due series
// spawns a fresh occurrence through the processor's commit path and moves
// its next-due timestamp forward by one calendar interval.
package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainerrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/repositories"
	"centime/internal/services/transaction"
	"centime/internal/services/wallet"

	"go.uber.org/zap"
)

// Committer is the slice of the transaction processor the scheduler needs.
// Occurrences are pre-authorized by the series itself and therefore go
// straight to commit, bypassing the high-value gate.
type Committer interface {
	Commit(ctx context.Context, req transaction.CreateRequest, userID uint) (*models.Transaction, error)
}

// Service processes due series and cancellations.
type Service struct {
	repo       repositories.RecurringRepository
	txRepo     repositories.TransactionRepository
	walletRepo repositories.WalletRepository
	committer  Committer
	metrics    wallet.MetricsCollector
	log        *zap.Logger
}

func NewService(
	repo repositories.RecurringRepository,
	txRepo repositories.TransactionRepository,
	walletRepo repositories.WalletRepository,
	committer Committer,
	metrics wallet.MetricsCollector,
	log *zap.Logger,
) *Service {
	if repo == nil {
		panic("recurring repo is required")
	}
	if txRepo == nil {
		panic("transaction repo is required")
	}
	if walletRepo == nil {
		panic("wallet repo is required")
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
	return &Service{
		repo:       repo,
		txRepo:     txRepo,
		walletRepo: walletRepo,
		committer:  committer,
		metrics:    metrics,
		log:        log,
	}
}

// ProcessDue fires every series whose next-due timestamp has passed and
// returns how many occurrences were committed. Firing is idempotent per
// series: the schedule row is locked and its due date re-checked before it
// advances, so two overlapping runs cannot double-fire one due date.
func (s *Service) ProcessDue(ctx context.Context) (int, error) {
	now := time.Now()
	due, err := s.repo.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due schedules: %w", err)
	}

	fired := 0
	for _, sched := range due {
		if err := ctx.Err(); err != nil {
			return fired, err
		}
		ok, err := s.fire(ctx, sched.ID, now)
		if err != nil {
			// One broken series must not stall the rest.
			s.log.Error("recurring occurrence failed",
				zap.Uint("schedule_id", sched.ID), zap.Error(err))
			s.metrics.RecordError("recurring", domainerrors.CodeOf(err))
			continue
		}
		if ok {
			fired++
		}
	}
	return fired, nil
}

// fire claims one due occurrence for the series and commits it. The claim
// (advancing NextRunAt under a row lock) and the ledger commit are separate
// atomic units: a failed commit consumes the due date rather than retrying
// it forever against a drained wallet.
func (s *Service) fire(ctx context.Context, scheduleID uint, now time.Time) (bool, error) {
	var claimed *models.RecurringSchedule

	err := s.repo.ExecuteInTransaction(ctx, func(r repositories.RecurringRepository) error {
		sched, err := r.GetForUpdate(ctx, scheduleID)
		if err != nil {
			return err
		}
		if !sched.Active || sched.NextRunAt.After(now) {
			// Another scheduler instance got here first.
			return nil
		}

		snapshot := *sched
		claimed = &snapshot
		sched.NextRunAt = models.NextOccurrence(sched.NextRunAt, sched.Interval)
		return r.Update(ctx, sched)
	})
	if err != nil || claimed == nil {
		return false, err
	}

	template, err := s.txRepo.GetByID(ctx, claimed.TransactionID)
	if err != nil {
		return false, fmt.Errorf("failed to load series template: %w", err)
	}
	owner, err := s.walletRepo.GetByID(ctx, claimed.WalletID)
	if err != nil {
		return false, fmt.Errorf("failed to load series wallet: %w", err)
	}

	req := transaction.CreateRequest{
		WalletID:          template.WalletID,
		Kind:              template.Kind,
		Amount:            template.Amount,
		RecipientWalletID: template.RecipientWalletID,
		CategoryID:        template.CategoryID,
		Description:       template.Description,
		// No RecurrenceInterval: occurrences never spawn their own series.
	}
	if _, err := s.committer.Commit(ctx, req, owner.UserID); err != nil {
		return false, err
	}
	return true, nil
}

// Cancel deactivates a series after an ownership check. Completed
// occurrences stay in the ledger untouched.
func (s *Service) Cancel(ctx context.Context, scheduleID, userID uint) error {
	sched, err := s.repo.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return domainerrors.ErrTransactionNotFound
		}
		return err
	}

	w, err := s.walletRepo.GetByID(ctx, sched.WalletID)
	if err != nil {
		return domainerrors.ErrWalletNotFound
	}
	if !w.HasAccess(userID) {
		return domainerrors.ErrUnauthorized
	}

	if !sched.Active {
		return nil
	}
	sched.Active = false
	return s.repo.Update(ctx, sched)
}
