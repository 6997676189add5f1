package transaction

import (
	"context"
	"errors"
	"fmt"

	domainerrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Commit applies the request to the affected wallets as one atomic unit.
// Both wallets of a transfer are locked in ascending id order, the funds
// invariant is re-checked under lock, and any persistence failure rolls the
// whole unit back. Callers are assumed pre-authorized: the high-value gate
// lives in CreateTransaction, not here.
func (s *service) Commit(ctx context.Context, req CreateRequest, userID uint) (*models.Transaction, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		Reference:          "TX-" + uuid.NewString(),
		WalletID:           req.WalletID,
		Kind:               req.Kind,
		Amount:             req.Amount.Round(2),
		Status:             models.StatusPending,
		Description:        req.Description,
		RecipientWalletID:  req.RecipientWalletID,
		CardID:             req.CardID,
		CategoryID:         req.CategoryID,
		RecurrenceInterval: req.RecurrenceInterval,
	}

	err := s.repo.ExecuteInTransaction(ctx, func(r repositories.WalletRepository) error {
		source, recipient, err := s.lockWallets(ctx, r, req)
		if err != nil {
			return err
		}

		if source.Status != models.WalletStatusActive {
			return domainerrors.ErrWalletBlocked
		}
		tx.Currency = source.Currency

		switch req.Kind {
		case models.TransactionKindDeposit:
			source.Balance = source.Balance.Add(tx.Amount).Round(2)

		case models.TransactionKindWithdraw:
			if err := checkFunds(source, tx.Amount); err != nil {
				return err
			}
			source.Balance = source.Balance.Sub(tx.Amount).Round(2)

		case models.TransactionKindTransfer:
			if err := checkFunds(source, tx.Amount); err != nil {
				return err
			}
			credit := tx.Amount
			if recipient.Currency != source.Currency {
				if s.converter == nil {
					return domainerrors.ErrCurrencyMismatch
				}
				credit, err = s.converter.Convert(ctx, tx.Amount, source.Currency, recipient.Currency)
				if err != nil {
					return err
				}
				tx.Metadata = models.NewJSON(map[string]interface{}{
					"credited_amount":   credit.String(),
					"credited_currency": recipient.Currency,
				})
			}
			source.Balance = source.Balance.Sub(tx.Amount).Round(2)
			recipient.Balance = recipient.Balance.Add(credit).Round(2)
			if err := r.Update(ctx, recipient); err != nil {
				return err
			}
		}

		if err := r.Update(ctx, source); err != nil {
			return err
		}

		tx.Status = models.StatusCompleted
		return r.CreateTransaction(ctx, tx)
	})
	if err != nil {
		s.metrics.RecordError("commit", domainerrors.CodeOf(err))
		var de *domainerrors.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		// Anything below the domain layer means the atomic unit was rolled
		// back after losing a race or a storage failure.
		s.log.Error("commit failed", zap.String("reference", tx.Reference), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrConflict, err)
	}

	s.invalidateWallets(ctx, req)
	amt, _ := tx.Amount.Float64()
	s.metrics.RecordTransaction(tx.Kind, amt)

	if req.RecurrenceInterval != nil {
		if err := s.createSchedule(ctx, tx, *req.RecurrenceInterval); err != nil {
			s.log.Error("failed to create recurring schedule",
				zap.Uint("transaction_id", tx.ID), zap.Error(err))
		}
	}

	return tx, nil
}

// lockWallets fetches every wallet the request touches with row locks,
// always in ascending wallet-id order so opposing transfers cannot
// deadlock.
func (s *service) lockWallets(ctx context.Context, r repositories.WalletRepository, req CreateRequest) (source, recipient *models.Wallet, err error) {
	ids := []uint{req.WalletID}
	if req.Kind == models.TransactionKindTransfer && req.RecipientWalletID != nil {
		ids = append(ids, *req.RecipientWalletID)
		if ids[0] > ids[1] {
			ids[0], ids[1] = ids[1], ids[0]
		}
	}

	locked := make(map[uint]*models.Wallet, len(ids))
	for _, id := range ids {
		w, err := r.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return nil, nil, domainerrors.ErrWalletNotFound
			}
			return nil, nil, err
		}
		locked[id] = w
	}

	source = locked[req.WalletID]
	if req.RecipientWalletID != nil {
		recipient = locked[*req.RecipientWalletID]
	}
	return source, recipient, nil
}

// checkFunds enforces the overdraft invariant under lock: spendable covers
// the debit, distinguishing a plain shortfall from an exceeded overdraft.
func checkFunds(w *models.Wallet, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(w.Spendable()) {
		return nil
	}
	if w.Type == models.WalletTypePersonal && w.OverdraftEnabled {
		return domainerrors.ErrOverdraftExceeded
	}
	return domainerrors.ErrInsufficientBalance
}

func (s *service) validateRequest(req CreateRequest) error {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	switch req.Kind {
	case models.TransactionKindDeposit, models.TransactionKindWithdraw:
		if req.RecipientWalletID != nil {
			return ErrUnexpectedRecipient
		}
	case models.TransactionKindTransfer:
		if req.RecipientWalletID == nil {
			return ErrMissingRecipient
		}
		if *req.RecipientWalletID == req.WalletID {
			return ErrSelfTransfer
		}
	default:
		return ErrInvalidKind
	}

	if req.RecurrenceInterval != nil && !models.ValidInterval(*req.RecurrenceInterval) {
		return ErrInvalidInterval
	}
	return nil
}

func (s *service) createSchedule(ctx context.Context, tx *models.Transaction, interval string) error {
	return s.recurringRepo.Create(ctx, &models.RecurringSchedule{
		TransactionID: tx.ID,
		WalletID:      tx.WalletID,
		Interval:      interval,
		NextRunAt:     models.NextOccurrence(tx.CreatedAt, interval),
		Active:        true,
	})
}

func (s *service) invalidateWallets(ctx context.Context, req CreateRequest) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, req.WalletID); err != nil {
		s.log.Warn("cache invalidation failed", zap.Uint("wallet_id", req.WalletID), zap.Error(err))
	}
	if req.RecipientWalletID != nil {
		if err := s.cache.InvalidateWallet(ctx, *req.RecipientWalletID); err != nil {
			s.log.Warn("cache invalidation failed", zap.Uint("wallet_id", *req.RecipientWalletID), zap.Error(err))
		}
	}
}
