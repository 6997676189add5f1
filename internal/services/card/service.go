// Package card validates payment cards and manages their tokenized storage.
// Validation is pure and aggregates every failing rule; storage keeps only
// the vault token plus display data.
package card

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"centime/internal/models"
	"centime/internal/repositories"

	"go.uber.org/zap"
)

var (
	ErrCardNotFound        = errors.New("card not found")
	ErrCardNotBelongToUser = errors.New("card does not belong to user")
	ErrCardInvalid         = errors.New("card failed validation")
)

// Service links, lists and removes stored cards.
type Service struct {
	repo      repositories.CreditCardRepository
	tokenizer Tokenizer
	log       *zap.Logger
}

func NewService(repo repositories.CreditCardRepository, tokenizer Tokenizer, log *zap.Logger) *Service {
	if repo == nil {
		panic("repo is required")
	}
	if tokenizer == nil {
		tokenizer = NewStripeTokenizer()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, tokenizer: tokenizer, log: log}
}

// LinkCard validates the card, tokenizes it and stores the token. The
// inferred network is persisted alongside the token.
func (s *Service) LinkCard(ctx context.Context, userID uint, input ValidateInput) (*models.CreditCard, error) {
	result := Validate(input)
	if !result.Valid {
		s.log.Info("card rejected",
			zap.Uint("user_id", userID),
			zap.Any("errors", result.Errors))
		return nil, fmt.Errorf("%w: %v", ErrCardInvalid, result.Errors)
	}

	tokenized, err := s.tokenizer.Tokenize(input)
	if err != nil {
		return nil, fmt.Errorf("card tokenization failed: %w", err)
	}

	record := &models.CreditCard{
		UserID:      userID,
		CardNumber:  tokenized.Token,
		CardType:    result.Network,
		ExpiryMonth: strconv.Itoa(input.ExpiryMonth),
		ExpiryYear:  strconv.Itoa(input.ExpiryYear),
		LastFour:    tokenized.LastFour,
		Status:      "active",
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	return record, nil
}

// GetUserCards lists the user's stored cards.
func (s *Service) GetUserCards(ctx context.Context, userID uint) ([]models.CreditCard, error) {
	return s.repo.ListByUser(ctx, userID)
}

// DeleteCard removes a stored card after an ownership check.
func (s *Service) DeleteCard(ctx context.Context, userID, cardID uint) error {
	card, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return ErrCardNotFound
		}
		return err
	}
	if card.UserID != userID {
		return ErrCardNotBelongToUser
	}
	return s.repo.Delete(ctx, cardID)
}
