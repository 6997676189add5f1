package repositories

import (
	"context"
	"errors"

	"centime/internal/models"

	"gorm.io/gorm"
)

var ErrCardNotFound = errors.New("card not found")

// CreditCardRepository manages stored (tokenized) payment cards.
type CreditCardRepository interface {
	Create(ctx context.Context, c *models.CreditCard) error
	GetByID(ctx context.Context, id uint) (*models.CreditCard, error)
	ListByUser(ctx context.Context, userID uint) ([]models.CreditCard, error)
	Delete(ctx context.Context, id uint) error
}

type creditCardRepository struct {
	db *gorm.DB
}

// NewCreditCardRepository creates a gorm-backed card repository.
func NewCreditCardRepository(db *gorm.DB) CreditCardRepository {
	return &creditCardRepository{db: db}
}

func (r *creditCardRepository) Create(ctx context.Context, c *models.CreditCard) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *creditCardRepository) GetByID(ctx context.Context, id uint) (*models.CreditCard, error) {
	var c models.CreditCard
	err := r.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *creditCardRepository) ListByUser(ctx context.Context, userID uint) ([]models.CreditCard, error) {
	var cards []models.CreditCard
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&cards).Error
	return cards, err
}

func (r *creditCardRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.CreditCard{}, id).Error
}
