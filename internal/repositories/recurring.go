package repositories

import (
	"context"
	"errors"
	"time"

	"centime/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrScheduleNotFound = errors.New("recurring schedule not found")

// RecurringRepository manages recurring-transaction series. GetForUpdate
// locks the schedule row so only one scheduler instance advances a series
// for a given due date.
type RecurringRepository interface {
	Create(ctx context.Context, s *models.RecurringSchedule) error
	GetByID(ctx context.Context, id uint) (*models.RecurringSchedule, error)
	GetForUpdate(ctx context.Context, id uint) (*models.RecurringSchedule, error)
	Update(ctx context.Context, s *models.RecurringSchedule) error
	ListDue(ctx context.Context, now time.Time) ([]models.RecurringSchedule, error)
	ExecuteInTransaction(ctx context.Context, fn func(RecurringRepository) error) error
}

type recurringRepository struct {
	db *gorm.DB
}

// NewRecurringRepository creates a gorm-backed recurring repository.
func NewRecurringRepository(db *gorm.DB) RecurringRepository {
	return &recurringRepository{db: db}
}

func (r *recurringRepository) Create(ctx context.Context, s *models.RecurringSchedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *recurringRepository) GetByID(ctx context.Context, id uint) (*models.RecurringSchedule, error) {
	var s models.RecurringSchedule
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *recurringRepository) GetForUpdate(ctx context.Context, id uint) (*models.RecurringSchedule, error) {
	var s models.RecurringSchedule
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *recurringRepository) Update(ctx context.Context, s *models.RecurringSchedule) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *recurringRepository) ListDue(ctx context.Context, now time.Time) ([]models.RecurringSchedule, error) {
	var due []models.RecurringSchedule
	err := r.db.WithContext(ctx).
		Where("active = ? AND next_run_at <= ?", true, now).
		Order("next_run_at").
		Find(&due).Error
	return due, err
}

func (r *recurringRepository) ExecuteInTransaction(ctx context.Context, fn func(RecurringRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&recurringRepository{db: tx})
	})
}
