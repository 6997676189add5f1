package repositories

import (
	"context"
	"errors"

	"centime/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// WalletRepository reads and writes wallet rows together with the ledger
// entries recorded against them. GetForUpdate acquires a row lock and is
// only meaningful inside ExecuteInTransaction.
type WalletRepository interface {
	Create(ctx context.Context, w *models.Wallet) error
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Wallet, error)
	Update(ctx context.Context, w *models.Wallet) error
	ListByUser(ctx context.Context, userID uint) ([]models.Wallet, error)
	ListByType(ctx context.Context, walletType string) ([]models.Wallet, error)
	ListOverdrawn(ctx context.Context) ([]models.Wallet, error)
	AddMember(ctx context.Context, m *models.WalletMember) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// ExecuteInTransaction runs fn against a repository bound to a single
	// database transaction; any error rolls the whole unit back.
	ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error
}

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a gorm-backed wallet repository.
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, w *models.Wallet) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *walletRepository) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.WithContext(ctx).Preload("Members").First(&w, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) GetForUpdate(ctx context.Context, id uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&w, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) Update(ctx context.Context, w *models.Wallet) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *walletRepository) ListByUser(ctx context.Context, userID uint) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.WithContext(ctx).
		Preload("Members").
		Where("user_id = ? OR id IN (?)",
			userID,
			r.db.Model(&models.WalletMember{}).Select("wallet_id").Where("user_id = ?", userID),
		).
		Find(&wallets).Error
	return wallets, err
}

func (r *walletRepository) ListByType(ctx context.Context, walletType string) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.WithContext(ctx).Where("type = ?", walletType).Find(&wallets).Error
	return wallets, err
}

func (r *walletRepository) ListOverdrawn(ctx context.Context) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.WithContext(ctx).
		Where("type = ? AND (balance < 0 OR negative_months > 0)", models.WalletTypePersonal).
		Find(&wallets).Error
	return wallets, err
}

func (r *walletRepository) AddMember(ctx context.Context, m *models.WalletMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *walletRepository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *walletRepository) ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&walletRepository{db: tx})
	})
}
