package wallet

import (
	"context"

	"centime/internal/models"
)

// Cache is the wallet snapshot cache consumed by the service. A nil wallet
// with a nil error means a cache miss.
type Cache interface {
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, walletID uint) error
}

// Service defines the wallet management interface. Balance mutation is not
// here on purpose: balances change only through the transaction processor's
// commit path and the maintenance job.
type Service interface {
	CreateWallet(ctx context.Context, userID uint, input CreateWalletInput) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID, walletID uint) (*models.Wallet, error)
	ListWallets(ctx context.Context, userID uint) ([]models.Wallet, error)
	AddMember(ctx context.Context, ownerID, walletID, memberID uint) error
	SetOverdraft(ctx context.Context, ownerID, walletID uint, enabled bool) error
}
