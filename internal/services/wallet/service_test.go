package wallet

import (
	"context"
	"sync"
	"testing"

	domainerrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu      sync.Mutex
	wallets map[uint]*models.Wallet
	nextID  uint
}

func newMemoryRepo(wallets ...*models.Wallet) *memoryRepo {
	r := &memoryRepo{wallets: make(map[uint]*models.Wallet)}
	for _, w := range wallets {
		r.wallets[w.ID] = w
		if w.ID > r.nextID {
			r.nextID = w.ID
		}
	}
	return r
}

func (r *memoryRepo) Create(ctx context.Context, w *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	w.ID = r.nextID
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *memoryRepo) GetForUpdate(ctx context.Context, id uint) (*models.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryRepo) Update(ctx context.Context, w *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID uint) ([]models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Wallet
	for _, w := range r.wallets {
		if w.HasAccess(userID) {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListByType(ctx context.Context, walletType string) ([]models.Wallet, error) {
	return nil, nil
}

func (r *memoryRepo) ListOverdrawn(ctx context.Context) ([]models.Wallet, error) {
	return nil, nil
}

func (r *memoryRepo) AddMember(ctx context.Context, m *models.WalletMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[m.WalletID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.Members = append(w.Members, *m)
	return nil
}

func (r *memoryRepo) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return nil
}

func (r *memoryRepo) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	return nil
}

func (r *memoryRepo) ExecuteInTransaction(ctx context.Context, fn func(repositories.WalletRepository) error) error {
	return fn(r)
}

// nullCache misses every read and swallows writes.
type nullCache struct{}

func (nullCache) GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error) {
	return nil, nil
}
func (nullCache) CacheWallet(ctx context.Context, wallet *models.Wallet) error { return nil }
func (nullCache) InvalidateWallet(ctx context.Context, walletID uint) error { return nil }

func testService(repo *memoryRepo) Service {
	return NewService(repo, nullCache{}, Settings{
		DefaultCurrency:         "USD",
		DefaultInterestRate:     decimal.NewFromFloat(0.046),
		DefaultOverdraftLimit:   decimal.NewFromInt(500),
		NegativeMonthsThreshold: 3,
	}, nil)
}

func TestCreateWallet(t *testing.T) {
	tests := []struct {
		name  string
		input CreateWalletInput
		check func(*testing.T, *models.Wallet)
	}{
		{
			name:  "defaults to personal USD",
			input: CreateWalletInput{Name: "main"},
			check: func(t *testing.T, w *models.Wallet) {
				assert.Equal(t, models.WalletTypePersonal, w.Type)
				assert.Equal(t, "USD", w.Currency)
				assert.Equal(t, models.WalletStatusActive, w.Status)
				assert.False(t, w.OverdraftEnabled)
				assert.True(t, w.Balance.IsZero())
			},
		},
		{
			name:  "personal with overdraft gets the default limit",
			input: CreateWalletInput{Name: "main", OverdraftEnabled: true},
			check: func(t *testing.T, w *models.Wallet) {
				assert.True(t, w.OverdraftEnabled)
				assert.Equal(t, "500", w.OverdraftLimit.String())
				assert.Equal(t, "0.046", w.InterestRate.String())
			},
		},
		{
			name:  "savings carries the interest rate, no overdraft",
			input: CreateWalletInput{Name: "nest egg", Type: models.WalletTypeSavings, OverdraftEnabled: true},
			check: func(t *testing.T, w *models.Wallet) {
				assert.False(t, w.OverdraftEnabled)
				assert.Equal(t, "0.046", w.InterestRate.String())
			},
		},
		{
			name:  "explicit currency wins",
			input: CreateWalletInput{Name: "travel", Currency: "EUR"},
			check: func(t *testing.T, w *models.Wallet) {
				assert.Equal(t, "EUR", w.Currency)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testService(newMemoryRepo())
			w, err := svc.CreateWallet(context.Background(), 10, tt.input)
			require.NoError(t, err)
			tt.check(t, w)
		})
	}

	t.Run("unknown type is rejected", func(t *testing.T) {
		svc := testService(newMemoryRepo())
		_, err := svc.CreateWallet(context.Background(), 10, CreateWalletInput{Type: "offshore"})
		assert.ErrorIs(t, err, ErrInvalidType)
	})
}

func TestGetWallet_Authorization(t *testing.T) {
	repo := newMemoryRepo(&models.Wallet{ID: 1, UserID: 10, Type: models.WalletTypePersonal})
	svc := testService(repo)

	_, err := svc.GetWallet(context.Background(), 10, 1)
	assert.NoError(t, err)

	_, err = svc.GetWallet(context.Background(), 99, 1)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = svc.GetWallet(context.Background(), 10, 42)
	assert.ErrorIs(t, err, domainerrors.ErrWalletNotFound)
}

func TestAddMember(t *testing.T) {
	joint := &models.Wallet{ID: 1, UserID: 10, Type: models.WalletTypeJoint}
	personal := &models.Wallet{ID: 2, UserID: 10, Type: models.WalletTypePersonal}
	repo := newMemoryRepo(joint, personal)
	svc := testService(repo)
	ctx := context.Background()

	require.NoError(t, svc.AddMember(ctx, 10, 1, 20))

	w, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, w.HasAccess(20))

	assert.ErrorIs(t, svc.AddMember(ctx, 10, 1, 20), ErrMemberExists)
	assert.ErrorIs(t, svc.AddMember(ctx, 20, 1, 30), ErrNotOwner, "members cannot add members")
	assert.ErrorIs(t, svc.AddMember(ctx, 10, 2, 20), ErrNotJoint)
	assert.ErrorIs(t, svc.AddMember(ctx, 10, 42, 20), domainerrors.ErrWalletNotFound)
}

func TestSetOverdraft(t *testing.T) {
	repo := newMemoryRepo(
		&models.Wallet{ID: 1, UserID: 10, Type: models.WalletTypePersonal},
		&models.Wallet{ID: 2, UserID: 10, Type: models.WalletTypeSavings},
	)
	svc := testService(repo)
	ctx := context.Background()

	require.NoError(t, svc.SetOverdraft(ctx, 10, 1, true))
	w, _ := repo.GetByID(ctx, 1)
	assert.True(t, w.OverdraftEnabled)
	assert.Equal(t, "500", w.OverdraftLimit.String())

	require.NoError(t, svc.SetOverdraft(ctx, 10, 1, false))
	w, _ = repo.GetByID(ctx, 1)
	assert.False(t, w.OverdraftEnabled)

	assert.ErrorIs(t, svc.SetOverdraft(ctx, 10, 2, true), ErrInvalidType)
	assert.ErrorIs(t, svc.SetOverdraft(ctx, 99, 1, true), ErrNotOwner)
}
