package recurring

import (
	"context"
	"sync"
	"testing"
	"time"

	domainerrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/repositories"
	"centime/internal/services/transaction"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleStore struct {
	mu        sync.Mutex
	schedules map[uint]*models.RecurringSchedule
}

func newScheduleStore(schedules ...*models.RecurringSchedule) *scheduleStore {
	s := &scheduleStore{schedules: make(map[uint]*models.RecurringSchedule)}
	for _, sched := range schedules {
		s.schedules[sched.ID] = sched
	}
	return s
}

func (s *scheduleStore) Create(ctx context.Context, sched *models.RecurringSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sched
	s.schedules[sched.ID] = &cp
	return nil
}

func (s *scheduleStore) GetByID(ctx context.Context, id uint) (*models.RecurringSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *scheduleStore) get(id uint) (*models.RecurringSchedule, error) {
	sched, ok := s.schedules[id]
	if !ok {
		return nil, repositories.ErrScheduleNotFound
	}
	cp := *sched
	return &cp, nil
}

func (s *scheduleStore) GetForUpdate(ctx context.Context, id uint) (*models.RecurringSchedule, error) {
	return s.get(id)
}

func (s *scheduleStore) Update(ctx context.Context, sched *models.RecurringSchedule) error {
	cp := *sched
	s.schedules[sched.ID] = &cp
	return nil
}

func (s *scheduleStore) ListDue(ctx context.Context, now time.Time) ([]models.RecurringSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.RecurringSchedule
	for _, sched := range s.schedules {
		if sched.Active && !sched.NextRunAt.After(now) {
			due = append(due, *sched)
		}
	}
	return due, nil
}

func (s *scheduleStore) ExecuteInTransaction(ctx context.Context, fn func(repositories.RecurringRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

type templateReader struct {
	txs map[uint]*models.Transaction
}

func (r *templateReader) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, ok := r.txs[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *templateReader) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	return nil, repositories.ErrTransactionNotFound
}

func (r *templateReader) Update(ctx context.Context, tx *models.Transaction) error { return nil }

func (r *templateReader) Filter(ctx context.Context, walletIDs []uint, filter repositories.TransactionFilter, page, pageSize int) ([]models.Transaction, int64, error) {
	return nil, 0, nil
}

type walletReader struct {
	wallets map[uint]*models.Wallet
}

func (r *walletReader) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *walletReader) Create(ctx context.Context, w *models.Wallet) error       { return nil }
func (r *walletReader) GetForUpdate(ctx context.Context, id uint) (*models.Wallet, error) {
	return r.GetByID(ctx, id)
}
func (r *walletReader) Update(ctx context.Context, w *models.Wallet) error { return nil }
func (r *walletReader) ListByUser(ctx context.Context, userID uint) ([]models.Wallet, error) {
	return nil, nil
}
func (r *walletReader) ListByType(ctx context.Context, walletType string) ([]models.Wallet, error) {
	return nil, nil
}
func (r *walletReader) ListOverdrawn(ctx context.Context) ([]models.Wallet, error) { return nil, nil }
func (r *walletReader) AddMember(ctx context.Context, m *models.WalletMember) error {
	return nil
}
func (r *walletReader) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return nil
}
func (r *walletReader) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	return nil
}
func (r *walletReader) ExecuteInTransaction(ctx context.Context, fn func(repositories.WalletRepository) error) error {
	return fn(r)
}

type recordingCommitter struct {
	mu       sync.Mutex
	requests []transaction.CreateRequest
	fail     error
}

func (c *recordingCommitter) Commit(ctx context.Context, req transaction.CreateRequest, userID uint) (*models.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return nil, c.fail
	}
	c.requests = append(c.requests, req)
	return &models.Transaction{ID: uint(len(c.requests)), Status: models.StatusCompleted}, nil
}

func fixture() (*scheduleStore, *templateReader, *walletReader, *recordingCommitter) {
	due := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	store := newScheduleStore(&models.RecurringSchedule{
		ID:            1,
		TransactionID: 100,
		WalletID:      1,
		Interval:      models.IntervalMonthly,
		NextRunAt:     due,
		Active:        true,
	})
	txs := &templateReader{txs: map[uint]*models.Transaction{
		100: {
			ID:       100,
			WalletID: 1,
			Kind:     models.TransactionKindWithdraw,
			Amount:   decimal.NewFromInt(50),
		},
	}}
	wallets := &walletReader{wallets: map[uint]*models.Wallet{
		1: {ID: 1, UserID: 10, Type: models.WalletTypePersonal, Status: models.WalletStatusActive},
	}}
	return store, txs, wallets, &recordingCommitter{}
}

func TestProcessDue_FiresAndAdvances(t *testing.T) {
	store, txs, wallets, committer := fixture()
	svc := NewService(store, txs, wallets, committer, nil, nil)

	fired, err := svc.ProcessDue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, fired)
	require.Len(t, committer.requests, 1)

	req := committer.requests[0]
	assert.Equal(t, uint(1), req.WalletID)
	assert.Equal(t, models.TransactionKindWithdraw, req.Kind)
	assert.True(t, req.Amount.Equal(decimal.NewFromInt(50)))
	assert.Nil(t, req.RecurrenceInterval, "occurrences must not spawn new series")

	sched, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC), sched.NextRunAt,
		"monthly series due January 15 comes due February 15")
}

func TestProcessDue_NothingDue(t *testing.T) {
	store, txs, wallets, committer := fixture()
	sched := store.schedules[1]
	sched.NextRunAt = time.Now().Add(time.Hour)
	svc := NewService(store, txs, wallets, committer, nil, nil)

	fired, err := svc.ProcessDue(context.Background())

	require.NoError(t, err)
	assert.Zero(t, fired)
	assert.Empty(t, committer.requests)
}

func TestProcessDue_OverlappingRunsFireOnce(t *testing.T) {
	store, txs, wallets, committer := fixture()
	// A just-due date: after one advance the series is no longer due, so a
	// second claim within the same window must find nothing.
	store.schedules[1].NextRunAt = time.Now().Add(-time.Minute)
	svc := NewService(store, txs, wallets, committer, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ProcessDue(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, committer.requests, 1, "a due date may be claimed at most once")
}

func TestProcessDue_FailedCommitConsumesDueDate(t *testing.T) {
	store, txs, wallets, committer := fixture()
	committer.fail = domainerrors.ErrInsufficientBalance
	svc := NewService(store, txs, wallets, committer, nil, nil)

	fired, err := svc.ProcessDue(context.Background())

	require.NoError(t, err, "one broken series must not fail the run")
	assert.Zero(t, fired)

	// The due date advanced anyway; the scheduler does not retry against a
	// drained wallet every tick.
	sched, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC), sched.NextRunAt)
}

func TestProcessDue_InactiveSkipped(t *testing.T) {
	store, txs, wallets, committer := fixture()
	store.schedules[1].Active = false
	svc := NewService(store, txs, wallets, committer, nil, nil)

	fired, err := svc.ProcessDue(context.Background())

	require.NoError(t, err)
	assert.Zero(t, fired)
}

func TestCancel(t *testing.T) {
	t.Run("owner cancels", func(t *testing.T) {
		store, txs, wallets, committer := fixture()
		svc := NewService(store, txs, wallets, committer, nil, nil)

		require.NoError(t, svc.Cancel(context.Background(), 1, 10))

		sched, err := store.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, sched.Active)

		// Cancelled series never fire again.
		fired, err := svc.ProcessDue(context.Background())
		require.NoError(t, err)
		assert.Zero(t, fired)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		store, txs, wallets, committer := fixture()
		svc := NewService(store, txs, wallets, committer, nil, nil)

		err := svc.Cancel(context.Background(), 1, 99)
		assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	})

	t.Run("missing schedule", func(t *testing.T) {
		store, txs, wallets, committer := fixture()
		svc := NewService(store, txs, wallets, committer, nil, nil)

		err := svc.Cancel(context.Background(), 42, 10)
		assert.ErrorIs(t, err, domainerrors.ErrTransactionNotFound)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		store, txs, wallets, committer := fixture()
		svc := NewService(store, txs, wallets, committer, nil, nil)

		require.NoError(t, svc.Cancel(context.Background(), 1, 10))
		require.NoError(t, svc.Cancel(context.Background(), 1, 10))
	})
}
