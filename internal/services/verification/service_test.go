package verification

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainerrors "centime/internal/errors"
	"centime/internal/models"
	"centime/internal/services/transaction"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommitter struct {
	commits int32
	fail    error
}

func (c *fakeCommitter) Commit(ctx context.Context, req transaction.CreateRequest, userID uint) (*models.Transaction, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	atomic.AddInt32(&c.commits, 1)
	return &models.Transaction{
		ID:       1,
		WalletID: req.WalletID,
		Kind:     req.Kind,
		Amount:   req.Amount,
		Status:   models.StatusCompleted,
	}, nil
}

func park(t *testing.T, store *MemoryStore, token, code string, ttl time.Duration) {
	t.Helper()
	err := store.Put(context.Background(), &transaction.PendingVerification{
		Token:  token,
		UserID: 10,
		Code:   code,
		Request: transaction.CreateRequest{
			WalletID: 1,
			Kind:     models.TransactionKindWithdraw,
			Amount:   decimal.NewFromInt(900),
		},
		ExpiresAt: time.Now().Add(ttl),
	}, ttl)
	require.NoError(t, err)
}

func TestVerify_Success(t *testing.T) {
	store := NewMemoryStore()
	committer := &fakeCommitter{}
	svc := NewService(store, committer, nil, nil)
	park(t, store, "tok", "123456", time.Minute)

	tx, err := svc.Verify(context.Background(), "tok", "123456")

	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, tx.Status)
	assert.EqualValues(t, 1, committer.commits)

	// The token is burned.
	_, err = svc.Verify(context.Background(), "tok", "123456")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
	assert.EqualValues(t, 1, committer.commits)
}

func TestVerify_UnknownToken(t *testing.T) {
	svc := NewService(NewMemoryStore(), &fakeCommitter{}, nil, nil)

	_, err := svc.Verify(context.Background(), "missing", "123456")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestVerify_Expired(t *testing.T) {
	store := NewMemoryStore()
	committer := &fakeCommitter{}
	svc := NewService(store, committer, nil, nil)
	park(t, store, "tok", "123456", -time.Second)

	_, err := svc.Verify(context.Background(), "tok", "123456")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
	assert.EqualValues(t, 0, committer.commits)
}

func TestVerify_WrongCodeAttemptCap(t *testing.T) {
	store := NewMemoryStore()
	committer := &fakeCommitter{}
	svc := NewService(store, committer, nil, nil)
	park(t, store, "tok", "123456", time.Minute)

	for i := 1; i < transaction.MaxVerificationAttempts; i++ {
		_, err := svc.Verify(context.Background(), "tok", "000000")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCode, "attempt %d", i)
	}

	_, err := svc.Verify(context.Background(), "tok", "000000")
	assert.ErrorIs(t, err, domainerrors.ErrTooManyAttempts)

	// The record is gone even for the right code.
	_, err = svc.Verify(context.Background(), "tok", "123456")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
	assert.EqualValues(t, 0, committer.commits)
}

func TestVerify_ConcurrentDoubleVerifyCommitsOnce(t *testing.T) {
	store := NewMemoryStore()
	committer := &fakeCommitter{}
	svc := NewService(store, committer, nil, nil)
	park(t, store, "tok", "123456", time.Minute)

	const callers = 16
	var wg sync.WaitGroup
	var successes int32
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Verify(context.Background(), "tok", "123456"); err == nil {
				atomic.AddInt32(&successes, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, successes, "exactly one caller may win the token")
	assert.EqualValues(t, 1, committer.commits)
}

func TestVerify_CommitFailureSurfaces(t *testing.T) {
	store := NewMemoryStore()
	committer := &fakeCommitter{fail: domainerrors.ErrInsufficientBalance}
	svc := NewService(store, committer, nil, nil)
	park(t, store, "tok", "123456", time.Minute)

	// The balance drifted below the amount after the code was issued.
	_, err := svc.Verify(context.Background(), "tok", "123456")
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)

	// The token was consumed regardless; re-verifying cannot retry the
	// commit with stale state.
	_, err = svc.Verify(context.Background(), "tok", "123456")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}
