package user

import (
	"context"
	"testing"

	"centime/internal/models"
	"centime/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]*models.User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, u *models.User) error {
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memoryUserRepo) Update(ctx context.Context, u *models.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func register(t *testing.T, svc *Service) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), "jane@example.com", "Jane", "s3cret-pass")
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newMemoryUserRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	u := register(t, svc)
	assert.NotEqual(t, "s3cret-pass", u.Password, "password must be stored hashed")
	assert.Equal(t, models.UserStatusActive, u.Status)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "jane@example.com", "Other", "whatever")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("valid credentials", func(t *testing.T) {
		access, refresh, err := svc.Login(ctx, "jane@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "jane@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestBlockUnblock(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newMemoryUserRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()
	u := register(t, svc)

	require.NoError(t, svc.Block(ctx, u.ID))
	blocked, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusBlocked, blocked.Status)
	assert.NotNil(t, blocked.BlockedAt)

	t.Run("blocked account cannot log in", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "jane@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrUserBlocked)
	})

	t.Run("blocking twice is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.Block(ctx, u.ID))
	})

	require.NoError(t, svc.Unblock(ctx, u.ID))
	active, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, active.Status)
	assert.Nil(t, active.BlockedAt)

	_, _, err = svc.Login(ctx, "jane@example.com", "s3cret-pass")
	assert.NoError(t, err)
}
