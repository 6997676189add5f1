// Package user covers account registration, login and the administrative
// block/unblock hooks the maintenance job relies on.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"centime/internal/models"
	"centime/internal/repositories"
	"centime/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserBlocked        = errors.New("account is blocked")
)

// Manager is the block/unblock contract consumed by the maintenance job.
type Manager interface {
	Block(ctx context.Context, userID uint) error
	Unblock(ctx context.Context, userID uint) error
}

// Service implements registration, login and Manager.
type Service struct {
	repo repositories.UserRepository
	log  *zap.Logger
}

func NewService(repo repositories.UserRepository, log *zap.Logger) *Service {
	if repo == nil {
		panic("repo is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		Email:    email,
		Name:     name,
		Password: string(hashed),
		Role:     "user",
		Status:   models.UserStatusActive,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and issues JWT access/refresh tokens.
func (s *Service) Login(ctx context.Context, email, password string) (access, refresh string, err error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if u.Status == models.UserStatusBlocked {
		return "", "", ErrUserBlocked
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	u.LastLoginAt = time.Now()
	_ = s.repo.Update(ctx, u)

	return utils.GenerateTokens(&models.UserClaims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
}

// GetByID fetches a user.
func (s *Service) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Block marks the account blocked. Used by the overdraft maintenance job
// once a wallet has been negative for too many consecutive months.
func (s *Service) Block(ctx context.Context, userID uint) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Status == models.UserStatusBlocked {
		return nil
	}
	now := time.Now()
	u.Status = models.UserStatusBlocked
	u.BlockedAt = &now
	s.log.Warn("blocking user account", zap.Uint("user_id", userID))
	return s.repo.Update(ctx, u)
}

// Unblock reactivates the account.
func (s *Service) Unblock(ctx context.Context, userID uint) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Status == models.UserStatusActive {
		return nil
	}
	u.Status = models.UserStatusActive
	u.BlockedAt = nil
	s.log.Info("unblocking user account", zap.Uint("user_id", userID))
	return s.repo.Update(ctx, u)
}
