package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

// authService implements registration, login and identity resolution
type authService struct {
	userRepo UserRepository
	tokens   TokenIssuer
	hasher   Hasher
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokens TokenIssuer, hasher Hasher, logger *zap.Logger) *authService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a regular account with the default allowance and issues a token for it
func (s *authService) Register(ctx context.Context, email, password string) (*models.AuthResult, error) {
	if email == "" || password == "" {
		return nil, models.ErrMissingFields
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, models.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	now := s.now()
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		DemoCount:    models.DefaultDemoCount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// A concurrent registration that won the race surfaces here as ErrUserAlreadyExists
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.Email)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err), zap.Int("user_id", user.ID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered", zap.Int("user_id", user.ID))
	return &models.AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	if email == "" || password == "" {
		return nil, models.ErrMissingFields
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Matches(user.PasswordHash, password) {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Email)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err), zap.Int("user_id", user.ID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResult{Token: token, User: user}, nil
}

// ResolveIdentity verifies a token and loads the current state of the user it is bound to
func (s *authService) ResolveIdentity(ctx context.Context, token string) (*models.User, error) {
	email, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return user, nil
}
