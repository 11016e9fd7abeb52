package services

import (
	"context"
	"fmt"

	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

// TrialResetter is the interface that wraps the ResetTrials method.
//
// ResetTrials overwrites the allowance of the user with "targetID".
// It returns models.ErrUserNotFound for missing users and models.ErrCannotResetAdmin for admins.
type TrialResetter interface {
	ResetTrials(ctx context.Context, targetID int, count int) (*models.User, error)
}

// adminService implements the admin-only operations
type adminService struct {
	userRepo UserRepository
	resetter TrialResetter
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo UserRepository, resetter TrialResetter, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		resetter: resetter,
		logger:   logger,
	}
}

// RequireAdmin returns models.ErrForbidden unless the user is an admin
func RequireAdmin(user *models.User) error {
	if user == nil || !user.IsAdmin() {
		return models.ErrForbidden
	}
	return nil
}

// ListUsers returns every user with its usage count, ordered by ID
func (s *adminService) ListUsers(ctx context.Context, actor *models.User) ([]models.UserListItem, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListWithUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]models.UserListItem, 0, len(users))
	for i := range users {
		items = append(items, models.UserListItem{
			UserResponse: models.NewUserResponse(&users[i].User),
			TotalUsage:   users[i].UsageCount,
		})
	}

	return items, nil
}

// ResetTrials sets the allowance of another user on behalf of an admin
func (s *adminService) ResetTrials(ctx context.Context, actor *models.User, targetID int, count int) (*models.User, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	if targetID <= 0 {
		return nil, models.ErrInvalidUserID
	}

	user, err := s.resetter.ResetTrials(ctx, targetID, count)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin reset user trials",
		zap.Int("admin_id", actor.ID),
		zap.Int("user_id", targetID),
		zap.Int("trial_count", count),
	)
	return user, nil
}
