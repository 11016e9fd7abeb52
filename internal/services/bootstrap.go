package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

// BootstrapAdminEmail is the account guaranteed to exist with the admin role
const BootstrapAdminEmail = "admin@example.com"

// AdminAction is the change needed to bring the bootstrap admin account into shape
type AdminAction int

const (
	AdminActionNone AdminAction = iota
	AdminActionCreate
	AdminActionPromote
)

// String implements fmt.Stringer
func (a AdminAction) String() string {
	switch a {
	case AdminActionCreate:
		return "create"
	case AdminActionPromote:
		return "promote"
	default:
		return "none"
	}
}

// ReconcileAdmin decides what to do with the current bootstrap admin account, nil meaning absent
func ReconcileAdmin(current *models.User) AdminAction {
	if current == nil {
		return AdminActionCreate
	}
	if current.Role != models.RoleAdmin {
		return AdminActionPromote
	}
	return AdminActionNone
}

// EnsureAdmin makes sure the bootstrap admin account exists with the admin role.
// A new account gets the configured password and no trials; an existing one keeps its password.
// When another instance creates the account first, the account is read again and reconciled once more.
func EnsureAdmin(ctx context.Context, userRepo UserRepository, hasher Hasher, password string, logger *zap.Logger) (AdminAction, error) {
	action, err := reconcileAdmin(ctx, userRepo, hasher, password, logger)
	if errors.Is(err, models.ErrUserAlreadyExists) {
		logger.Info("admin user created concurrently, reconciling again", zap.String("email", BootstrapAdminEmail))
		return reconcileAdmin(ctx, userRepo, hasher, password, logger)
	}
	return action, err
}

// reconcileAdmin reads the bootstrap admin account and applies the action decided by ReconcileAdmin
func reconcileAdmin(ctx context.Context, userRepo UserRepository, hasher Hasher, password string, logger *zap.Logger) (AdminAction, error) {
	current, err := userRepo.GetByEmail(ctx, BootstrapAdminEmail)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		current = nil
	case err != nil:
		return AdminActionNone, fmt.Errorf("failed to get admin user: %w", err)
	}

	action := ReconcileAdmin(current)
	now := time.Now().UTC()

	switch action {
	case AdminActionCreate:
		hash, err := hasher.Hash(password)
		if err != nil {
			return action, err
		}
		admin := &models.User{
			Email:        BootstrapAdminEmail,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			DemoCount:    0,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			return action, fmt.Errorf("failed to create admin user: %w", err)
		}
		logger.Info("admin user created", zap.String("email", BootstrapAdminEmail), zap.Int("user_id", admin.ID))
	case AdminActionPromote:
		if err := userRepo.UpdateRole(ctx, current.ID, models.RoleAdmin, now); err != nil {
			return action, fmt.Errorf("failed to promote admin user: %w", err)
		}
		logger.Info("admin user promoted", zap.String("email", BootstrapAdminEmail), zap.Int("user_id", current.ID))
	}

	return action, nil
}
