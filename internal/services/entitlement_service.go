package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

const (
	adminTrialMessage = "Admin unlimited access"
	userTrialMessage  = "Trial used successfully"
)

// entitlementService owns the trial allowance of every account.
// All reads and mutations of demo_count go through it.
type entitlementService struct {
	userRepo  UserRepository
	usageRepo UsageLogRepository
	hasher    Hasher
	recorder  TrialRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewEntitlementService creates a new entitlement service.
// A nil recorder disables trial metrics.
func NewEntitlementService(
	userRepo UserRepository,
	usageRepo UsageLogRepository,
	hasher Hasher,
	recorder TrialRecorder,
	logger *zap.Logger,
) *entitlementService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &entitlementService{
		userRepo:  userRepo,
		usageRepo: usageRepo,
		hasher:    hasher,
		recorder:  recorder,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HasRemainingTrials reports whether the user may consume a trial
func (s *entitlementService) HasRemainingTrials(user *models.User) bool {
	return user.IsAdmin() || user.DemoCount > 0
}

// RemainingTrials returns the user's allowance view
func (s *entitlementService) RemainingTrials(user *models.User) models.Allowance {
	if user.IsAdmin() {
		return models.Allowance{Unlimited: true}
	}
	return models.Allowance{Count: user.DemoCount}
}

// ConsumeTrial spends one trial of the user and logs it.
//
// Regular users are decremented with a conditional update, so two concurrent calls against a
// single remaining trial yield one success and one models.ErrTrialsExhausted.
// Admins are never decremented but every use is still logged.
// On success the user's in-memory DemoCount and UpdatedAt follow the stored values.
func (s *entitlementService) ConsumeTrial(ctx context.Context, user *models.User, demoType string) (*models.TrialResult, error) {
	demoType, err := normalizeDemoType(demoType)
	if err != nil {
		return nil, err
	}

	if !s.HasRemainingTrials(user) {
		s.recorder.TrialRejected(user.Role)
		return nil, models.ErrTrialsExhausted
	}

	isAdmin := user.IsAdmin()
	now := s.now()
	remaining, err := s.userRepo.ConsumeTrial(ctx, user.ID, !isAdmin, demoType, now)
	if err != nil {
		if errors.Is(err, models.ErrTrialsExhausted) {
			s.recorder.TrialRejected(user.Role)
			user.DemoCount = 0
			return nil, err
		}
		return nil, fmt.Errorf("failed to consume trial: %w", err)
	}
	s.recorder.TrialConsumed(demoType, user.Role)

	if isAdmin {
		return &models.TrialResult{
			Remaining: models.Allowance{Unlimited: true},
			IsAdmin:   true,
			Message:   adminTrialMessage,
		}, nil
	}

	user.DemoCount = remaining
	user.UpdatedAt = now
	return &models.TrialResult{
		Remaining: models.Allowance{Count: remaining},
		IsAdmin:   false,
		Message:   userTrialMessage,
	}, nil
}

// CheckTrial describes the user's current allowance without changing it
func (s *entitlementService) CheckTrial(user *models.User) *models.TrialStatus {
	return &models.TrialStatus{
		HasTrials: s.HasRemainingTrials(user),
		Remaining: s.RemainingTrials(user),
		IsAdmin:   user.IsAdmin(),
		Role:      user.Role,
		User:      user,
	}
}

// Permissions returns the user's permission flags with total usage and the newest usage entries
func (s *entitlementService) Permissions(ctx context.Context, user *models.User) (*models.Permissions, error) {
	total, err := s.usageRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count usage: %w", err)
	}

	logs, err := s.usageRepo.ListRecentByUser(ctx, user.ID, models.RecentUsageLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent usage: %w", err)
	}

	recent := make([]models.RecentUsage, 0, len(logs))
	for _, l := range logs {
		recent = append(recent, models.RecentUsage{DemoType: l.DemoType, UsedAt: l.UsedAt})
	}

	return &models.Permissions{
		User: user,
		Flags: models.PermissionFlags{
			CanUseTrial:        s.HasRemainingTrials(user),
			IsAdmin:            user.IsAdmin(),
			HasUnlimitedAccess: user.IsAdmin(),
			RemainingTrials:    s.RemainingTrials(user),
		},
		UsageStats: models.UsageStats{
			TotalUsage:  total,
			RecentUsage: recent,
		},
	}, nil
}

// ChangePassword replaces the user's password.
// Checks run in order: current password, new password length, new password differs.
func (s *entitlementService) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return models.ErrMissingFields
	}
	if !s.hasher.Matches(user.PasswordHash, currentPassword) {
		return models.ErrIncorrectCurrentPassword
	}
	if utf8.RuneCountInString(newPassword) < models.MinPasswordLength {
		return models.ErrPasswordTooShort
	}
	if s.hasher.Matches(user.PasswordHash, newPassword) {
		return models.ErrPasswordUnchanged
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}

	now := s.now()
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash, now); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = now
	s.logger.Info("password changed", zap.Int("user_id", user.ID))
	return nil
}

// ResetTrials overwrites a regular user's allowance. Negative counts are stored as given.
// Admin targets are refused with models.ErrCannotResetAdmin.
func (s *entitlementService) ResetTrials(ctx context.Context, targetID int, count int) (*models.User, error) {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin() {
		return nil, models.ErrCannotResetAdmin
	}

	now := s.now()
	if err := s.userRepo.SetDemoCount(ctx, target.ID, count, now); err != nil {
		return nil, fmt.Errorf("failed to reset trials: %w", err)
	}

	target.DemoCount = count
	target.UpdatedAt = now
	s.logger.Info("user trials reset", zap.Int("user_id", target.ID), zap.Int("trial_count", count))
	return target, nil
}
