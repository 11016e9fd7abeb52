package handlers

import (
	"context"
	"errors"

	"github.com/magicalwebsite/backend/internal/models"
)

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	result *models.AuthResult
	err    error

	email    string
	password string
}

func (m *mockAuthService) Register(ctx context.Context, email, password string) (*models.AuthResult, error) {
	m.email, m.password = email, password
	return m.result, m.err
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	m.email, m.password = email, password
	return m.result, m.err
}

// mockEntitlementService is a mock implementation of EntitlementService
type mockEntitlementService struct {
	trialResult *models.TrialResult
	consumeErr  error
	permissions *models.Permissions
	permErr     error
	changeErr   error

	demoType     string
	consumeCalls int
	passwords    [2]string
}

func (m *mockEntitlementService) ConsumeTrial(ctx context.Context, user *models.User, demoType string) (*models.TrialResult, error) {
	m.consumeCalls++
	m.demoType = demoType
	return m.trialResult, m.consumeErr
}

func (m *mockEntitlementService) CheckTrial(user *models.User) *models.TrialStatus {
	status := &models.TrialStatus{
		HasTrials: user.IsAdmin() || user.DemoCount > 0,
		Remaining: models.Allowance{Count: user.DemoCount},
		IsAdmin:   user.IsAdmin(),
		Role:      user.Role,
		User:      user,
	}
	if user.IsAdmin() {
		status.Remaining = models.Allowance{Unlimited: true}
	}
	return status
}

func (m *mockEntitlementService) Permissions(ctx context.Context, user *models.User) (*models.Permissions, error) {
	return m.permissions, m.permErr
}

func (m *mockEntitlementService) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	m.passwords = [2]string{currentPassword, newPassword}
	return m.changeErr
}

// mockAdminService is a mock implementation of AdminService
type mockAdminService struct {
	users    []models.UserListItem
	listErr  error
	user     *models.User
	resetErr error

	targetID int
	count    int
}

func (m *mockAdminService) ListUsers(ctx context.Context, actor *models.User) ([]models.UserListItem, error) {
	return m.users, m.listErr
}

func (m *mockAdminService) ResetTrials(ctx context.Context, actor *models.User, targetID int, count int) (*models.User, error) {
	m.targetID, m.count = targetID, count
	return m.user, m.resetErr
}

// mockPinger is a mock implementation of Pinger
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

var errStore = errors.New("connection refused")
