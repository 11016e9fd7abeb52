package services

import (
	"context"
	"time"

	"github.com/magicalwebsite/backend/internal/models"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user      *models.User
	getErr    error
	exists    bool
	existsErr error
	createErr error
	updateErr error
	users     []models.UserWithUsage
	listErr   error

	remaining  int
	consumeErr error

	// createdConcurrently becomes the stored user when Create fails, simulating a lost insert race
	createdConcurrently *models.User

	created        *models.User
	consumeCalls   int
	consumeArgs    consumeArgs
	updatedHash    string
	updatedCount   *int
	updatedRole    models.Role
	updatedAt      time.Time
	existsChecked  bool
	getByEmailArgs []string
}

type consumeArgs struct {
	userID    int
	decrement bool
	demoType  string
	usedAt    time.Time
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		if m.createdConcurrently != nil {
			m.user = m.createdConcurrently
		}
		return m.createErr
	}
	user.ID = 42
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.getByEmailArgs = append(m.getByEmailArgs, email)
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.user == nil {
		return nil, models.ErrUserNotFound
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.user == nil || m.user.ID != id {
		return nil, models.ErrUserNotFound
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.existsChecked = true
	return m.exists, m.existsErr
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string, updatedAt time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedHash = passwordHash
	m.updatedAt = updatedAt
	return nil
}

func (m *mockUserRepository) SetDemoCount(ctx context.Context, id int, count int, updatedAt time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedCount = &count
	m.updatedAt = updatedAt
	return nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id int, role models.Role, updatedAt time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedRole = role
	m.updatedAt = updatedAt
	return nil
}

func (m *mockUserRepository) ListWithUsage(ctx context.Context) ([]models.UserWithUsage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.users, nil
}

func (m *mockUserRepository) ConsumeTrial(ctx context.Context, userID int, decrement bool, demoType string, usedAt time.Time) (int, error) {
	m.consumeCalls++
	m.consumeArgs = consumeArgs{userID: userID, decrement: decrement, demoType: demoType, usedAt: usedAt}
	if m.consumeErr != nil {
		return 0, m.consumeErr
	}
	return m.remaining, nil
}

// mockUsageLogRepository is a mock implementation of UsageLogRepository
type mockUsageLogRepository struct {
	count    int
	countErr error
	logs     []models.UsageLog
	listErr  error
	limit    int
}

func (m *mockUsageLogRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *mockUsageLogRepository) ListRecentByUser(ctx context.Context, userID int, limit int) ([]models.UsageLog, error) {
	m.limit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.logs, nil
}

// mockTokenIssuer is a mock implementation of TokenIssuer
type mockTokenIssuer struct {
	token       string
	generateErr error
	email       string
	validateErr error
}

func (m *mockTokenIssuer) GenerateToken(email string) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.token + ":" + email, nil
}

func (m *mockTokenIssuer) ValidateToken(token string) (string, error) {
	if m.validateErr != nil {
		return "", m.validateErr
	}
	return m.email, nil
}

// mockRecorder is a mock implementation of TrialRecorder
type mockRecorder struct {
	consumed []string
	rejected []models.Role
}

func (m *mockRecorder) TrialConsumed(demoType string, role models.Role) {
	m.consumed = append(m.consumed, demoType+"/"+string(role))
}

func (m *mockRecorder) TrialRejected(role models.Role) {
	m.rejected = append(m.rejected, role)
}

// mockResetter is a mock implementation of TrialResetter
type mockResetter struct {
	user  *models.User
	err   error
	calls int
}

func (m *mockResetter) ResetTrials(ctx context.Context, targetID int, count int) (*models.User, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}
