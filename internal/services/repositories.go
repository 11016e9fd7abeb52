package services

import (
	"context"
	"time"

	"github.com/magicalwebsite/backend/internal/models"
)

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	// Method Create inserts a new user into the database and sets its ID.
	//
	// If the email is already taken, an error wrapping models.ErrUserAlreadyExists is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by exact email.
	//
	// If user with such email does not exist, models.ErrUserNotFound is returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrUserNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method UpdatePassword replaces the password hash of a user and refreshes updated_at.
	UpdatePassword(ctx context.Context, id int, passwordHash string, updatedAt time.Time) error
	// Method SetDemoCount overwrites the remaining trial count of a user and refreshes updated_at.
	SetDemoCount(ctx context.Context, id int, count int, updatedAt time.Time) error
	// Method UpdateRole changes the role of a user and refreshes updated_at.
	UpdateRole(ctx context.Context, id int, role models.Role, updatedAt time.Time) error
	// Method ListWithUsage retrieves all users ordered by ID with their usage log counts.
	ListWithUsage(ctx context.Context) ([]models.UserWithUsage, error)
	// Method ConsumeTrial records one trial use atomically and returns the stored remaining count.
	//
	// "decrement" is false for admins, whose count is never touched.
	// When the conditional decrement matches no row, models.ErrTrialsExhausted is returned and nothing is written.
	ConsumeTrial(ctx context.Context, userID int, decrement bool, demoType string, usedAt time.Time) (int, error)
}

// UsageLogRepository is the interface that wraps methods for usage_logs table data access
type UsageLogRepository interface {
	// Method CountByUser returns the number of usage logs of a user.
	CountByUser(ctx context.Context, userID int) (int, error)
	// Method ListRecentByUser returns up to "limit" newest usage logs of a user, newest first.
	ListRecentByUser(ctx context.Context, userID int, limit int) ([]models.UsageLog, error)
}

// TokenIssuer is the interface that wraps identity token methods
type TokenIssuer interface {
	// Method GenerateToken creates a signed token bound to the email.
	GenerateToken(email string) (string, error)
	// Method ValidateToken verifies a token and returns its email.
	//
	// Expired tokens yield models.ErrTokenExpired, any other rejection models.ErrInvalidToken.
	ValidateToken(token string) (string, error)
}

// TrialRecorder is the interface that wraps trial consumption metrics
type TrialRecorder interface {
	// Method TrialConsumed counts a successful consumption.
	TrialConsumed(demoType string, role models.Role)
	// Method TrialRejected counts a consumption refused for lack of trials.
	TrialRejected(role models.Role)
}

// nopRecorder is used when no TrialRecorder is configured
type nopRecorder struct{}

func (nopRecorder) TrialConsumed(string, models.Role) {}
func (nopRecorder) TrialRejected(models.Role) {}
