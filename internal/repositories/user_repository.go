package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

const userColumns = `id, email, password_hash, role, demo_count, created_at, updated_at`

// userRepository implements the Credential Store for user accounts
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads a row selected with userColumns
func scanUser(row rowScanner, user *models.User) error {
	var role string
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.DemoCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return err
	}
	user.Role = models.Role(role)
	return nil
}

// Create inserts a new user into the database and sets its ID.
// It returns models.ErrUserAlreadyExists when the email is taken.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, role, demo_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.DemoCount,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user: %w", models.ErrUserAlreadyExists)
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByEmail retrieves a user by exact email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? LIMIT 1`

	user := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, email), user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, id), user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("user_id", id))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// UpdatePassword replaces the password hash of a user
func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string, updatedAt time.Time) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, passwordHash, updatedAt, id); err != nil {
		r.logger.Error("failed to update password", zap.Error(err), zap.Int("user_id", id))
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// SetDemoCount overwrites the remaining trial count of a user
func (r *userRepository) SetDemoCount(ctx context.Context, id int, count int, updatedAt time.Time) error {
	query := `UPDATE users SET demo_count = ?, updated_at = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, count, updatedAt, id); err != nil {
		r.logger.Error("failed to set demo count", zap.Error(err), zap.Int("user_id", id))
		return fmt.Errorf("failed to set demo count: %w", err)
	}

	return nil
}

// UpdateRole changes the role of a user
func (r *userRepository) UpdateRole(ctx context.Context, id int, role models.Role, updatedAt time.Time) error {
	query := `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, string(role), updatedAt, id); err != nil {
		r.logger.Error("failed to update role", zap.Error(err), zap.Int("user_id", id))
		return fmt.Errorf("failed to update role: %w", err)
	}

	return nil
}

// ListWithUsage retrieves all users ordered by ID together with their usage log counts
func (r *userRepository) ListWithUsage(ctx context.Context) ([]models.UserWithUsage, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.role, u.demo_count, u.created_at, u.updated_at,
			COUNT(l.id) AS usage_count
		FROM users u
		LEFT JOIN usage_logs l ON l.user_id = u.id
		GROUP BY u.id, u.email, u.password_hash, u.role, u.demo_count, u.created_at, u.updated_at
		ORDER BY u.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.UserWithUsage{}
	for rows.Next() {
		var item models.UserWithUsage
		var role string
		if err := rows.Scan(
			&item.User.ID,
			&item.User.Email,
			&item.User.PasswordHash,
			&role,
			&item.User.DemoCount,
			&item.User.CreatedAt,
			&item.User.UpdatedAt,
			&item.UsageCount,
		); err != nil {
			r.logger.Error("failed to scan user", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		item.User.Role = models.Role(role)
		users = append(users, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating users", zap.Error(err))
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// ConsumeTrial records one trial use in a single transaction and returns the stored remaining count.
//
// When decrement is true the count is lowered with a conditional update that only succeeds
// while demo_count is positive, so concurrent consumers can never drive it below zero;
// a lost race yields models.ErrTrialsExhausted and nothing is written.
// The usage log is inserted in the same transaction in both cases.
func (r *userRepository) ConsumeTrial(ctx context.Context, userID int, decrement bool, demoType string, usedAt time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if decrement {
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET demo_count = demo_count - 1, updated_at = ? WHERE id = ? AND demo_count > 0`,
			usedAt, userID,
		)
		if err != nil {
			r.logger.Error("failed to decrement demo count", zap.Error(err), zap.Int("user_id", userID))
			return 0, fmt.Errorf("failed to decrement demo count: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			r.logger.Error("failed to get rows affected", zap.Error(err))
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return 0, models.ErrTrialsExhausted
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO usage_logs (user_id, demo_type, used_at) VALUES (?, ?, ?)`,
		userID, demoType, usedAt,
	); err != nil {
		r.logger.Error("failed to insert usage log", zap.Error(err), zap.Int("user_id", userID))
		return 0, fmt.Errorf("failed to insert usage log: %w", err)
	}

	var remaining int
	if err := tx.QueryRowContext(ctx, `SELECT demo_count FROM users WHERE id = ?`, userID).Scan(&remaining); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrUserNotFound
		}
		r.logger.Error("failed to read demo count", zap.Error(err), zap.Int("user_id", userID))
		return 0, fmt.Errorf("failed to read demo count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit transaction", zap.Error(err))
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return remaining, nil
}
