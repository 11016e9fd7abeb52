package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magicalwebsite/backend/internal/models"
	"go.uber.org/zap"
)

// usageLogRepository reads the append-only trial usage history
type usageLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUsageLogRepository creates a new usage log repository
func NewUsageLogRepository(db *sql.DB, logger *zap.Logger) *usageLogRepository {
	return &usageLogRepository{
		db:     db,
		logger: logger,
	}
}

// CountByUser returns the number of usage logs of a user
func (r *usageLogRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	query := `SELECT COUNT(*) FROM usage_logs WHERE user_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Error("failed to count usage logs", zap.Error(err), zap.Int("user_id", userID))
		return 0, fmt.Errorf("failed to count usage logs: %w", err)
	}

	return count, nil
}

// ListRecentByUser returns up to limit newest usage logs of a user, newest first
func (r *usageLogRepository) ListRecentByUser(ctx context.Context, userID int, limit int) ([]models.UsageLog, error) {
	query := `
		SELECT id, user_id, demo_type, used_at
		FROM usage_logs
		WHERE user_id = ?
		ORDER BY used_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("failed to query usage logs", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to query usage logs: %w", err)
	}
	defer rows.Close()

	logs := []models.UsageLog{}
	for rows.Next() {
		var log models.UsageLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.DemoType, &log.UsedAt); err != nil {
			r.logger.Error("failed to scan usage log", zap.Error(err))
			return nil, fmt.Errorf("failed to scan usage log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating usage logs", zap.Error(err))
		return nil, fmt.Errorf("error iterating usage logs: %w", err)
	}

	return logs, nil
}
