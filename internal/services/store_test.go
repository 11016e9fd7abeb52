package services_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/magicalwebsite/backend/internal/auth/service"
	"github.com/magicalwebsite/backend/internal/models"
	"github.com/magicalwebsite/backend/internal/repositories"
	"github.com/magicalwebsite/backend/internal/services"
	"github.com/magicalwebsite/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupStore opens a throwaway SQLite database with the full schema
func setupStore(t *testing.T) (services.UserRepository, services.UsageLogRepository) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "trials.db") + "?_pragma=busy_timeout(5000)&_time_format=sqlite"
	db, err := storage.OpenSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	return repositories.NewUserRepository(db, logger), repositories.NewUsageLogRepository(db, logger)
}

func TestConsumeTrial_ConcurrentConsumersNeverOverspend(t *testing.T) {
	userRepo, usageRepo := setupStore(t)
	hasher, err := services.NewHasher("md5")
	require.NoError(t, err)
	auth := services.NewAuthService(userRepo, service.NewTokenGenerator("secret", time.Hour), hasher, zap.NewNop())
	entitlement := services.NewEntitlementService(userRepo, usageRepo, hasher, nil, zap.NewNop())
	ctx := context.Background()

	registered, err := auth.Register(ctx, "racer@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, models.DefaultDemoCount, registered.User.DemoCount)

	const consumers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		exhausted int
	)
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Every goroutine holds its own stale snapshot claiming trials remain
			snapshot, err := userRepo.GetByID(ctx, registered.User.ID)
			if err != nil {
				t.Error(err)
				return
			}
			snapshot.DemoCount = models.DefaultDemoCount

			_, err = entitlement.ConsumeTrial(ctx, snapshot, "race")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, models.ErrTrialsExhausted):
				exhausted++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, models.DefaultDemoCount, successes)
	assert.Equal(t, consumers-models.DefaultDemoCount, exhausted)

	stored, err := userRepo.GetByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.DemoCount)

	total, err := usageRepo.CountByUser(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDemoCount, total)
}

func TestConsumeTrial_AdminAlwaysLogsWithoutDecrement(t *testing.T) {
	userRepo, usageRepo := setupStore(t)
	hasher, err := services.NewHasher("md5")
	require.NoError(t, err)
	entitlement := services.NewEntitlementService(userRepo, usageRepo, hasher, nil, zap.NewNop())
	ctx := context.Background()

	action, err := services.EnsureAdmin(ctx, userRepo, hasher, "admin123", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, services.AdminActionCreate, action)

	admin, err := userRepo.GetByEmail(ctx, services.BootstrapAdminEmail)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := entitlement.ConsumeTrial(ctx, admin, "")
		require.NoError(t, err)
		assert.True(t, result.Remaining.Unlimited)
	}

	stored, err := userRepo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.DemoCount)

	perms, err := entitlement.Permissions(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, 3, perms.UsageStats.TotalUsage)
	require.Len(t, perms.UsageStats.RecentUsage, 3)
	assert.Equal(t, models.DefaultDemoType, perms.UsageStats.RecentUsage[0].DemoType)

	// A second bootstrap is a no-op
	action, err = services.EnsureAdmin(ctx, userRepo, hasher, "admin123", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, services.AdminActionNone, action)
}

func TestResetTrials_PersistsAndRefusesAdmins(t *testing.T) {
	userRepo, usageRepo := setupStore(t)
	hasher, err := services.NewHasher("md5")
	require.NoError(t, err)
	auth := services.NewAuthService(userRepo, service.NewTokenGenerator("secret", time.Hour), hasher, zap.NewNop())
	entitlement := services.NewEntitlementService(userRepo, usageRepo, hasher, nil, zap.NewNop())
	ctx := context.Background()

	_, err = services.EnsureAdmin(ctx, userRepo, hasher, "admin123", zap.NewNop())
	require.NoError(t, err)
	admin, err := userRepo.GetByEmail(ctx, services.BootstrapAdminEmail)
	require.NoError(t, err)

	registered, err := auth.Register(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	updated, err := entitlement.ResetTrials(ctx, registered.User.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.DemoCount)

	stored, err := userRepo.GetByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.DemoCount)

	_, err = entitlement.ResetTrials(ctx, admin.ID, 10)
	assert.ErrorIs(t, err, models.ErrCannotResetAdmin)

	_, err = entitlement.ResetTrials(ctx, 9999, 10)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
