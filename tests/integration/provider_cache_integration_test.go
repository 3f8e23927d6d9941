//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisched/backend/internal/adapters/cache"
	"github.com/medisched/backend/internal/adapters/database"
)

func TestCachedProviderAdapter_ServesSecondReadFromCache(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	redisClient := maybeTestRedisClient(t)
	if redisClient == nil {
		t.Skip("Redis is not available")
	}
	defer redisClient.Close()

	pgClient := newTestPostgresClient(t)
	defer pgClient.Close()
	applyMigrations(t, pgClient)

	providerID := uuid.New().String()
	_, err := pgClient.DB().Exec(`
		INSERT INTO providers (id, name, speciality, email, consultation_start, consultation_end, off_days)
		VALUES ($1, 'Dr. Cache Test', 'Cardiology', $2, '09:00', '17:00', 'SUNDAY')
	`, providerID, fmt.Sprintf("%s@cache.test", providerID))
	require.NoError(t, err)
	defer pgClient.DB().Exec("DELETE FROM providers WHERE id = $1", providerID)

	cacheProvider := cache.NewRedisAdapter(redisClient)
	adapter := database.NewCachedProviderAdapter(database.NewProviderAdapter(pgClient), cacheProvider)

	ctx := context.Background()
	first, err := adapter.GetByID(ctx, providerID)
	require.NoError(t, err)

	// Cache population is asynchronous.
	key := fmt.Sprintf("provider:%s", providerID)
	var cached bool
	for i := 0; i < 20; i++ {
		cached, err = cacheProvider.Exists(ctx, key)
		require.NoError(t, err)
		if cached {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	assert.True(t, cached, "provider should be cached after a read")
	defer cacheProvider.Delete(ctx, key)

	second, err := adapter.GetByID(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
}
