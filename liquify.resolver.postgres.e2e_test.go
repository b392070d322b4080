//go:build integration

package liquify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (*PostgresResolver, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("liquify_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	resolver, err := NewPostgresResolver(PostgresConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
		QueryTimeout:     30 * time.Second,
	})
	require.NoError(t, err, "failed to create postgres resolver")

	cleanup := func() {
		if resolver != nil {
			_ = resolver.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	}

	return resolver, cleanup
}

func TestPostgres_E2E_SaveResolveDelete(t *testing.T) {
	resolver, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("Save", func(t *testing.T) {
		err := resolver.Save(ctx, "header", "== {{ title }} ==")
		require.NoError(t, err)
	})

	t.Run("Resolve", func(t *testing.T) {
		source, found, err := resolver.Resolve(ctx, "header")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "== {{ title }} ==", source)
	})

	t.Run("ResolveMissing", func(t *testing.T) {
		_, found, err := resolver.Resolve(ctx, "no-such-partial")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		err := resolver.Save(ctx, "header", "## {{ title }} ##")
		require.NoError(t, err)

		source, found, err := resolver.Resolve(ctx, "header")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "## {{ title }} ##", source)
	})

	t.Run("Delete", func(t *testing.T) {
		err := resolver.Delete(ctx, "header")
		require.NoError(t, err)

		_, found, err := resolver.Resolve(ctx, "header")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestPostgres_E2E_RenderThroughResolver(t *testing.T) {
	resolver, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, resolver.Save(ctx, "signature", "-- {{ author | upcase }}"))

	engine := MustNew(WithResolver(resolver))
	out, err := engine.RenderString(ctx, `body {% include "signature", author: "ada" %}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "body -- ADA", out)
}

func TestPostgres_E2E_ClosedResolver(t *testing.T) {
	resolver, cleanup := setupPostgresContainer(t)
	defer cleanup()

	require.NoError(t, resolver.Close())

	_, _, err := resolver.Resolve(context.Background(), "anything")
	require.Error(t, err)
}
