package store

import (
	"context"
	"fmt"
	"os"
	"testing"

	"fintrack/db/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func zeroLog() zerolog.Logger { return zerolog.Nop() }

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// testDatabaseURL points at the integration database. Tests are skipped
// unless TEST_DB_HOST is set.
func testDatabaseURL(t *testing.T) string {
	t.Helper()
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres store tests")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnvOrDefault("TEST_DB_USER", "postgres"),
		getEnvOrDefault("TEST_DB_PASSWORD", "password"),
		getEnvOrDefault("TEST_DB_HOST", "localhost"),
		getEnvOrDefault("TEST_DB_PORT", "5433"),
		getEnvOrDefault("TEST_DB_NAME", "fintrack_test"),
	)
}

func TestPostgresStore(t *testing.T) {
	url := testDatabaseURL(t)

	sqlDB, err := migrations.Open(url)
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, migrations.Up(sqlDB))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	runStoreContract(t, func(t *testing.T) Store {
		_, err := pool.Exec(context.Background(), "TRUNCATE stock_purchases, transactions, categories")
		require.NoError(t, err)
		return NewPostgres(pool, zeroLog())
	})
}
