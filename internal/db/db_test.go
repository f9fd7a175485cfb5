package db

import (
	"context"
	"os"
	"testing"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL, runs
// migrations, and returns a cleanup function that wipes the test data.
// Tests are skipped when no test database is configured.
func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	ctx := context.Background()
	database, err := New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		database.Pool.Exec(ctx, "DELETE FROM deliveries")
		database.Pool.Exec(ctx, "DELETE FROM search_lookups")
		database.Pool.Exec(ctx, "DELETE FROM keys")
		database.Pool.Exec(ctx, "DELETE FROM users")
		database.Close()
	}

	return database, cleanup
}
