package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/race-scorer/internal/config"
)

// IntegrationEnv enables tests that need a live database
const IntegrationEnv = "RACE_SCORER_INTEGRATION"

// SetupTestDB connects to the database named by the default configuration and
// environment, skipping the test unless integration tests are enabled.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()
	if os.Getenv(IntegrationEnv) == "" {
		t.Skipf("integration test: set %s=1 to run against a database", IntegrationEnv)
	}

	cfg, err := config.LoadWithDefaults(os.Getenv("RACE_SCORER_CONFIG"))
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	t.Cleanup(db.Close)

	return db
}
