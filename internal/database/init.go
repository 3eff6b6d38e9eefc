package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/race-scorer/internal/config"
)

// RequiredTables are the tables the scorer reads from
var RequiredTables = []string{"races", "runners", "factor_observations"}

// Initialize creates a database connection pool and verifies the scoring schema is present
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	missing, err := db.missingTables(ctx, RequiredTables)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if len(missing) > 0 {
		db.Close()
		return nil, fmt.Errorf("database schema incomplete, missing tables: %s", strings.Join(missing, ", "))
	}

	return db, nil
}

func (db *DB) missingTables(ctx context.Context, tables []string) ([]string, error) {
	var missing []string
	for _, table := range tables {
		var exists bool
		err := db.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
