// Package testutil provides shared test helpers for config files and SQLite fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/verbdrill/internal/config"
	"github.com/at-ishikawa/verbdrill/internal/database"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

// SetupTestConfig creates a config file using a SQLite database under tmpDir
// and the database reward sink without retries.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
practice:
  default_limit: 2
  max_limit: 10
reward:
  sink: database
  retry_attempts: 0
`,
		filepath.Join(tmpDir, "data", "verbdrill.db"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// NewSQLiteDB opens a migrated in-memory SQLite database closed at the end of the test.
func NewSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// SeedVerbs inserts verbs and returns them with their ids.
func SeedVerbs(t *testing.T, db *sqlx.DB, verbs ...verb.Verb) []verb.Verb {
	t.Helper()

	require.NoError(t, verb.NewDBRepository(db).BatchCreate(context.Background(), verbs))
	return verbs
}
