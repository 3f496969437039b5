package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/verbdrill/internal/config"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "driver: sqlite")

	cfg, err := config.Load(got)
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 2, cfg.Practice.DefaultLimit)
	assert.Zero(t, cfg.Reward.RetryAttempts)
}

func TestSeedVerbs(t *testing.T) {
	db := NewSQLiteDB(t)
	got := SeedVerbs(t, db,
		verb.Verb{Infinitive: "go", Past: "went", Participle: "gone"},
		verb.Verb{Infinitive: "see", Past: "saw", Participle: "seen"},
	)
	assert.NotZero(t, got[0].ID)
	assert.NotZero(t, got[1].ID)

	count, err := verb.NewDBRepository(db).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
