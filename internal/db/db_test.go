package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	for _, table := range []string{"user_stats", "xp_history", "proficiency_results", "achievement_unlocks", "error_notebook"} {
		var name string
		err := sqlDB.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}

	versions, err := Migrations()
	require.NoError(t, err)
	var applied int
	require.NoError(t, sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, len(versions), applied)
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Migrate(ctx, sqlDB))
	require.NoError(t, Migrate(ctx, sqlDB))
}

func TestApplyMigration_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	script := `CREATE TABLE scratch (id INTEGER PRIMARY KEY);
INSERT INTO no_such_table (id) VALUES (1);`
	err = applyMigration(ctx, sqlDB, "9999_broken.sql", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migration 9999_broken.sql")

	var tables int
	require.NoError(t, sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'scratch'`).Scan(&tables))
	assert.Zero(t, tables, "partial schema is rolled back")

	applied, err := isMigrationApplied(ctx, sqlDB, "9999_broken.sql")
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, applyMigration(ctx, sqlDB, "9999_fixed.sql", `CREATE TABLE scratch (id INTEGER PRIMARY KEY);`))
	applied, err = isMigrationApplied(ctx, sqlDB, "9999_fixed.sql")
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestSchema_EventKeyUnique(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	insert := `INSERT INTO xp_history (user_id, amount, reason, event_key) VALUES (?, ?, ?, ?)`
	_, err = sqlDB.ExecContext(ctx, insert, 1, 10, "quiz", "s1")
	require.NoError(t, err)
	_, err = sqlDB.ExecContext(ctx, insert, 1, 10, "quiz", "s1")
	assert.Error(t, err)

	// other users and keyless grants are not constrained
	_, err = sqlDB.ExecContext(ctx, insert, 2, 10, "quiz", "s1")
	assert.NoError(t, err)
	_, err = sqlDB.ExecContext(ctx, insert, 1, 10, "bonus", nil)
	assert.NoError(t, err)
	_, err = sqlDB.ExecContext(ctx, insert, 1, 10, "bonus", nil)
	assert.NoError(t, err)
}
