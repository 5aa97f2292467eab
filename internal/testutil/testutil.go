package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// One connection only: every new connection to :memory: is an empty database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB))
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// NewClock returns a fixed UTC clock at 2024-06-10 09:00.
func NewClock() *clock.Fixed {
	return clock.NewFixed(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
}
