package repository

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so the same repository
// code runs inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repositories groups every repository bound to the same connection or
// transaction.
type Repositories struct {
	Stats        StatsRepository
	XP           XPRepository
	Proficiency  ProficiencyRepository
	Achievements AchievementRepository
	Notebook     NotebookRepository
}

// Transactor runs fn with repositories bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Store is the record store as seen by the services layer.
type Store interface {
	Transactor
	// Repositories returns repositories bound to the plain connection, for
	// single-statement reads.
	Repositories() Repositories
	Ping(ctx context.Context) error
}
