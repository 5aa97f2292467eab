package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store hands out repositories bound to the database or to a transaction.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store. It implements repository.Transactor.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Repositories returns repositories that run outside any transaction.
func (s *Store) Repositories() repository.Repositories {
	return bind(s.db)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return tx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(ctx, bind(tx))
	})
}

func bind(db repository.DBTX) repository.Repositories {
	return repository.Repositories{
		Stats:        NewStatsRepository(db),
		XP:           NewXPRepository(db),
		Proficiency:  NewProficiencyRepository(db),
		Achievements: NewAchievementRepository(db),
		Notebook:     NewNotebookRepository(db),
	}
}

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func pageBounds(limit, offset, defaultLimit int) (uint64, uint64) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uint64(limit), uint64(offset)
}
