package repository

import (
	"context"
	"time"

	"github.com/vytor/quizflash/internal/models"
)

// StatsRepository handles the per-user stats row
type StatsRepository interface {
	// Get returns nil without error when the user has no row yet.
	Get(ctx context.Context, userID int64) (*models.UserStats, error)
	// GetOrCreate inserts a zeroed row on first use.
	GetOrCreate(ctx context.Context, userID int64, now time.Time) (*models.UserStats, error)
	Save(ctx context.Context, stats models.UserStats) error
}
