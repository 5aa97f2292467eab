package repository

import (
	"context"
	"time"

	"github.com/vytor/quizflash/internal/models"
)

// AchievementRepository handles achievement unlocks and their notification state
type AchievementRepository interface {
	// InsertUnlock reports false when the achievement was already unlocked.
	InsertUnlock(ctx context.Context, userID int64, achievementID string, at time.Time) (bool, error)
	List(ctx context.Context, filter models.UnlockFilter) ([]models.AchievementUnlock, error)
	MarkNotified(ctx context.Context, id int64, at time.Time) error
}
