package repository

import (
	"context"
	"errors"

	"github.com/vytor/quizflash/internal/models"
)

// ErrDuplicateEvent is returned by Append when the event key was already
// recorded for the user.
var ErrDuplicateEvent = errors.New("xp event already recorded")

// XPRepository handles the append-only XP history
type XPRepository interface {
	Append(ctx context.Context, entry models.XPHistoryEntry) (int64, error)
	// Sum returns the total amount and entry count for a user.
	Sum(ctx context.Context, userID int64) (total int, entries int, err error)
	List(ctx context.Context, userID int64, limit, offset int) ([]models.XPHistoryEntry, error)
}
