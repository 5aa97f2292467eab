package repository

import (
	"context"
	"time"

	"github.com/vytor/quizflash/internal/models"
)

// NotebookRepository handles error notebook entries
type NotebookRepository interface {
	// Upsert records a wrong answer. An existing entry gets the new answer
	// and goes back to pending.
	Upsert(ctx context.Context, userID, questionID int64, userAnswer string, at time.Time) (*models.ErrorNotebookEntry, error)
	Get(ctx context.Context, userID, questionID int64) (*models.ErrorNotebookEntry, error)
	List(ctx context.Context, filter models.NotebookFilter) ([]models.ErrorNotebookEntry, error)
	Counts(ctx context.Context, userID int64) (models.NotebookCounts, error)
	// SetReviewed reports false when no entry matched.
	SetReviewed(ctx context.Context, userID, questionID int64, reviewed bool, at time.Time) (bool, error)
	Delete(ctx context.Context, userID, questionID int64) (bool, error)
}
