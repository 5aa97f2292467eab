package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/models"
)

func TestNotebookService_Lifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	entry, err := e.notebook.RecordWrong(ctx, user, 42, "C")
	require.NoError(t, err)
	assert.Equal(t, models.NotebookPending, entry.Status())

	require.NoError(t, e.notebook.MarkReviewed(ctx, user, 42))
	reviewed, err := e.notebook.List(ctx, models.NotebookFilter{UserID: user, Status: models.NotebookReviewed})
	require.NoError(t, err)
	require.Len(t, reviewed, 1)

	// missing it again puts the entry back in the queue
	e.clock.Advance(time.Hour)
	again, err := e.notebook.RecordWrong(ctx, user, 42, "D")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, again.ID)
	assert.Equal(t, "D", again.UserAnswer)
	assert.False(t, again.Reviewed)

	counts, err := e.notebook.Counts(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.NotebookCounts{Pending: 1, Reviewed: 0, Total: 1}, *counts)

	require.NoError(t, e.notebook.MarkReviewed(ctx, user, 42))
	require.NoError(t, e.notebook.MarkPending(ctx, user, 42))

	removed, err := e.notebook.ResolveReview(ctx, user, 42)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = e.notebook.ResolveReview(ctx, user, 42)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestNotebookService_MissingEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	assert.True(t, errors.Is(e.notebook.MarkReviewed(ctx, user, 7), errors.ErrCodeNotFound))
	assert.True(t, errors.Is(e.notebook.MarkPending(ctx, user, 7), errors.ErrCodeNotFound))
	assert.True(t, errors.Is(e.notebook.Remove(ctx, user, 7), errors.ErrCodeNotFound))
}

func TestNotebookService_ListFilters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, q := range []int64{1, 2, 3} {
		_, err := e.notebook.RecordWrong(ctx, user, q, "A")
		require.NoError(t, err)
		e.clock.Advance(time.Minute)
	}
	require.NoError(t, e.notebook.MarkReviewed(ctx, user, 2))
	_, err := e.notebook.RecordWrong(ctx, user+1, 1, "A")
	require.NoError(t, err)

	all, err := e.notebook.List(ctx, models.NotebookFilter{UserID: user})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := e.notebook.List(ctx, models.NotebookFilter{UserID: user, Status: models.NotebookPending})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(3), pending[0].QuestionID)

	_, err = e.notebook.List(ctx, models.NotebookFilter{UserID: user, Status: "archived"})
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
}

func TestNotebookService_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.notebook.RecordWrong(ctx, user, 0, "A")
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))

	_, err = e.notebook.RecordWrong(ctx, -1, 5, "A")
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))

	_, err = e.notebook.Counts(ctx, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
}
