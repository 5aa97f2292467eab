package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type notebookRepository struct {
	db repository.DBTX
}

// NewNotebookRepository creates a new NotebookRepository implementation
func NewNotebookRepository(db repository.DBTX) repository.NotebookRepository {
	return &notebookRepository{db: db}
}

const notebookColumns = `id, user_id, question_id, user_answer, reviewed, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*models.ErrorNotebookEntry, error) {
	var e models.ErrorNotebookEntry
	if err := row.Scan(&e.ID, &e.UserID, &e.QuestionID, &e.UserAnswer, &e.Reviewed, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *notebookRepository) Upsert(ctx context.Context, userID, questionID int64, userAnswer string, at time.Time) (*models.ErrorNotebookEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("notebook_repo")
	log.Debug("recording wrong answer: user_id=%d, question_id=%d", userID, questionID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO error_notebook (user_id, question_id, user_answer, reviewed, created_at, updated_at)
VALUES (?, ?, ?, 0, ?, ?)
ON CONFLICT(user_id, question_id) DO UPDATE SET
    user_answer = excluded.user_answer,
    reviewed = 0,
    updated_at = excluded.updated_at
`, userID, questionID, userAnswer, at.UTC(), at.UTC())
	if err != nil {
		log.Error("failed to upsert notebook entry: %v", err)
		return nil, err
	}
	return r.Get(ctx, userID, questionID)
}

func (r *notebookRepository) Get(ctx context.Context, userID, questionID int64) (*models.ErrorNotebookEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, `
SELECT `+notebookColumns+`
FROM error_notebook
WHERE user_id = ? AND question_id = ?
`, userID, questionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("notebook_repo").Error("failed to get notebook entry: %v", err)
		return nil, err
	}
	return e, nil
}

func (r *notebookRepository) List(ctx context.Context, filter models.NotebookFilter) ([]models.ErrorNotebookEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("notebook_repo")
	log.Debug("listing notebook: user_id=%d, status=%s", filter.UserID, filter.Status)

	q := sqlBuilder.Select("id", "user_id", "question_id", "user_answer", "reviewed", "created_at", "updated_at").
		From("error_notebook").
		Where(squirrel.Eq{"user_id": filter.UserID})
	switch filter.Status {
	case models.NotebookPending:
		q = q.Where(squirrel.Eq{"reviewed": false})
	case models.NotebookReviewed:
		q = q.Where(squirrel.Eq{"reviewed": true})
	}
	lim, off := pageBounds(filter.Limit, filter.Offset, 100)
	q = q.OrderBy("created_at DESC", "id DESC").Limit(lim).Offset(off)

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list notebook: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ErrorNotebookEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			log.Error("failed to scan notebook row: %v", err)
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *notebookRepository) Counts(ctx context.Context, userID int64) (models.NotebookCounts, error) {
	var c models.NotebookCounts
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(CASE WHEN reviewed THEN 0 ELSE 1 END), 0),
       COALESCE(SUM(CASE WHEN reviewed THEN 1 ELSE 0 END), 0),
       COUNT(*)
FROM error_notebook
WHERE user_id = ?
`, userID).Scan(&c.Pending, &c.Reviewed, &c.Total)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("notebook_repo").Error("failed to count notebook: %v", err)
	}
	return c, err
}

func (r *notebookRepository) SetReviewed(ctx context.Context, userID, questionID int64, reviewed bool, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE error_notebook
SET reviewed = ?, updated_at = ?
WHERE user_id = ? AND question_id = ?
`, reviewed, at.UTC(), userID, questionID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("notebook_repo").Error("failed to update notebook entry: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *notebookRepository) Delete(ctx context.Context, userID, questionID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM error_notebook WHERE user_id = ? AND question_id = ?`, userID, questionID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("notebook_repo").Error("failed to delete notebook entry: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
