package sqlite

import (
	"context"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type xpRepository struct {
	db repository.DBTX
}

// NewXPRepository creates a new XPRepository implementation
func NewXPRepository(db repository.DBTX) repository.XPRepository {
	return &xpRepository{db: db}
}

func (r *xpRepository) Append(ctx context.Context, e models.XPHistoryEntry) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("xp_repo")
	log.Debug("appending xp: user_id=%d, amount=%d, reason=%s", e.UserID, e.Amount, e.Reason)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO xp_history (user_id, amount, reason, event_key, created_at)
VALUES (?, ?, ?, ?, ?)
`, e.UserID, e.Amount, e.Reason, nullString(e.EventKey), e.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("duplicate xp event: user_id=%d, event_key=%s", e.UserID, e.EventKey)
			return 0, repository.ErrDuplicateEvent
		}
		log.Error("failed to append xp: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *xpRepository) Sum(ctx context.Context, userID int64) (int, int, error) {
	var total, entries int
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount), 0), COUNT(*)
FROM xp_history
WHERE user_id = ?
`, userID).Scan(&total, &entries)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("xp_repo").Error("failed to sum xp: %v", err)
		return 0, 0, err
	}
	return total, entries, nil
}

func (r *xpRepository) List(ctx context.Context, userID int64, limit, offset int) ([]models.XPHistoryEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("xp_repo")
	lim, off := pageBounds(limit, offset, 50)

	query, args, err := sqlBuilder.
		Select("id", "user_id", "amount", "reason", "COALESCE(event_key, '')", "created_at").
		From("xp_history").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id DESC").
		Limit(lim).Offset(off).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list xp history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.XPHistoryEntry
	for rows.Next() {
		var e models.XPHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Reason, &e.EventKey, &e.CreatedAt); err != nil {
			log.Error("failed to scan xp row: %v", err)
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
