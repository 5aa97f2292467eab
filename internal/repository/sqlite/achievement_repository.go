package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type achievementRepository struct {
	db repository.DBTX
}

// NewAchievementRepository creates a new AchievementRepository implementation
func NewAchievementRepository(db repository.DBTX) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) InsertUnlock(ctx context.Context, userID int64, achievementID string, at time.Time) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")

	res, err := r.db.ExecContext(ctx, `
INSERT INTO achievement_unlocks (user_id, achievement_id, unlocked_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id, achievement_id) DO NOTHING
`, userID, achievementID, at.UTC())
	if err != nil {
		log.Error("failed to insert unlock: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.Debug("achievement unlocked: user_id=%d, achievement=%s", userID, achievementID)
	}
	return n > 0, nil
}

// List orders unlocks oldest first, which is also notification order.
func (r *achievementRepository) List(ctx context.Context, filter models.UnlockFilter) ([]models.AchievementUnlock, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("listing unlocks: user_id=%d, only_unnotified=%t", filter.UserID, filter.OnlyUnnotified)

	q := sqlBuilder.Select("id", "user_id", "achievement_id", "unlocked_at", "notified_at").
		From("achievement_unlocks").
		Where(squirrel.Eq{"user_id": filter.UserID})
	if filter.OnlyUnnotified {
		q = q.Where(squirrel.Eq{"notified_at": nil})
	}
	q = q.OrderBy("unlocked_at ASC", "id ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list unlocks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.AchievementUnlock
	for rows.Next() {
		var u models.AchievementUnlock
		var notified sql.NullTime
		if err := rows.Scan(&u.ID, &u.UserID, &u.AchievementID, &u.UnlockedAt, &notified); err != nil {
			log.Error("failed to scan unlock row: %v", err)
			return nil, err
		}
		if notified.Valid {
			t := notified.Time
			u.NotifiedAt = &t
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *achievementRepository) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE achievement_unlocks SET notified_at = ? WHERE id = ? AND notified_at IS NULL`, at.UTC(), id)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("achievement_repo").Error("failed to mark unlock notified: %v", err)
	}
	return err
}
