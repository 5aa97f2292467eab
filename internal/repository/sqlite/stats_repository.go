package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type statsRepository struct {
	db repository.DBTX
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db repository.DBTX) repository.StatsRepository {
	return &statsRepository{db: db}
}

const statsColumns = `user_id, xp_total, streak_current, streak_max, last_study_date,
       questions_answered, questions_correct, battles_played, battles_perfect, updated_at`

func scanStats(row interface{ Scan(...any) error }) (*models.UserStats, error) {
	var s models.UserStats
	var lastStudy sql.NullString
	if err := row.Scan(&s.UserID, &s.XPTotal, &s.StreakCurrent, &s.StreakMax, &lastStudy,
		&s.QuestionsAnswered, &s.QuestionsCorrect, &s.BattlesPlayed, &s.BattlesPerfect, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.LastStudyDate = lastStudy.String
	return &s, nil
}

func (r *statsRepository) Get(ctx context.Context, userID int64) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("getting stats: user_id=%d", userID)

	s, err := scanStats(r.db.QueryRowContext(ctx, `SELECT `+statsColumns+` FROM user_stats WHERE user_id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no stats yet: user_id=%d", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get stats: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *statsRepository) GetOrCreate(ctx context.Context, userID int64, now time.Time) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO user_stats (user_id, updated_at)
VALUES (?, ?)
ON CONFLICT(user_id) DO NOTHING
`, userID, now.UTC()); err != nil {
		log.Error("failed to create stats row: %v", err)
		return nil, err
	}

	s, err := scanStats(r.db.QueryRowContext(ctx, `SELECT `+statsColumns+` FROM user_stats WHERE user_id = ?`, userID))
	if err != nil {
		log.Error("failed to load stats: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *statsRepository) Save(ctx context.Context, s models.UserStats) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("saving stats: user_id=%d, xp_total=%d, streak=%d/%d", s.UserID, s.XPTotal, s.StreakCurrent, s.StreakMax)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_stats (user_id, xp_total, streak_current, streak_max, last_study_date,
                        questions_answered, questions_correct, battles_played, battles_perfect, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    xp_total = excluded.xp_total,
    streak_current = excluded.streak_current,
    streak_max = excluded.streak_max,
    last_study_date = excluded.last_study_date,
    questions_answered = excluded.questions_answered,
    questions_correct = excluded.questions_correct,
    battles_played = excluded.battles_played,
    battles_perfect = excluded.battles_perfect,
    updated_at = excluded.updated_at
`, s.UserID, s.XPTotal, s.StreakCurrent, s.StreakMax, nullString(s.LastStudyDate),
		s.QuestionsAnswered, s.QuestionsCorrect, s.BattlesPlayed, s.BattlesPerfect, s.UpdatedAt.UTC())
	if err != nil {
		log.Error("failed to save stats: %v", err)
	}
	return err
}
