package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type proficiencyRepository struct {
	db repository.DBTX
}

// NewProficiencyRepository creates a new ProficiencyRepository implementation
func NewProficiencyRepository(db repository.DBTX) repository.ProficiencyRepository {
	return &proficiencyRepository{db: db}
}

var proficiencyColumns = []string{
	"id", "user_id", "mode", "score", "classification", "accuracy_pct",
	"answered", "correct", "penalty_applied", "breakdown", "created_at",
}

func (r *proficiencyRepository) Insert(ctx context.Context, p models.ProficiencyResult) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("proficiency_repo")
	log.Debug("inserting proficiency result: user_id=%d, mode=%s, score=%d", p.UserID, p.Mode, p.Score)

	breakdown, err := json.Marshal(p.PerTierBreakdown)
	if err != nil {
		return 0, fmt.Errorf("encode breakdown: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO proficiency_results (user_id, mode, score, classification, accuracy_pct, answered, correct, penalty_applied, breakdown, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, p.UserID, p.Mode, p.Score, p.Classification, p.AccuracyPct, p.Answered, p.Correct, p.PenaltyApplied, string(breakdown), p.CreatedAt.UTC())
	if err != nil {
		log.Error("failed to insert proficiency result: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *proficiencyRepository) query(userID int64, mode models.ProficiencyMode, limit uint64) squirrel.SelectBuilder {
	q := sqlBuilder.Select(proficiencyColumns...).
		From("proficiency_results").
		Where(squirrel.Eq{"user_id": userID})
	if mode != "" {
		q = q.Where(squirrel.Eq{"mode": mode})
	}
	return q.OrderBy("created_at DESC", "id DESC").Limit(limit)
}

func (r *proficiencyRepository) Latest(ctx context.Context, userID int64, mode models.ProficiencyMode) (*models.ProficiencyResult, error) {
	log := logger.FromContext(ctx).WithPrefix("proficiency_repo")

	query, args, err := r.query(userID, mode, 1).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	p, err := scanProficiency(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get latest proficiency: %v", err)
		return nil, err
	}
	return p, nil
}

func (r *proficiencyRepository) List(ctx context.Context, userID int64, mode models.ProficiencyMode, limit int) ([]models.ProficiencyResult, error) {
	log := logger.FromContext(ctx).WithPrefix("proficiency_repo")
	lim, _ := pageBounds(limit, 0, 20)

	query, args, err := r.query(userID, mode, lim).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list proficiency results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ProficiencyResult
	for rows.Next() {
		p, err := scanProficiency(rows)
		if err != nil {
			log.Error("failed to scan proficiency row: %v", err)
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProficiency(row interface{ Scan(...any) error }) (*models.ProficiencyResult, error) {
	var p models.ProficiencyResult
	var breakdown string
	if err := row.Scan(&p.ID, &p.UserID, &p.Mode, &p.Score, &p.Classification, &p.AccuracyPct,
		&p.Answered, &p.Correct, &p.PenaltyApplied, &breakdown, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(breakdown), &p.PerTierBreakdown); err != nil {
		return nil, fmt.Errorf("decode breakdown of result %d: %w", p.ID, err)
	}
	return &p, nil
}
