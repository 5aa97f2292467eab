package services

import (
	"context"
	"fmt"

	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/proficiency"
	"github.com/vytor/quizflash/internal/repository"
)

// DefaultDiagnosticCooldownDays is the wait between two diagnostics.
const DefaultDiagnosticCooldownDays = 30

// ProficiencyService scores answer sets and keeps the result history
type ProficiencyService interface {
	// Estimate is the pure computation; nothing is stored.
	Estimate(mode models.ProficiencyMode, outcomes []models.AnswerOutcome) (*models.ProficiencyResult, error)
	// Submit scores and stores a result. Diagnostics are refused while the
	// previous one is inside the cooldown window.
	Submit(ctx context.Context, userID int64, mode models.ProficiencyMode, outcomes []models.AnswerOutcome) (*models.ProficiencyResult, error)
	Latest(ctx context.Context, userID int64, mode models.ProficiencyMode) (*models.ProficiencyResult, error)
	History(ctx context.Context, userID int64, mode models.ProficiencyMode, limit int) ([]models.ProficiencyResult, error)
}

type proficiencyService struct {
	store        repository.Store
	estimator    *proficiency.Estimator
	clock        clock.Clock
	cooldownDays int
}

// NewProficiencyService creates a new ProficiencyService. A cooldown of 0
// disables the diagnostic wait.
func NewProficiencyService(store repository.Store, estimator *proficiency.Estimator, clk clock.Clock, cooldownDays int) ProficiencyService {
	return &proficiencyService{store: store, estimator: estimator, clock: clk, cooldownDays: cooldownDays}
}

func validateMode(mode models.ProficiencyMode) error {
	switch mode {
	case models.ModeDiagnostic, models.ModeExam:
		return nil
	}
	return errors.NewValidationError("mode", fmt.Sprintf("unknown proficiency mode %q", mode))
}

func validateOutcomes(outcomes []models.AnswerOutcome) error {
	for i, o := range outcomes {
		if _, err := models.ParseDifficulty(string(o.Difficulty)); err != nil {
			return errors.NewValidationError(fmt.Sprintf("outcomes[%d].difficulty", i), err.Error())
		}
		if o.QuestionID <= 0 {
			return errors.NewValidationError(fmt.Sprintf("outcomes[%d].question_id", i), "must be positive")
		}
	}
	return nil
}

func (s *proficiencyService) Estimate(mode models.ProficiencyMode, outcomes []models.AnswerOutcome) (*models.ProficiencyResult, error) {
	if err := validateMode(mode); err != nil {
		return nil, err
	}
	if err := validateOutcomes(outcomes); err != nil {
		return nil, err
	}
	res, err := s.estimator.Estimate(mode, outcomes)
	if err != nil {
		return nil, errors.NewValidationError("outcomes", err.Error())
	}
	return &res, nil
}

func (s *proficiencyService) Submit(ctx context.Context, userID int64, mode models.ProficiencyMode, outcomes []models.AnswerOutcome) (*models.ProficiencyResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	var res *models.ProficiencyResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		var err error
		res, err = s.submit(ctx, r, userID, mode, outcomes)
		return err
	})
	if err != nil {
		return nil, storageErr("submit proficiency", err)
	}
	return res, nil
}

// submit runs inside the caller's transaction.
func (s *proficiencyService) submit(ctx context.Context, r repository.Repositories, userID int64, mode models.ProficiencyMode, outcomes []models.AnswerOutcome) (*models.ProficiencyResult, error) {
	log := logger.FromContext(ctx)

	if len(outcomes) == 0 {
		return nil, errors.NewValidationError("outcomes", "at least one answered question is required")
	}
	res, err := s.Estimate(mode, outcomes)
	if err != nil {
		return nil, err
	}

	if mode == models.ModeDiagnostic && s.cooldownDays > 0 {
		prev, err := r.Proficiency.Latest(ctx, userID, models.ModeDiagnostic)
		if err != nil {
			return nil, storageErr("load latest diagnostic", err)
		}
		if prev != nil {
			taken := prev.CreatedAt.In(s.clock.Location())
			if clock.DaysBetween(taken, s.clock.Today()) < s.cooldownDays {
				next := clock.StartOfDay(taken).AddDate(0, 0, s.cooldownDays)
				log.Debug("diagnostic on cooldown: user_id=%d, next=%s", userID, clock.FormatDate(next))
				return nil, errors.NewConflictError(fmt.Sprintf("diagnostic already taken; available again on %s", clock.FormatDate(next)))
			}
		}
	}

	res.UserID = userID
	res.CreatedAt = s.clock.Now()
	id, err := r.Proficiency.Insert(ctx, *res)
	if err != nil {
		return nil, storageErr("store proficiency result", err)
	}
	res.ID = id

	log.Info("proficiency recorded: user_id=%d, mode=%s, score=%d (%s)", userID, mode, res.Score, res.Classification)
	return res, nil
}

// Latest returns nil without error when the user has no result; an empty
// mode matches any mode.
func (s *proficiencyService) Latest(ctx context.Context, userID int64, mode models.ProficiencyMode) (*models.ProficiencyResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if mode != "" {
		if err := validateMode(mode); err != nil {
			return nil, err
		}
	}
	res, err := s.store.Repositories().Proficiency.Latest(ctx, userID, mode)
	if err != nil {
		return nil, storageErr("load latest proficiency", err)
	}
	return res, nil
}

func (s *proficiencyService) History(ctx context.Context, userID int64, mode models.ProficiencyMode, limit int) ([]models.ProficiencyResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if mode != "" {
		if err := validateMode(mode); err != nil {
			return nil, err
		}
	}
	list, err := s.store.Repositories().Proficiency.List(ctx, userID, mode, limit)
	if err != nil {
		return nil, storageErr("list proficiency results", err)
	}
	return list, nil
}
