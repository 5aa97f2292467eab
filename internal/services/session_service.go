package services

import (
	"context"

	"github.com/vytor/quizflash/internal/achievement"
	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/level"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/proficiency"
	"github.com/vytor/quizflash/internal/repository"
)

// Rewards is the XP paid for a finished session.
type Rewards struct {
	PerCorrect         map[models.Difficulty]int
	PerfectBattleBonus int
}

// DefaultPerfectBattleBonus is added when every answer of a battle is correct.
const DefaultPerfectBattleBonus = 20

func DefaultRewards() Rewards {
	return Rewards{
		PerCorrect: map[models.Difficulty]int{
			models.DifficultyEasy:   proficiency.DefaultEasyPoints,
			models.DifficultyMedium: proficiency.DefaultMedPoints,
			models.DifficultyHard:   proficiency.DefaultHardPoints,
		},
		PerfectBattleBonus: DefaultPerfectBattleBonus,
	}
}

// SessionXP sums the per-tier reward of every correct answer, plus the
// perfect bonus for a battle with no wrong answer.
func (r Rewards) SessionXP(kind models.SessionKind, outcomes []models.AnswerOutcome) int {
	xp := 0
	perfect := len(outcomes) > 0
	for _, o := range outcomes {
		if o.Correct {
			xp += r.PerCorrect[o.Difficulty]
		} else {
			perfect = false
		}
	}
	if kind == models.SessionBattle && perfect {
		xp += r.PerfectBattleBonus
	}
	return xp
}

// SessionService finalizes finished sessions
type SessionService interface {
	// Finalize applies a session in one transaction: proficiency (diagnostic
	// and exam), XP and counters, streak, error notebook, then achievements
	// against the updated stats. Any failure leaves nothing written.
	Finalize(ctx context.Context, userID int64, session models.Session) (*models.SessionSummary, error)
}

type sessionService struct {
	store        repository.Store
	levels       *level.Table
	clock        clock.Clock
	rewards      Rewards
	proficiency  *proficiencyService
	achievements *achievementService
}

// SessionConfig carries the tunables of session finalization.
type SessionConfig struct {
	Rewards                Rewards
	DiagnosticCooldownDays int
}

// NewSessionService creates a new SessionService
func NewSessionService(store repository.Store, levels *level.Table, estimator *proficiency.Estimator, catalogue *achievement.Catalogue, clk clock.Clock, cfg SessionConfig) SessionService {
	return &sessionService{
		store:   store,
		levels:  levels,
		clock:   clk,
		rewards: cfg.Rewards,
		proficiency: &proficiencyService{
			store:        store,
			estimator:    estimator,
			clock:        clk,
			cooldownDays: cfg.DiagnosticCooldownDays,
		},
		achievements: &achievementService{
			store:     store,
			catalogue: catalogue,
			levels:    levels,
			clock:     clk,
		},
	}
}

func proficiencyMode(kind models.SessionKind) (models.ProficiencyMode, bool) {
	switch kind {
	case models.SessionDiagnostic:
		return models.ModeDiagnostic, true
	case models.SessionExam:
		return models.ModeExam, true
	}
	return "", false
}

func (s *sessionService) Finalize(ctx context.Context, userID int64, session models.Session) (*models.SessionSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("finalizing session: user_id=%d, kind=%s, answers=%d", userID, session.Kind, len(session.Outcomes))

	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if !session.Kind.Valid() {
		return nil, errors.NewValidationError("kind", "must be quiz, battle, diagnostic, exam or review")
	}
	if len(session.Outcomes) == 0 {
		return nil, errors.NewValidationError("outcomes", "at least one answered question is required")
	}
	if err := validateOutcomes(session.Outcomes); err != nil {
		return nil, err
	}

	summary := &models.SessionSummary{Kind: session.Kind, Answered: len(session.Outcomes)}
	for _, o := range session.Outcomes {
		if o.Correct {
			summary.Correct++
		}
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if mode, ok := proficiencyMode(session.Kind); ok {
			res, err := s.proficiency.submit(ctx, r, userID, mode, session.Outcomes)
			if err != nil {
				return err
			}
			summary.Proficiency = res
		}

		act := models.Activity{
			Amount:            s.rewards.SessionXP(session.Kind, session.Outcomes),
			Reason:            string(session.Kind),
			EventKey:          session.EventKey,
			QuestionsAnswered: summary.Answered,
			QuestionsCorrect:  summary.Correct,
		}
		if session.Kind == models.SessionBattle {
			act.BattlesPlayed = 1
			if summary.Correct == summary.Answered {
				act.BattlesPerfect = 1
			}
		}
		grant, err := applyActivity(ctx, r, s.levels, s.clock, userID, act)
		if err != nil {
			return err
		}
		summary.Grant = grant
		summary.Stats = grant.Stats

		summary.NotebookAdded, summary.NotebookCleared, err = applyOutcomes(ctx, r, s.clock, userID, session.Kind, session.Outcomes)
		if err != nil {
			return err
		}

		latest := summary.Proficiency
		if latest == nil {
			if latest, err = r.Proficiency.Latest(ctx, userID, ""); err != nil {
				return storageErr("load latest proficiency", err)
			}
		}
		summary.NewAchievements, err = s.achievements.evaluate(ctx, r, userID, grant.Stats, latest)
		if err != nil {
			return err
		}
		if len(summary.NewAchievements) > 0 {
			final, err := r.Stats.Get(ctx, userID)
			if err != nil {
				return storageErr("reload stats", err)
			}
			summary.Stats = *final
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("finalize session", err)
	}

	log.Info("session finalized: user_id=%d, kind=%s, correct=%d/%d, xp=+%d, achievements=%d",
		userID, session.Kind, summary.Correct, summary.Answered, summary.Grant.XPGained, len(summary.NewAchievements))
	return summary, nil
}
