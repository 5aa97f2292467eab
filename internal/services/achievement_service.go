package services

import (
	"context"

	"github.com/vytor/quizflash/internal/achievement"
	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/level"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

// AchievementService unlocks achievements and drains their notifications
type AchievementService interface {
	Catalogue() []models.Achievement
	// Evaluate unlocks every satisfied achievement the user does not hold
	// yet and grants its XP bonus. Only new unlocks are returned.
	Evaluate(ctx context.Context, userID int64, snapshot models.UserStats, latest *models.ProficiencyResult) ([]models.Achievement, error)
	// EvaluateCurrent evaluates against the stored stats and latest result.
	EvaluateCurrent(ctx context.Context, userID int64) ([]models.Achievement, error)
	List(ctx context.Context, userID int64) ([]models.UnlockedAchievement, error)
	// NextNotification pops the oldest unlock not yet shown, nil when none.
	NextNotification(ctx context.Context, userID int64) (*models.UnlockedAchievement, error)
}

type achievementService struct {
	store     repository.Store
	catalogue *achievement.Catalogue
	levels    *level.Table
	clock     clock.Clock
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(store repository.Store, catalogue *achievement.Catalogue, levels *level.Table, clk clock.Clock) AchievementService {
	return &achievementService{store: store, catalogue: catalogue, levels: levels, clock: clk}
}

func (s *achievementService) Catalogue() []models.Achievement {
	defs := s.catalogue.Definitions()
	out := make([]models.Achievement, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Achievement())
	}
	return out
}

// evaluate runs inside the caller's transaction. The unique (user,
// achievement) row is the existence check: only the call whose insert
// lands grants the bonus. Bonuses carry no event key, so caller keys can
// never collide with them. Bonuses do not feed back into this evaluation.
func (s *achievementService) evaluate(ctx context.Context, r repository.Repositories, userID int64, snapshot models.UserStats, latest *models.ProficiencyResult) ([]models.Achievement, error) {
	log := logger.FromContext(ctx)
	now := s.clock.Now()

	unlocked := []models.Achievement{}
	for _, def := range s.catalogue.Satisfied(snapshot, latest) {
		inserted, err := r.Achievements.InsertUnlock(ctx, userID, def.ID, now)
		if err != nil {
			return nil, storageErr("insert achievement unlock", err)
		}
		if !inserted {
			continue
		}
		if def.XPBonus > 0 {
			_, err := applyActivity(ctx, r, s.levels, s.clock, userID, models.Activity{
				Amount: def.XPBonus,
				Reason: def.Title,
			})
			if err != nil {
				return nil, err
			}
		}
		log.Info("achievement unlocked: user_id=%d, achievement=%s, bonus=%d", userID, def.ID, def.XPBonus)
		unlocked = append(unlocked, def.Achievement())
	}
	return unlocked, nil
}

func (s *achievementService) Evaluate(ctx context.Context, userID int64, snapshot models.UserStats, latest *models.ProficiencyResult) ([]models.Achievement, error) {
	logger.FromContext(ctx).Debug("evaluating achievements: user_id=%d", userID)
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	var unlocked []models.Achievement
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		var err error
		unlocked, err = s.evaluate(ctx, r, userID, snapshot, latest)
		return err
	})
	if err != nil {
		return nil, storageErr("evaluate achievements", err)
	}
	return unlocked, nil
}

func (s *achievementService) EvaluateCurrent(ctx context.Context, userID int64) ([]models.Achievement, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	var unlocked []models.Achievement
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		stats, err := r.Stats.Get(ctx, userID)
		if err != nil {
			return storageErr("load stats", err)
		}
		if stats == nil {
			stats = &models.UserStats{UserID: userID}
		}
		latest, err := r.Proficiency.Latest(ctx, userID, "")
		if err != nil {
			return storageErr("load latest proficiency", err)
		}
		unlocked, err = s.evaluate(ctx, r, userID, *stats, latest)
		return err
	})
	if err != nil {
		return nil, storageErr("evaluate achievements", err)
	}
	return unlocked, nil
}

func (s *achievementService) toUnlocked(ctx context.Context, u models.AchievementUnlock) (models.UnlockedAchievement, bool) {
	def, ok := s.catalogue.Get(u.AchievementID)
	if !ok {
		logger.FromContext(ctx).Warn("unlock references unknown achievement: id=%d, achievement=%s", u.ID, u.AchievementID)
		return models.UnlockedAchievement{}, false
	}
	return models.UnlockedAchievement{
		Achievement: def.Achievement(),
		UnlockedAt:  u.UnlockedAt,
		Notified:    u.NotifiedAt != nil,
	}, true
}

func (s *achievementService) List(ctx context.Context, userID int64) ([]models.UnlockedAchievement, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	unlocks, err := s.store.Repositories().Achievements.List(ctx, models.UnlockFilter{UserID: userID})
	if err != nil {
		return nil, storageErr("list unlocks", err)
	}
	out := make([]models.UnlockedAchievement, 0, len(unlocks))
	for _, u := range unlocks {
		if a, ok := s.toUnlocked(ctx, u); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *achievementService) NextNotification(ctx context.Context, userID int64) (*models.UnlockedAchievement, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	var next *models.UnlockedAchievement
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		for {
			pending, err := r.Achievements.List(ctx, models.UnlockFilter{UserID: userID, OnlyUnnotified: true, Limit: 1})
			if err != nil {
				return storageErr("load pending notification", err)
			}
			if len(pending) == 0 {
				return nil
			}
			u := pending[0]
			if err := r.Achievements.MarkNotified(ctx, u.ID, s.clock.Now()); err != nil {
				return storageErr("mark notified", err)
			}
			// unknown ids are consumed silently
			if a, ok := s.toUnlocked(ctx, u); ok {
				a.Notified = true
				next = &a
				return nil
			}
		}
	})
	if err != nil {
		return nil, storageErr("next notification", err)
	}
	return next, nil
}
