package services

import (
	"context"

	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/level"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
	"github.com/vytor/quizflash/internal/streak"
)

// StatsService handles read access to user stats
type StatsService interface {
	Get(ctx context.Context, userID int64) (*models.StatsView, error)
}

type statsService struct {
	store  repository.Store
	levels *level.Table
	clock  clock.Clock
}

// NewStatsService creates a new StatsService
func NewStatsService(store repository.Store, levels *level.Table, clk clock.Clock) StatsService {
	return &statsService{store: store, levels: levels, clock: clk}
}

// Get returns zeroed stats for a user with no activity. The displayed
// current streak drops to 0 once a day has been missed, even though the
// stored value only resets on the next activity.
func (s *statsService) Get(ctx context.Context, userID int64) (*models.StatsView, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting stats: user_id=%d", userID)

	if err := validateUser(userID); err != nil {
		return nil, err
	}

	stats, err := s.store.Repositories().Stats.Get(ctx, userID)
	if err != nil {
		return nil, storageErr("load stats", err)
	}
	if stats == nil {
		stats = &models.UserStats{UserID: userID}
	}

	view := &models.StatsView{UserStats: *stats, Level: s.levels.For(stats.XPTotal)}
	view.StreakCurrent = streak.Current(*stats, s.clock.Today())
	return view, nil
}
