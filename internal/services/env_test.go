package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/vytor/quizflash/internal/achievement"
	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/level"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/proficiency"
	"github.com/vytor/quizflash/internal/repository"
	"github.com/vytor/quizflash/internal/repository/sqlite"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/testutil"
)

const user int64 = 1

type env struct {
	db           *sql.DB
	store        *sqlite.Store
	repos        repository.Repositories
	clock        *clock.Fixed
	ledger       services.LedgerService
	stats        services.StatsService
	proficiency  services.ProficiencyService
	achievements services.AchievementService
	notebook     services.NotebookService
	sessions     services.SessionService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	sqlDB := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, sqlDB) })

	store := sqlite.NewStore(sqlDB)
	clk := testutil.NewClock()
	levels := level.Default()
	estimator := proficiency.Default()
	catalogue := achievement.Default()

	return &env{
		db:           sqlDB,
		store:        store,
		repos:        store.Repositories(),
		clock:        clk,
		ledger:       services.NewLedgerService(store, levels, clk),
		stats:        services.NewStatsService(store, levels, clk),
		proficiency:  services.NewProficiencyService(store, estimator, clk, services.DefaultDiagnosticCooldownDays),
		achievements: services.NewAchievementService(store, catalogue, levels, clk),
		notebook:     services.NewNotebookService(store, clk),
		sessions: services.NewSessionService(store, levels, estimator, catalogue, clk, services.SessionConfig{
			Rewards:                services.DefaultRewards(),
			DiagnosticCooldownDays: services.DefaultDiagnosticCooldownDays,
		}),
	}
}

func (e *env) storedStats(t *testing.T) models.UserStats {
	t.Helper()
	s, err := e.repos.Stats.Get(context.Background(), user)
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if s == nil {
		return models.UserStats{}
	}
	return *s
}

func (e *env) historySum(t *testing.T) (int, int) {
	t.Helper()
	total, entries, err := e.repos.XP.Sum(context.Background(), user)
	if err != nil {
		t.Fatalf("sum xp: %v", err)
	}
	return total, entries
}

func outcome(id int64, d models.Difficulty, correct bool) models.AnswerOutcome {
	return models.AnswerOutcome{QuestionID: id, Difficulty: d, Correct: correct, UserAnswer: "B"}
}
