package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
	"github.com/vytor/quizflash/internal/repository/sqlite"
	"github.com/vytor/quizflash/internal/testutil"
)

var now = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

type LedgerRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	store *sqlite.Store
	repos repository.Repositories
}

func (s *LedgerRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = sqlite.NewStore(s.db)
	s.repos = s.store.Repositories()
}

func (s *LedgerRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *LedgerRepositorySuite) TestStats_GetMissing() {
	stats, err := s.repos.Stats.Get(context.Background(), 42)
	s.Require().NoError(err)
	s.Assert().Nil(stats)
}

func (s *LedgerRepositorySuite) TestStats_GetOrCreateThenSave() {
	ctx := context.Background()

	stats, err := s.repos.Stats.GetOrCreate(ctx, 7, now)
	s.Require().NoError(err)
	s.Assert().Equal(int64(7), stats.UserID)
	s.Assert().Zero(stats.XPTotal)
	s.Assert().Empty(stats.LastStudyDate)

	stats.XPTotal = 135
	stats.StreakCurrent = 2
	stats.StreakMax = 5
	stats.LastStudyDate = "2024-06-10"
	stats.QuestionsAnswered = 10
	stats.QuestionsCorrect = 8
	stats.BattlesPlayed = 1
	stats.BattlesPerfect = 1
	stats.UpdatedAt = now.Add(time.Minute)
	s.Require().NoError(s.repos.Stats.Save(ctx, *stats))

	again, err := s.repos.Stats.GetOrCreate(ctx, 7, now.Add(time.Hour))
	s.Require().NoError(err)
	s.Assert().Equal(135, again.XPTotal)
	s.Assert().Equal("2024-06-10", again.LastStudyDate)
	s.Assert().Equal(8, again.QuestionsCorrect)
	s.Assert().True(again.UpdatedAt.Equal(now.Add(time.Minute)))
}

func (s *LedgerRepositorySuite) TestStats_SaveRejectsBrokenInvariants() {
	ctx := context.Background()

	err := s.repos.Stats.Save(ctx, models.UserStats{UserID: 1, StreakCurrent: 3, StreakMax: 2, UpdatedAt: now})
	s.Assert().Error(err)

	err = s.repos.Stats.Save(ctx, models.UserStats{UserID: 1, XPTotal: -5, UpdatedAt: now})
	s.Assert().Error(err)
}

func (s *LedgerRepositorySuite) TestXP_AppendSumAndList() {
	ctx := context.Background()

	for i, amount := range []int{15, 35, 50} {
		_, err := s.repos.XP.Append(ctx, models.XPHistoryEntry{
			UserID:    3,
			Amount:    amount,
			Reason:    "quiz",
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
		s.Require().NoError(err)
	}
	_, err := s.repos.XP.Append(ctx, models.XPHistoryEntry{UserID: 4, Amount: 99, Reason: "other user", CreatedAt: now})
	s.Require().NoError(err)

	total, entries, err := s.repos.XP.Sum(ctx, 3)
	s.Require().NoError(err)
	s.Assert().Equal(100, total)
	s.Assert().Equal(3, entries)

	list, err := s.repos.XP.List(ctx, 3, 2, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Assert().Equal(50, list[0].Amount, "newest first")
	s.Assert().Equal(35, list[1].Amount)
	s.Assert().Empty(list[0].EventKey)
}

func (s *LedgerRepositorySuite) TestXP_DuplicateEventKey() {
	ctx := context.Background()
	entry := models.XPHistoryEntry{UserID: 3, Amount: 20, Reason: "battle", EventKey: "battle-9", CreatedAt: now}

	_, err := s.repos.XP.Append(ctx, entry)
	s.Require().NoError(err)

	_, err = s.repos.XP.Append(ctx, entry)
	s.Assert().ErrorIs(err, repository.ErrDuplicateEvent)

	total, _, err := s.repos.XP.Sum(ctx, 3)
	s.Require().NoError(err)
	s.Assert().Equal(20, total)
}

func (s *LedgerRepositorySuite) TestXP_SumEmpty() {
	total, entries, err := s.repos.XP.Sum(context.Background(), 99)
	s.Require().NoError(err)
	s.Assert().Zero(total)
	s.Assert().Zero(entries)
}

func (s *LedgerRepositorySuite) TestWithinTx_RollsBackOnError() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		if _, err := r.XP.Append(ctx, models.XPHistoryEntry{UserID: 5, Amount: 10, Reason: "quiz", CreatedAt: now}); err != nil {
			return err
		}
		if err := r.Stats.Save(ctx, models.UserStats{UserID: 5, XPTotal: 10, UpdatedAt: now}); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	total, entries, err := s.repos.XP.Sum(ctx, 5)
	s.Require().NoError(err)
	s.Assert().Zero(total)
	s.Assert().Zero(entries)

	stats, err := s.repos.Stats.Get(ctx, 5)
	s.Require().NoError(err)
	s.Assert().Nil(stats)
}

func (s *LedgerRepositorySuite) TestWithinTx_Commits() {
	ctx := context.Background()

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		_, err := r.XP.Append(ctx, models.XPHistoryEntry{UserID: 6, Amount: 10, Reason: "quiz", CreatedAt: now})
		return err
	})
	s.Require().NoError(err)

	total, _, err := s.repos.XP.Sum(ctx, 6)
	s.Require().NoError(err)
	s.Assert().Equal(10, total)
	s.Assert().NoError(s.store.Ping(ctx))
}

func TestLedgerRepositorySuite(t *testing.T) {
	suite.Run(t, new(LedgerRepositorySuite))
}
