package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
	"github.com/vytor/quizflash/internal/repository/sqlite"
	"github.com/vytor/quizflash/internal/testutil"
)

type ProficiencyRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProficiencyRepository
}

func (s *ProficiencyRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProficiencyRepository(s.db)
}

func (s *ProficiencyRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProficiencyRepositorySuite) insert(mode models.ProficiencyMode, score int, at time.Time) int64 {
	id, err := s.repo.Insert(context.Background(), models.ProficiencyResult{
		UserID:         1,
		Mode:           mode,
		Score:          score,
		Classification: "Básico",
		AccuracyPct:    60,
		Answered:       10,
		Correct:        6,
		PenaltyApplied: mode == models.ModeExam,
		PerTierBreakdown: models.TierBreakdown{
			Easy: models.TierStat{Total: 4, Correct: 3},
			Hard: models.TierStat{Total: 6, Correct: 3},
		},
		CreatedAt: at,
	})
	s.Require().NoError(err)
	return id
}

func (s *ProficiencyRepositorySuite) TestLatest_None() {
	p, err := s.repo.Latest(context.Background(), 1, models.ModeDiagnostic)
	s.Require().NoError(err)
	s.Assert().Nil(p)
}

func (s *ProficiencyRepositorySuite) TestLatest_ByMode() {
	ctx := context.Background()
	s.insert(models.ModeDiagnostic, 500, now)
	examID := s.insert(models.ModeExam, 610, now.Add(time.Hour))
	diagID := s.insert(models.ModeDiagnostic, 700, now.Add(2*time.Hour))

	diag, err := s.repo.Latest(ctx, 1, models.ModeDiagnostic)
	s.Require().NoError(err)
	s.Require().NotNil(diag)
	s.Assert().Equal(diagID, diag.ID)
	s.Assert().Equal(700, diag.Score)

	exam, err := s.repo.Latest(ctx, 1, models.ModeExam)
	s.Require().NoError(err)
	s.Require().NotNil(exam)
	s.Assert().Equal(examID, exam.ID)
	s.Assert().True(exam.PenaltyApplied)
	s.Assert().Equal(models.TierStat{Total: 6, Correct: 3}, exam.PerTierBreakdown.Hard)

	newest, err := s.repo.Latest(ctx, 1, "")
	s.Require().NoError(err)
	s.Assert().Equal(diagID, newest.ID)
}

func (s *ProficiencyRepositorySuite) TestList() {
	ctx := context.Background()
	s.insert(models.ModeExam, 500, now)
	s.insert(models.ModeExam, 550, now.Add(time.Hour))
	s.insert(models.ModeDiagnostic, 600, now.Add(2*time.Hour))

	list, err := s.repo.List(ctx, 1, models.ModeExam, 10)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Assert().Equal(550, list[0].Score)
	s.Assert().Equal(500, list[1].Score)

	other, err := s.repo.List(ctx, 2, "", 10)
	s.Require().NoError(err)
	s.Assert().Empty(other)
}

func TestProficiencyRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProficiencyRepositorySuite))
}
