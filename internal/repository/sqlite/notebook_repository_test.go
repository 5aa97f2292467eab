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

type NotebookRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.NotebookRepository
}

func (s *NotebookRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewNotebookRepository(s.db)
}

func (s *NotebookRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *NotebookRepositorySuite) TestUpsert_SingleEntryPerQuestion() {
	ctx := context.Background()

	first, err := s.repo.Upsert(ctx, 1, 100, "B", now)
	s.Require().NoError(err)
	s.Assert().Equal("B", first.UserAnswer)
	s.Assert().False(first.Reviewed)

	ok, err := s.repo.SetReviewed(ctx, 1, 100, true, now.Add(time.Hour))
	s.Require().NoError(err)
	s.Assert().True(ok)

	second, err := s.repo.Upsert(ctx, 1, 100, "C", now.Add(2*time.Hour))
	s.Require().NoError(err)
	s.Assert().Equal(first.ID, second.ID)
	s.Assert().Equal("C", second.UserAnswer)
	s.Assert().False(second.Reviewed, "a new miss puts the entry back to pending")
	s.Assert().True(second.CreatedAt.Equal(now))
	s.Assert().True(second.UpdatedAt.Equal(now.Add(2 * time.Hour)))

	counts, err := s.repo.Counts(ctx, 1)
	s.Require().NoError(err)
	s.Assert().Equal(models.NotebookCounts{Pending: 1, Reviewed: 0, Total: 1}, counts)
}

func (s *NotebookRepositorySuite) TestListByStatus() {
	ctx := context.Background()
	for i, q := range []int64{10, 11, 12, 13} {
		_, err := s.repo.Upsert(ctx, 1, q, "A", now.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(err)
	}
	_, err := s.repo.Upsert(ctx, 2, 10, "A", now)
	s.Require().NoError(err)

	_, err = s.repo.SetReviewed(ctx, 1, 11, true, now)
	s.Require().NoError(err)
	_, err = s.repo.SetReviewed(ctx, 1, 13, true, now)
	s.Require().NoError(err)

	pending, err := s.repo.List(ctx, models.NotebookFilter{UserID: 1, Status: models.NotebookPending})
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Assert().Equal(int64(12), pending[0].QuestionID, "newest first")
	s.Assert().Equal(int64(10), pending[1].QuestionID)

	reviewed, err := s.repo.List(ctx, models.NotebookFilter{UserID: 1, Status: models.NotebookReviewed})
	s.Require().NoError(err)
	s.Assert().Len(reviewed, 2)

	all, err := s.repo.List(ctx, models.NotebookFilter{UserID: 1, Status: models.NotebookAll})
	s.Require().NoError(err)
	s.Assert().Len(all, 4)

	page, err := s.repo.List(ctx, models.NotebookFilter{UserID: 1, Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Assert().Equal(int64(12), page[0].QuestionID)

	counts, err := s.repo.Counts(ctx, 1)
	s.Require().NoError(err)
	s.Assert().Equal(models.NotebookCounts{Pending: 2, Reviewed: 2, Total: 4}, counts)
}

func (s *NotebookRepositorySuite) TestSetReviewedAndDeleteMissing() {
	ctx := context.Background()

	ok, err := s.repo.SetReviewed(ctx, 1, 404, true, now)
	s.Require().NoError(err)
	s.Assert().False(ok)

	ok, err = s.repo.Delete(ctx, 1, 404)
	s.Require().NoError(err)
	s.Assert().False(ok)

	entry, err := s.repo.Get(ctx, 1, 404)
	s.Require().NoError(err)
	s.Assert().Nil(entry)
}

func (s *NotebookRepositorySuite) TestDelete() {
	ctx := context.Background()
	_, err := s.repo.Upsert(ctx, 1, 5, "D", now)
	s.Require().NoError(err)

	ok, err := s.repo.Delete(ctx, 1, 5)
	s.Require().NoError(err)
	s.Assert().True(ok)

	counts, err := s.repo.Counts(ctx, 1)
	s.Require().NoError(err)
	s.Assert().Zero(counts.Total)
}

func TestNotebookRepositorySuite(t *testing.T) {
	suite.Run(t, new(NotebookRepositorySuite))
}
