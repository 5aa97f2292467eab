package services

import (
	"context"
	"fmt"

	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

// NotebookService handles the error notebook: absent -> pending <-> reviewed -> absent
type NotebookService interface {
	RecordWrong(ctx context.Context, userID, questionID int64, userAnswer string) (*models.ErrorNotebookEntry, error)
	MarkReviewed(ctx context.Context, userID, questionID int64) error
	MarkPending(ctx context.Context, userID, questionID int64) error
	Remove(ctx context.Context, userID, questionID int64) error
	// ResolveReview removes the entry after a correct answer in a review
	// drill. It reports whether an entry was removed.
	ResolveReview(ctx context.Context, userID, questionID int64) (bool, error)
	List(ctx context.Context, filter models.NotebookFilter) ([]models.ErrorNotebookEntry, error)
	Counts(ctx context.Context, userID int64) (*models.NotebookCounts, error)
}

type notebookService struct {
	store repository.Store
	clock clock.Clock
}

// NewNotebookService creates a new NotebookService
func NewNotebookService(store repository.Store, clk clock.Clock) NotebookService {
	return &notebookService{store: store, clock: clk}
}

func validateQuestion(questionID int64) error {
	if questionID <= 0 {
		return errors.NewValidationError("question_id", "must be positive")
	}
	return nil
}

func (s *notebookService) RecordWrong(ctx context.Context, userID, questionID int64, userAnswer string) (*models.ErrorNotebookEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording wrong answer: user_id=%d, question_id=%d", userID, questionID)

	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if err := validateQuestion(questionID); err != nil {
		return nil, err
	}

	entry, err := s.store.Repositories().Notebook.Upsert(ctx, userID, questionID, userAnswer, s.clock.Now())
	if err != nil {
		return nil, storageErr("record wrong answer", err)
	}
	return entry, nil
}

func (s *notebookService) setReviewed(ctx context.Context, userID, questionID int64, reviewed bool) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	if err := validateQuestion(questionID); err != nil {
		return err
	}

	ok, err := s.store.Repositories().Notebook.SetReviewed(ctx, userID, questionID, reviewed, s.clock.Now())
	if err != nil {
		return storageErr("update notebook entry", err)
	}
	if !ok {
		return errors.NewNotFoundError("notebook entry", fmt.Sprintf("user %d question %d", userID, questionID))
	}
	logger.FromContext(ctx).Debug("notebook entry updated: user_id=%d, question_id=%d, reviewed=%t", userID, questionID, reviewed)
	return nil
}

func (s *notebookService) MarkReviewed(ctx context.Context, userID, questionID int64) error {
	return s.setReviewed(ctx, userID, questionID, true)
}

func (s *notebookService) MarkPending(ctx context.Context, userID, questionID int64) error {
	return s.setReviewed(ctx, userID, questionID, false)
}

func (s *notebookService) Remove(ctx context.Context, userID, questionID int64) error {
	removed, err := s.ResolveReview(ctx, userID, questionID)
	if err != nil {
		return err
	}
	if !removed {
		return errors.NewNotFoundError("notebook entry", fmt.Sprintf("user %d question %d", userID, questionID))
	}
	return nil
}

func (s *notebookService) ResolveReview(ctx context.Context, userID, questionID int64) (bool, error) {
	if err := validateUser(userID); err != nil {
		return false, err
	}
	if err := validateQuestion(questionID); err != nil {
		return false, err
	}
	removed, err := s.store.Repositories().Notebook.Delete(ctx, userID, questionID)
	if err != nil {
		return false, storageErr("delete notebook entry", err)
	}
	return removed, nil
}

func (s *notebookService) List(ctx context.Context, filter models.NotebookFilter) ([]models.ErrorNotebookEntry, error) {
	if err := validateUser(filter.UserID); err != nil {
		return nil, err
	}
	if filter.Status == "" {
		filter.Status = models.NotebookAll
	}
	if _, ok := models.ParseNotebookStatus(string(filter.Status)); !ok {
		return nil, errors.NewValidationError("status", "must be pending, reviewed or all")
	}
	entries, err := s.store.Repositories().Notebook.List(ctx, filter)
	if err != nil {
		return nil, storageErr("list notebook", err)
	}
	return entries, nil
}

func (s *notebookService) Counts(ctx context.Context, userID int64) (*models.NotebookCounts, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	c, err := s.store.Repositories().Notebook.Counts(ctx, userID)
	if err != nil {
		return nil, storageErr("count notebook", err)
	}
	return &c, nil
}

// applyOutcomes updates the notebook for a finished session inside the
// caller's transaction: wrong answers are upserted, and in a review drill a
// correct answer removes the entry.
func applyOutcomes(ctx context.Context, r repository.Repositories, clk clock.Clock, userID int64, kind models.SessionKind, outcomes []models.AnswerOutcome) (added, cleared int, err error) {
	now := clk.Now()
	missed := make(map[int64]struct{})
	for _, o := range outcomes {
		switch {
		case !o.Correct:
			if _, err := r.Notebook.Upsert(ctx, userID, o.QuestionID, o.UserAnswer, now); err != nil {
				return 0, 0, storageErr("record wrong answer", err)
			}
			if _, seen := missed[o.QuestionID]; !seen {
				missed[o.QuestionID] = struct{}{}
				added++
			}
		case kind == models.SessionReview:
			removed, err := r.Notebook.Delete(ctx, userID, o.QuestionID)
			if err != nil {
				return 0, 0, storageErr("delete notebook entry", err)
			}
			if removed {
				cleared++
			}
		}
	}
	return added, cleared, nil
}
