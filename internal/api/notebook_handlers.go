package api

import (
	"net/http"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

type recordWrongRequest struct {
	QuestionID int64  `json:"question_id"`
	UserAnswer string `json:"user_answer"`
}

func (s *Server) handleListNotebook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	status, ok := models.ParseNotebookStatus(r.URL.Query().Get("status"))
	if !ok {
		handleError(w, r, errors.NewBadRequestError("status must be pending, reviewed or all"))
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	entries, err := s.NotebookService.List(r.Context(), models.NotebookFilter{
		UserID: userID,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("found %d notebook entries (status=%s)", len(entries), status)
	writeJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleNotebookCounts(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	counts, err := s.NotebookService.Counts(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, counts)
}

func (s *Server) handleRecordWrong(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req recordWrongRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	entry, err := s.NotebookService.RecordWrong(r.Context(), userID, req.QuestionID, req.UserAnswer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entry)
}

// notebookTarget parses the user and question path parameters.
func notebookTarget(r *http.Request) (userID, questionID int64, err error) {
	if userID, err = userParam(r); err != nil {
		return 0, 0, err
	}
	if questionID, err = int64Param(r, "questionID"); err != nil {
		return 0, 0, err
	}
	return userID, questionID, nil
}

func (s *Server) handleMarkReviewed(w http.ResponseWriter, r *http.Request) {
	userID, questionID, err := notebookTarget(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.NotebookService.MarkReviewed(r.Context(), userID, questionID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkPending(w http.ResponseWriter, r *http.Request) {
	userID, questionID, err := notebookTarget(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.NotebookService.MarkPending(r.Context(), userID, questionID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	userID, questionID, err := notebookTarget(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.NotebookService.Remove(r.Context(), userID, questionID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
