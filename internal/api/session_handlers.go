package api

import (
	"net/http"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

type assessmentRequest struct {
	Mode     models.ProficiencyMode `json:"mode"`
	Outcomes []models.AnswerOutcome `json:"outcomes"`
}

func (s *Server) handleFinalizeSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var session models.Session
	if err := decodeJSON(w, r, &session); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("finalize session request: user_id=%d, kind=%s, answers=%d", userID, session.Kind, len(session.Outcomes))

	summary, err := s.SessionService.Finalize(r.Context(), userID, session)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

// handleEstimate scores an answer set without storing anything.
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.ProficiencyService.Estimate(req.Mode, req.Outcomes)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleSubmitProficiency(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req assessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.ProficiencyService.Submit(r.Context(), userID, req.Mode, req.Outcomes)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, res)
}

func (s *Server) handleLatestProficiency(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	mode := models.ProficiencyMode(r.URL.Query().Get("mode"))

	res, err := s.ProficiencyService.Latest(r.Context(), userID, mode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if res == nil {
		handleError(w, r, errors.NewNotFoundError("proficiency result for user", userID))
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleProficiencyHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		handleError(w, r, err)
		return
	}
	mode := models.ProficiencyMode(r.URL.Query().Get("mode"))

	list, err := s.ProficiencyService.History(r.Context(), userID, mode, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleCatalogue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.AchievementService.Catalogue())
}

func (s *Server) handleUnlocks(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	list, err := s.AchievementService.List(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

// handleEvaluateAchievements evaluates the stored stats and latest result.
// Stats are never taken from the client; any body other than an empty
// object is rejected.
func (s *Server) handleEvaluateAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req struct{}
	if _, err := decodeOptionalJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	unlocked, err := s.AchievementService.EvaluateCurrent(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"unlocked": unlocked})
}

// handleNextNotification answers 204 once the queue is drained.
func (s *Server) handleNextNotification(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	next, err := s.AchievementService.NextNotification(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if next == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusOK, next)
}
