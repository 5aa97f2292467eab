package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

type grantXPRequest struct {
	Amount   int    `json:"amount"`
	Reason   string `json:"reason"`
	EventKey string `json:"event_key"`
}

type activityRequest struct {
	Amount            int    `json:"amount"`
	Reason            string `json:"reason"`
	EventKey          string `json:"event_key"`
	QuestionsAnswered int    `json:"questions_answered"`
	QuestionsCorrect  int    `json:"questions_correct"`
	BattlesPlayed     int    `json:"battles_played"`
	BattlesPerfect    int    `json:"battles_perfect"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.LedgerService.Levels())
}

func (s *Server) handleLevelFor(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "xp")
	xp, err := strconv.Atoi(raw)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("xp must be an integer"))
		return
	}
	writeJSON(w, r, http.StatusOK, s.LedgerService.LevelFor(xp))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.StatsService.Get(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleGrantXP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req grantXPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("grant xp request: user_id=%d, amount=%d, reason=%s", userID, req.Amount, req.Reason)

	res, err := s.LedgerService.GrantXP(r.Context(), userID, req.Amount, req.Reason, req.EventKey)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.LedgerService.RecordActivity(r.Context(), userID, models.Activity{
		Amount:            req.Amount,
		Reason:            req.Reason,
		EventKey:          req.EventKey,
		QuestionsAnswered: req.QuestionsAnswered,
		QuestionsCorrect:  req.QuestionsCorrect,
		BattlesPlayed:     req.BattlesPlayed,
		BattlesPerfect:    req.BattlesPerfect,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleTouchStreak(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.LedgerService.TouchStreak(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleXPHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	entries, err := s.LedgerService.History(r.Context(), userID, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

func (s *Server) handleVerifyLedger(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	check, err := s.LedgerService.Verify(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, check)
}
