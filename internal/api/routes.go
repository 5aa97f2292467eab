package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNoRoute)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errMethodNotAllowed)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Get("/levels", s.handleLevels)
	r.Get("/levels/{xp}", s.handleLevelFor)
	r.Get("/achievements", s.handleCatalogue)
	r.Post("/estimate", s.handleEstimate)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/stats", s.handleStats)

		r.Post("/xp", s.handleGrantXP)
		r.Get("/xp", s.handleXPHistory)
		r.Get("/xp/verify", s.handleVerifyLedger)
		r.Post("/activity", s.handleRecordActivity)
		r.Post("/streak/touch", s.handleTouchStreak)

		r.Post("/sessions", s.handleFinalizeSession)

		r.Get("/proficiency", s.handleLatestProficiency)
		r.Post("/proficiency", s.handleSubmitProficiency)
		r.Get("/proficiency/history", s.handleProficiencyHistory)

		r.Get("/achievements", s.handleUnlocks)
		r.Post("/achievements/evaluate", s.handleEvaluateAchievements)
		r.Post("/notifications/next", s.handleNextNotification)

		r.Get("/notebook", s.handleListNotebook)
		r.Get("/notebook/counts", s.handleNotebookCounts)
		r.Post("/notebook", s.handleRecordWrong)
		r.Post("/notebook/{questionID}/reviewed", s.handleMarkReviewed)
		r.Post("/notebook/{questionID}/pending", s.handleMarkPending)
		r.Delete("/notebook/{questionID}", s.handleRemoveEntry)
	})

	return r
}
