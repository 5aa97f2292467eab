package api

import (
	"context"

	"github.com/vytor/quizflash/internal/services"
)

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Store              Pinger
	LedgerService      services.LedgerService
	StatsService       services.StatsService
	ProficiencyService services.ProficiencyService
	AchievementService services.AchievementService
	NotebookService    services.NotebookService
	SessionService     services.SessionService
}
