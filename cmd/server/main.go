package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/vytor/quizflash/internal/achievement"
	"github.com/vytor/quizflash/internal/api"
	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/config"
	"github.com/vytor/quizflash/internal/db"
	"github.com/vytor/quizflash/internal/level"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/proficiency"
	"github.com/vytor/quizflash/internal/repository/sqlite"
	"github.com/vytor/quizflash/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("QuizFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("time_zone=%s", loc)
	log.Debug("diagnostic_cooldown_days=%d", cfg.DiagnosticCooldownDays)
	log.Debug("diagnostic_slope=%d", cfg.DiagnosticSlope)
	log.Debug("consistency_threshold=%.2f", cfg.ConsistencyThreshold)
	log.Debug("consistency_penalty=%d", cfg.ConsistencyPenalty)
	log.Debug("perfect_battle_bonus=%d", cfg.PerfectBattleBonus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open database
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	diagnostic := proficiency.DiagnosticScoring()
	diagnostic.Slope = cfg.DiagnosticSlope
	exam := proficiency.ExamScoring()
	exam.Consistency.Threshold = cfg.ConsistencyThreshold
	exam.Consistency.Penalty = cfg.ConsistencyPenalty
	estimator, err := proficiency.NewEstimator(diagnostic, exam)
	if err != nil {
		log.Error("invalid scoring tables: %v", err)
		os.Exit(1)
	}

	rewards := services.DefaultRewards()
	rewards.PerfectBattleBonus = cfg.PerfectBattleBonus

	// Initialize services
	store := sqlite.NewStore(database)
	clk := clock.New(loc)
	levels := level.Default()
	catalogue := achievement.Default()

	srv := &api.Server{
		Store:              store,
		LedgerService:      services.NewLedgerService(store, levels, clk),
		StatsService:       services.NewStatsService(store, levels, clk),
		ProficiencyService: services.NewProficiencyService(store, estimator, clk, cfg.DiagnosticCooldownDays),
		AchievementService: services.NewAchievementService(store, catalogue, levels, clk),
		NotebookService:    services.NewNotebookService(store, clk),
		SessionService: services.NewSessionService(store, levels, estimator, catalogue, clk, services.SessionConfig{
			Rewards:                rewards,
			DiagnosticCooldownDays: cfg.DiagnosticCooldownDays,
		}),
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}
	cancel()

	log.Info("===========================================")
	log.Info("QuizFlash Server Stopped")
	log.Info("===========================================")
}
