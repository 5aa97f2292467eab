package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/level"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
	"github.com/vytor/quizflash/internal/streak"
)

// storageErr wraps a raw store failure; typed errors pass through.
func storageErr(op string, err error) error {
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	return errors.NewStorageError(op, err)
}

func validateUser(userID int64) error {
	if userID <= 0 {
		return errors.NewValidationError("user_id", "must be positive")
	}
	return nil
}

func validateActivity(act models.Activity) error {
	switch {
	case act.Amount < 0:
		return errors.NewValidationError("amount", "must not be negative")
	case act.QuestionsAnswered < 0 || act.QuestionsCorrect < 0 || act.BattlesPlayed < 0 || act.BattlesPerfect < 0:
		return errors.NewValidationError("counters", "must not be negative")
	case act.QuestionsCorrect > act.QuestionsAnswered:
		return errors.NewValidationError("questions_correct", "cannot exceed questions_answered")
	case act.BattlesPerfect > act.BattlesPlayed:
		return errors.NewValidationError("battles_perfect", "cannot exceed battles_played")
	case act.Amount > 0 && act.Reason == "":
		return errors.NewValidationError("reason", "required for an xp grant")
	}
	return nil
}

// applyActivity is the only writer of UserStats. It must run inside a
// transaction: the history append and the stats save commit together.
// A positive amount appends history, raises the total and counts as study
// for the streak; counters move either way.
func applyActivity(ctx context.Context, r repository.Repositories, levels *level.Table, clk clock.Clock, userID int64, act models.Activity) (*models.GrantResult, error) {
	log := logger.FromContext(ctx)
	now := clk.Now()

	stats, err := r.Stats.GetOrCreate(ctx, userID, now)
	if err != nil {
		return nil, storageErr("load stats", err)
	}
	before := stats.XPTotal
	next := *stats

	next.QuestionsAnswered += act.QuestionsAnswered
	next.QuestionsCorrect += act.QuestionsCorrect
	next.BattlesPlayed += act.BattlesPlayed
	next.BattlesPerfect += act.BattlesPerfect

	streakRes := models.StreakResult{Current: next.StreakCurrent, Max: next.StreakMax}
	if act.Amount > 0 {
		_, err := r.XP.Append(ctx, models.XPHistoryEntry{
			UserID:    userID,
			Amount:    act.Amount,
			Reason:    act.Reason,
			EventKey:  act.EventKey,
			CreatedAt: now,
		})
		if stderrors.Is(err, repository.ErrDuplicateEvent) {
			return nil, errors.NewConflictError(fmt.Sprintf("xp already granted for event %q", act.EventKey))
		}
		if err != nil {
			return nil, storageErr("append xp history", err)
		}
		next.XPTotal += act.Amount
		next, streakRes = streak.Touch(next, clk.Today())
	}
	next.UpdatedAt = now

	if err := r.Stats.Save(ctx, next); err != nil {
		return nil, storageErr("save stats", err)
	}

	res := &models.GrantResult{
		XPGained:  act.Amount,
		XPTotal:   next.XPTotal,
		Level:     levels.For(next.XPTotal),
		Streak:    streakRes,
		LeveledUp: levels.LeveledUp(before, next.XPTotal),
		Stats:     next,
	}
	log.Debug("activity applied: user_id=%d, xp=+%d, total=%d, level=%d, streak=%d",
		userID, act.Amount, res.XPTotal, res.Level.Level, res.Streak.Current)
	return res, nil
}

// LedgerService owns XP, level and streak bookkeeping
type LedgerService interface {
	GrantXP(ctx context.Context, userID int64, amount int, reason, eventKey string) (*models.GrantResult, error)
	RecordActivity(ctx context.Context, userID int64, act models.Activity) (*models.GrantResult, error)
	TouchStreak(ctx context.Context, userID int64) (*models.StreakResult, error)
	LevelFor(xpTotal int) models.LevelInfo
	Levels() []level.Definition
	History(ctx context.Context, userID int64, limit, offset int) ([]models.XPHistoryEntry, error)
	Verify(ctx context.Context, userID int64) (*models.LedgerCheck, error)
}

type ledgerService struct {
	store  repository.Store
	levels *level.Table
	clock  clock.Clock
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(store repository.Store, levels *level.Table, clk clock.Clock) LedgerService {
	return &ledgerService{store: store, levels: levels, clock: clk}
}

// GrantXP rejects non-positive amounts without writing anything.
func (s *ledgerService) GrantXP(ctx context.Context, userID int64, amount int, reason, eventKey string) (*models.GrantResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("granting xp: user_id=%d, amount=%d, reason=%s", userID, amount, reason)

	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, errors.NewValidationError("amount", "must be a positive integer")
	}
	return s.RecordActivity(ctx, userID, models.Activity{Amount: amount, Reason: reason, EventKey: eventKey})
}

func (s *ledgerService) RecordActivity(ctx context.Context, userID int64, act models.Activity) (*models.GrantResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if err := validateActivity(act); err != nil {
		return nil, err
	}

	var res *models.GrantResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		var err error
		res, err = applyActivity(ctx, r, s.levels, s.clock, userID, act)
		return err
	})
	if err != nil {
		return nil, storageErr("record activity", err)
	}
	if res.LeveledUp {
		logger.FromContext(ctx).Info("user leveled up: user_id=%d, level=%d (%s)", userID, res.Level.Level, res.Level.Title)
	}
	return res, nil
}

// TouchStreak records study today without granting XP.
func (s *ledgerService) TouchStreak(ctx context.Context, userID int64) (*models.StreakResult, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	var res models.StreakResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		now := s.clock.Now()
		stats, err := r.Stats.GetOrCreate(ctx, userID, now)
		if err != nil {
			return storageErr("load stats", err)
		}
		next, touched := streak.Touch(*stats, s.clock.Today())
		res = touched
		if !touched.Changed {
			return nil
		}
		next.UpdatedAt = now
		if err := r.Stats.Save(ctx, next); err != nil {
			return storageErr("save stats", err)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("touch streak", err)
	}
	logger.FromContext(ctx).Debug("streak touched: user_id=%d, current=%d, changed=%t", userID, res.Current, res.Changed)
	return &res, nil
}

func (s *ledgerService) LevelFor(xpTotal int) models.LevelInfo {
	return s.levels.For(xpTotal)
}

func (s *ledgerService) Levels() []level.Definition {
	return s.levels.Definitions()
}

func (s *ledgerService) History(ctx context.Context, userID int64, limit, offset int) ([]models.XPHistoryEntry, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	entries, err := s.store.Repositories().XP.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, storageErr("list xp history", err)
	}
	return entries, nil
}

// Verify compares the stored total with the sum of the user's history.
func (s *ledgerService) Verify(ctx context.Context, userID int64) (*models.LedgerCheck, error) {
	log := logger.FromContext(ctx)
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	repos := s.store.Repositories()
	stats, err := repos.Stats.Get(ctx, userID)
	if err != nil {
		return nil, storageErr("load stats", err)
	}
	sum, entries, err := repos.XP.Sum(ctx, userID)
	if err != nil {
		return nil, storageErr("sum xp history", err)
	}

	check := &models.LedgerCheck{UserID: userID, HistorySum: sum, Entries: entries}
	if stats != nil {
		check.XPTotal = stats.XPTotal
	}
	check.Consistent = check.XPTotal == check.HistorySum
	if !check.Consistent {
		log.Warn("xp ledger mismatch: user_id=%d, total=%d, history=%d", userID, check.XPTotal, check.HistorySum)
	}
	return check, nil
}
