package models

import "time"

type XPHistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	EventKey  string    `json:"event_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LevelInfo is the result of a level table lookup.
type LevelInfo struct {
	Level             int    `json:"level"`
	Title             string `json:"title"`
	XPTotal           int    `json:"xp_total"`
	XPForCurrentLevel int    `json:"xp_for_current_level"`
	XPForNextLevel    int    `json:"xp_for_next_level"`
	ProgressPct       int    `json:"progress_pct"`
	XPToNext          int    `json:"xp_to_next"`
	MaxLevel          bool   `json:"max_level"`
}

// StreakResult reports the streak after a touch.
type StreakResult struct {
	Current int  `json:"streak_current"`
	Max     int  `json:"streak_max"`
	Changed bool `json:"changed"`
}

// Activity is one logical study event applied to a user's stats: an optional
// XP grant plus the counters the event moves.
type Activity struct {
	Amount   int
	Reason   string
	EventKey string

	QuestionsAnswered int
	QuestionsCorrect  int
	BattlesPlayed     int
	BattlesPerfect    int
}

// GrantResult is returned by every XP grant.
type GrantResult struct {
	XPGained  int          `json:"xp_ganho"`
	XPTotal   int          `json:"xp_total"`
	Level     LevelInfo    `json:"level"`
	Streak    StreakResult `json:"streak"`
	LeveledUp bool         `json:"leveled_up"`
	Stats     UserStats    `json:"stats"`
}

// LedgerCheck compares the stored total with the sum of history.
type LedgerCheck struct {
	UserID     int64 `json:"user_id"`
	XPTotal    int   `json:"xp_total"`
	HistorySum int   `json:"history_sum"`
	Entries    int   `json:"entries"`
	Consistent bool  `json:"consistent"`
}
