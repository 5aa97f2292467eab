package models

import "time"

// UserStats is the per-user aggregate. It is only written through the XP
// ledger, which keeps XPTotal equal to the sum of the user's XP history.
type UserStats struct {
	UserID            int64     `json:"user_id"`
	XPTotal           int       `json:"xp_total"`
	StreakCurrent     int       `json:"streak_current"`
	StreakMax         int       `json:"streak_max"`
	LastStudyDate     string    `json:"last_study_date,omitempty"` // YYYY-MM-DD in the configured zone, empty before any activity
	QuestionsAnswered int       `json:"questions_answered"`
	QuestionsCorrect  int       `json:"questions_correct"`
	BattlesPlayed     int       `json:"battles_played"`
	BattlesPerfect    int       `json:"battles_perfect"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StatsView is UserStats plus the level derived from XPTotal.
type StatsView struct {
	UserStats
	Level LevelInfo `json:"level"`
}
