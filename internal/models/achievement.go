package models

import "time"

type AchievementUnlock struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	AchievementID string     `json:"achievement_id"`
	UnlockedAt    time.Time  `json:"unlocked_at"`
	NotifiedAt    *time.Time `json:"notified_at"`
}

type UnlockFilter struct {
	UserID         int64
	OnlyUnnotified bool
	Limit          int
}

// UnlockedAchievement is a catalogue entry the user holds.
type UnlockedAchievement struct {
	Achievement
	UnlockedAt time.Time `json:"unlocked_at"`
	Notified   bool      `json:"notified"`
}
