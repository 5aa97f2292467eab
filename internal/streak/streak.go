// Package streak computes consecutive-day study streaks.
package streak

import (
	"time"

	"github.com/vytor/quizflash/internal/clock"
	"github.com/vytor/quizflash/internal/models"
)

// Touch records study activity on today and returns the updated stats.
// today must already be resolved by the app clock; only its date part is used.
//
//	same day      -> unchanged
//	next day      -> current+1
//	gap or first  -> current=1
//
// LastStudyDate is always rewritten to today and StreakMax never decreases.
// An unparsable stored date is treated like a first activity.
func Touch(stats models.UserStats, today time.Time) (models.UserStats, models.StreakResult) {
	todayStr := clock.FormatDate(today)
	changed := true

	last, err := clock.ParseDate(stats.LastStudyDate, today.Location())
	switch {
	case stats.LastStudyDate == "" || err != nil:
		stats.StreakCurrent = 1
	default:
		switch gap := clock.DaysBetween(last, today); {
		case gap == 0:
			changed = false
		case gap == 1:
			stats.StreakCurrent++
		case gap > 1:
			stats.StreakCurrent = 1
		default:
			// today is before the stored date; the clock moved backwards.
			changed = false
			todayStr = stats.LastStudyDate
		}
	}

	if stats.StreakCurrent > stats.StreakMax {
		stats.StreakMax = stats.StreakCurrent
	}
	stats.LastStudyDate = todayStr

	return stats, models.StreakResult{
		Current: stats.StreakCurrent,
		Max:     stats.StreakMax,
		Changed: changed,
	}
}

// Current reports the streak as it should be displayed on today without
// recording activity: a streak whose last day is before yesterday is broken.
func Current(stats models.UserStats, today time.Time) int {
	if stats.LastStudyDate == "" {
		return 0
	}
	last, err := clock.ParseDate(stats.LastStudyDate, today.Location())
	if err != nil {
		return 0
	}
	if clock.DaysBetween(last, today) > 1 {
		return 0
	}
	return stats.StreakCurrent
}
