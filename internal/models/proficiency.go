package models

import "time"

type ProficiencyMode string

const (
	ModeDiagnostic ProficiencyMode = "diagnostic"
	ModeExam       ProficiencyMode = "exam"
)

type TierStat struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Accuracy is Correct/Total, 0 for an empty tier.
func (t TierStat) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

type TierBreakdown struct {
	Easy   TierStat `json:"easy"`
	Medium TierStat `json:"medium"`
	Hard   TierStat `json:"hard"`
}

// Tier returns a pointer to the stat for d, nil for an unknown tier.
func (b *TierBreakdown) Tier(d Difficulty) *TierStat {
	switch d {
	case DifficultyEasy:
		return &b.Easy
	case DifficultyMedium:
		return &b.Medium
	case DifficultyHard:
		return &b.Hard
	}
	return nil
}

// ProficiencyResult is immutable once stored; a retake inserts a new row.
type ProficiencyResult struct {
	ID               int64           `json:"id,omitempty"`
	UserID           int64           `json:"user_id,omitempty"`
	Mode             ProficiencyMode `json:"mode"`
	Score            int             `json:"score"`
	Classification   string          `json:"classification"`
	AccuracyPct      int             `json:"accuracy_pct"`
	Answered         int             `json:"answered"`
	Correct          int             `json:"correct"`
	PenaltyApplied   bool            `json:"penalty_applied"`
	PerTierBreakdown TierBreakdown   `json:"per_tier_breakdown"`
	CreatedAt        time.Time       `json:"created_at"`
}
