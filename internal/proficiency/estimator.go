// Package proficiency turns difficulty-tagged answers into a bounded
// TRI-like score. Both diagnostic and exam modes go through the same
// estimator; a mode only selects its Scoring table.
package proficiency

import (
	"fmt"
	"math"

	"github.com/vytor/quizflash/internal/models"
)

// Tuning constants. They have no derivation beyond calibration against
// observed results; override them through Scoring rather than editing here.
const (
	DefaultDiagnosticBase  = 400
	DefaultDiagnosticSlope = 5
	DefaultDiagnosticMin   = 300
	DefaultDiagnosticMax   = 900

	DefaultExamBase   = 400
	DefaultExamMin    = 400
	DefaultExamMax    = 900
	DefaultEasyPoints = 15
	DefaultMedPoints  = 35
	DefaultHardPoints = 50

	DefaultConsistencyThreshold = 0.30
	DefaultConsistencyPenalty   = 30
)

// Bucket maps scores at or above MinScore to a label.
type Bucket struct {
	MinScore int    `json:"min_score"`
	Label    string `json:"label"`
}

// DefaultBuckets must stay sorted by MinScore descending.
var DefaultBuckets = []Bucket{
	{MinScore: 750, Label: "Avançado"},
	{MinScore: 600, Label: "Intermediário"},
	{MinScore: 450, Label: "Básico"},
	{MinScore: math.MinInt, Label: "Iniciante"},
}

// ConsistencyRule penalizes answer sets that are suspiciously better on hard
// questions than on easy ones. Both tiers must be present for it to apply.
type ConsistencyRule struct {
	Enabled   bool    `json:"enabled"`
	Threshold float64 `json:"threshold"`
	Penalty   int     `json:"penalty"`
}

// Scoring is one mode's weight table:
//
//	score = Base + Slope*accuracyPct + sum(TierPoints[d] for each correct answer) - penalty
//
// clamped to [Min, Max].
type Scoring struct {
	Base        int                       `json:"base"`
	Slope       int                       `json:"slope"`
	TierPoints  map[models.Difficulty]int `json:"tier_points"`
	Min         int                       `json:"min"`
	Max         int                       `json:"max"`
	Consistency ConsistencyRule           `json:"consistency"`
	Buckets     []Bucket                  `json:"buckets"`
}

// DiagnosticScoring is the linear accuracy formula used once per cooldown.
func DiagnosticScoring() Scoring {
	return Scoring{
		Base:    DefaultDiagnosticBase,
		Slope:   DefaultDiagnosticSlope,
		Min:     DefaultDiagnosticMin,
		Max:     DefaultDiagnosticMax,
		Buckets: DefaultBuckets,
	}
}

// ExamScoring is the difficulty-weighted formula for module and full exams.
func ExamScoring() Scoring {
	return Scoring{
		Base: DefaultExamBase,
		TierPoints: map[models.Difficulty]int{
			models.DifficultyEasy:   DefaultEasyPoints,
			models.DifficultyMedium: DefaultMedPoints,
			models.DifficultyHard:   DefaultHardPoints,
		},
		Min: DefaultExamMin,
		Max: DefaultExamMax,
		Consistency: ConsistencyRule{
			Enabled:   true,
			Threshold: DefaultConsistencyThreshold,
			Penalty:   DefaultConsistencyPenalty,
		},
		Buckets: DefaultBuckets,
	}
}

// Estimator holds the scoring table of each mode.
type Estimator struct {
	modes map[models.ProficiencyMode]Scoring
}

// NewEstimator builds an estimator from explicit tables.
func NewEstimator(diagnostic, exam Scoring) (*Estimator, error) {
	for mode, s := range map[models.ProficiencyMode]Scoring{models.ModeDiagnostic: diagnostic, models.ModeExam: exam} {
		if s.Min > s.Max {
			return nil, fmt.Errorf("%s scoring: min %d above max %d", mode, s.Min, s.Max)
		}
		if len(s.Buckets) == 0 {
			return nil, fmt.Errorf("%s scoring: no classification buckets", mode)
		}
	}
	return &Estimator{modes: map[models.ProficiencyMode]Scoring{
		models.ModeDiagnostic: diagnostic,
		models.ModeExam:       exam,
	}}, nil
}

// Default returns an estimator with the shipped tables.
func Default() *Estimator {
	e, err := NewEstimator(DiagnosticScoring(), ExamScoring())
	if err != nil {
		panic(err)
	}
	return e
}

// Scoring returns the table for mode.
func (e *Estimator) Scoring(mode models.ProficiencyMode) (Scoring, bool) {
	s, ok := e.modes[mode]
	return s, ok
}

// Estimate scores outcomes under mode. An empty list is valid and yields the
// lowest result of the mode; an unknown mode or difficulty tier is an error.
func (e *Estimator) Estimate(mode models.ProficiencyMode, outcomes []models.AnswerOutcome) (models.ProficiencyResult, error) {
	s, ok := e.modes[mode]
	if !ok {
		return models.ProficiencyResult{}, fmt.Errorf("unknown proficiency mode %q", mode)
	}

	breakdown, correct, err := Breakdown(outcomes)
	if err != nil {
		return models.ProficiencyResult{}, err
	}

	accuracy := AccuracyPct(correct, len(outcomes))

	score := s.Base + s.Slope*accuracy
	for _, d := range models.Difficulties {
		score += s.TierPoints[d] * breakdown.Tier(d).Correct
	}

	penalized := s.Consistency.Enabled && inconsistent(breakdown, s.Consistency.Threshold)
	if penalized {
		score -= s.Consistency.Penalty
	}
	score = clamp(score, s.Min, s.Max)

	return models.ProficiencyResult{
		Mode:             mode,
		Score:            score,
		Classification:   Classify(score, s.Buckets),
		AccuracyPct:      accuracy,
		Answered:         len(outcomes),
		Correct:          correct,
		PenaltyApplied:   penalized,
		PerTierBreakdown: breakdown,
	}, nil
}

// Breakdown tallies outcomes per difficulty tier.
func Breakdown(outcomes []models.AnswerOutcome) (models.TierBreakdown, int, error) {
	var b models.TierBreakdown
	correct := 0
	for i, o := range outcomes {
		tier := b.Tier(o.Difficulty)
		if tier == nil {
			return models.TierBreakdown{}, 0, fmt.Errorf("outcome %d (question %d): unknown difficulty tier %q", i, o.QuestionID, o.Difficulty)
		}
		tier.Total++
		if o.Correct {
			tier.Correct++
			correct++
		}
	}
	return b, correct, nil
}

// AccuracyPct is the rounded percentage of correct answers, 0 when total is 0.
func AccuracyPct(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Classify returns the label of the first bucket whose MinScore is at most score.
func Classify(score int, buckets []Bucket) string {
	for _, b := range buckets {
		if score >= b.MinScore {
			return b.Label
		}
	}
	return buckets[len(buckets)-1].Label
}

func inconsistent(b models.TierBreakdown, threshold float64) bool {
	if b.Easy.Total == 0 || b.Hard.Total == 0 {
		return false
	}
	return b.Hard.Accuracy() > b.Easy.Accuracy()+threshold
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
