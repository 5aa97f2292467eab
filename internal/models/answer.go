package models

import "fmt"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the tiers in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty accepts the tier names used by question banks.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty tier %q", s)
	}
	return d, nil
}

// AnswerOutcome is one answered question of a finished session.
type AnswerOutcome struct {
	QuestionID int64      `json:"question_id"`
	Difficulty Difficulty `json:"difficulty"`
	Correct    bool       `json:"correct"`
	UserAnswer string     `json:"user_answer,omitempty"`
}
