package models

type SessionKind string

const (
	SessionQuiz       SessionKind = "quiz"
	SessionBattle     SessionKind = "battle"
	SessionDiagnostic SessionKind = "diagnostic"
	SessionExam       SessionKind = "exam"
	SessionReview     SessionKind = "review"
)

func (k SessionKind) Valid() bool {
	switch k {
	case SessionQuiz, SessionBattle, SessionDiagnostic, SessionExam, SessionReview:
		return true
	}
	return false
}

// Session is a finished quiz, battle, diagnostic, exam or review drill.
// EventKey, when present, makes the session's XP grant unique.
type Session struct {
	Kind     SessionKind     `json:"kind"`
	EventKey string          `json:"event_key,omitempty"`
	Outcomes []AnswerOutcome `json:"outcomes"`
}

// SessionSummary is everything a result screen needs after finalization.
type SessionSummary struct {
	Kind            SessionKind        `json:"kind"`
	Answered        int                `json:"answered"`
	Correct         int                `json:"correct"`
	Grant           *GrantResult       `json:"grant,omitempty"`
	Stats           UserStats          `json:"stats"`
	Proficiency     *ProficiencyResult `json:"proficiency,omitempty"`
	NewAchievements []Achievement      `json:"new_achievements"`
	NotebookAdded   int                `json:"notebook_added"`
	NotebookCleared int                `json:"notebook_cleared"`
}

// Achievement is the presentation form of a catalogue entry.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XPBonus     int    `json:"xp_bonus"`
}
