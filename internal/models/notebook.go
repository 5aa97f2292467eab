package models

import "time"

type NotebookStatus string

const (
	NotebookPending  NotebookStatus = "pending"
	NotebookReviewed NotebookStatus = "reviewed"
	NotebookAll      NotebookStatus = "all"
)

// ParseNotebookStatus maps a list filter; the empty string means all.
func ParseNotebookStatus(s string) (NotebookStatus, bool) {
	switch NotebookStatus(s) {
	case "", NotebookAll:
		return NotebookAll, true
	case NotebookPending:
		return NotebookPending, true
	case NotebookReviewed:
		return NotebookReviewed, true
	}
	return "", false
}

// ErrorNotebookEntry is unique per (UserID, QuestionID).
type ErrorNotebookEntry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	QuestionID int64     `json:"question_id"`
	UserAnswer string    `json:"user_answer"`
	Reviewed   bool      `json:"reviewed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (e ErrorNotebookEntry) Status() NotebookStatus {
	if e.Reviewed {
		return NotebookReviewed
	}
	return NotebookPending
}

type NotebookFilter struct {
	UserID int64
	Status NotebookStatus
	Limit  int
	Offset int
}

type NotebookCounts struct {
	Pending  int `json:"pending"`
	Reviewed int `json:"reviewed"`
	Total    int `json:"total"`
}
