package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/services"
)

type SessionServiceSuite struct {
	suite.Suite
	env *env
	ctx context.Context
}

func (s *SessionServiceSuite) SetupTest() {
	s.env = newEnv(s.T())
	s.ctx = context.Background()
}

func (s *SessionServiceSuite) finalize(session models.Session) (*models.SessionSummary, error) {
	return s.env.sessions.Finalize(s.ctx, user, session)
}

func (s *SessionServiceSuite) TestExam() {
	summary, err := s.finalize(models.Session{
		Kind: models.SessionExam,
		Outcomes: []models.AnswerOutcome{
			outcome(1, models.DifficultyEasy, true),
			outcome(2, models.DifficultyEasy, true),
			outcome(3, models.DifficultyEasy, true),
			outcome(4, models.DifficultyMedium, true),
			outcome(5, models.DifficultyHard, false),
		},
	})
	s.Require().NoError(err)

	s.Equal(5, summary.Answered)
	s.Equal(4, summary.Correct)
	s.Equal(80, summary.Grant.XPGained)
	s.Equal(80, summary.Grant.XPTotal)
	s.Require().NotNil(summary.Proficiency)
	s.Equal(480, summary.Proficiency.Score)
	s.Equal("Básico", summary.Proficiency.Classification)
	s.Equal([]string{"first_answer"}, ids(summary.NewAchievements))
	s.Equal(1, summary.NotebookAdded)

	s.Equal(90, summary.Stats.XPTotal)
	s.Equal(5, summary.Stats.QuestionsAnswered)
	s.Equal(4, summary.Stats.QuestionsCorrect)
	s.Equal(1, summary.Stats.StreakCurrent)

	check, err := s.env.ledger.Verify(s.ctx, user)
	s.Require().NoError(err)
	s.True(check.Consistent)
	s.Equal(2, check.Entries)

	pending, err := s.env.notebook.List(s.ctx, models.NotebookFilter{UserID: user, Status: models.NotebookPending})
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(int64(5), pending[0].QuestionID)
}

func (s *SessionServiceSuite) TestPerfectBattle() {
	summary, err := s.finalize(models.Session{
		Kind: models.SessionBattle,
		Outcomes: []models.AnswerOutcome{
			outcome(1, models.DifficultyMedium, true),
			outcome(2, models.DifficultyMedium, true),
		},
	})
	s.Require().NoError(err)

	s.Equal(90, summary.Grant.XPGained)
	s.Nil(summary.Proficiency)
	s.Equal([]string{"first_answer", "first_battle", "perfect_battle"}, ids(summary.NewAchievements))
	s.Equal(165, summary.Stats.XPTotal)
	s.Equal(1, summary.Stats.BattlesPlayed)
	s.Equal(1, summary.Stats.BattlesPerfect)
}

func (s *SessionServiceSuite) TestBattleWithMistake() {
	summary, err := s.finalize(models.Session{
		Kind: models.SessionBattle,
		Outcomes: []models.AnswerOutcome{
			outcome(1, models.DifficultyHard, true),
			outcome(2, models.DifficultyEasy, false),
		},
	})
	s.Require().NoError(err)

	s.Equal(50, summary.Grant.XPGained)
	s.Equal(0, summary.Stats.BattlesPerfect)
	s.Equal(1, summary.Stats.BattlesPlayed)
	s.NotContains(ids(summary.NewAchievements), "perfect_battle")
}

func (s *SessionServiceSuite) TestDiagnosticUsesOwnResultForAchievements() {
	summary, err := s.finalize(models.Session{Kind: models.SessionDiagnostic, Outcomes: mediumSet(8, 2)})
	s.Require().NoError(err)

	s.Equal(800, summary.Proficiency.Score)
	s.Equal(280, summary.Grant.XPGained)
	s.Equal([]string{"first_answer", "proficiency_600", "proficiency_750"}, ids(summary.NewAchievements))
	s.Equal(500, summary.Stats.XPTotal)

	view, err := s.env.stats.Get(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(4, view.Level.Level)
}

func (s *SessionServiceSuite) TestDiagnosticCooldownWritesNothing() {
	_, err := s.finalize(models.Session{Kind: models.SessionDiagnostic, Outcomes: mediumSet(2, 2)})
	s.Require().NoError(err)
	before := s.env.storedStats(s.T())

	s.env.clock.AddDays(3)
	_, err = s.finalize(models.Session{Kind: models.SessionDiagnostic, Outcomes: mediumSet(4, 0)})
	s.True(errors.Is(err, errors.ErrCodeConflict))

	after := s.env.storedStats(s.T())
	s.Equal(before.XPTotal, after.XPTotal)
	s.Equal(before.QuestionsAnswered, after.QuestionsAnswered)
	s.Equal(before.LastStudyDate, after.LastStudyDate)
}

func (s *SessionServiceSuite) TestReviewClearsNotebook() {
	_, err := s.finalize(models.Session{
		Kind: models.SessionQuiz,
		Outcomes: []models.AnswerOutcome{
			outcome(7, models.DifficultyEasy, false),
			outcome(8, models.DifficultyEasy, false),
			outcome(9, models.DifficultyEasy, true),
		},
	})
	s.Require().NoError(err)

	summary, err := s.finalize(models.Session{
		Kind: models.SessionReview,
		Outcomes: []models.AnswerOutcome{
			outcome(7, models.DifficultyEasy, true),
			outcome(8, models.DifficultyEasy, false),
		},
	})
	s.Require().NoError(err)
	s.Equal(1, summary.NotebookCleared)
	s.Equal(1, summary.NotebookAdded)

	counts, err := s.env.notebook.Counts(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(models.NotebookCounts{Pending: 1, Total: 1}, *counts)
}

func (s *SessionServiceSuite) TestRepeatedMissCountsOnce() {
	summary, err := s.finalize(models.Session{
		Kind: models.SessionQuiz,
		Outcomes: []models.AnswerOutcome{
			outcome(5, models.DifficultyEasy, false),
			outcome(6, models.DifficultyEasy, true),
			outcome(5, models.DifficultyEasy, false),
		},
	})
	s.Require().NoError(err)
	s.Equal(1, summary.NotebookAdded)

	counts, err := s.env.notebook.Counts(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(models.NotebookCounts{Pending: 1, Total: 1}, *counts)
}

func (s *SessionServiceSuite) TestQuizDoesNotClearNotebook() {
	_, err := s.env.notebook.RecordWrong(s.ctx, user, 3, "A")
	s.Require().NoError(err)

	summary, err := s.finalize(models.Session{
		Kind:     models.SessionQuiz,
		Outcomes: []models.AnswerOutcome{outcome(3, models.DifficultyEasy, true)},
	})
	s.Require().NoError(err)
	s.Zero(summary.NotebookCleared)

	entry, err := s.env.repos.Notebook.Get(s.ctx, user, 3)
	s.Require().NoError(err)
	s.NotNil(entry)
}

func (s *SessionServiceSuite) TestDuplicateEventRollsBackEverything() {
	first := models.Session{
		Kind:     models.SessionExam,
		EventKey: "exam-42",
		Outcomes: []models.AnswerOutcome{outcome(1, models.DifficultyEasy, true)},
	}
	_, err := s.finalize(first)
	s.Require().NoError(err)
	before := s.env.storedStats(s.T())

	replay := models.Session{
		Kind:     models.SessionExam,
		EventKey: "exam-42",
		Outcomes: []models.AnswerOutcome{
			outcome(2, models.DifficultyHard, true),
			outcome(3, models.DifficultyHard, false),
		},
	}
	_, err = s.finalize(replay)
	s.True(errors.Is(err, errors.ErrCodeConflict))

	s.Equal(before, s.env.storedStats(s.T()))

	exams, err := s.env.proficiency.History(s.ctx, user, models.ModeExam, 0)
	s.Require().NoError(err)
	s.Len(exams, 1, "the replayed exam result is rolled back")

	entry, err := s.env.repos.Notebook.Get(s.ctx, user, 3)
	s.Require().NoError(err)
	s.Nil(entry)
}

func (s *SessionServiceSuite) TestCallerKeyDoesNotBlockAchievementBonus() {
	_, err := s.env.ledger.GrantXP(s.ctx, user, 5, "login bonus", "achievement:first_answer")
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		summary, err := s.finalize(models.Session{
			Kind:     models.SessionQuiz,
			Outcomes: []models.AnswerOutcome{outcome(int64(i+1), models.DifficultyMedium, true)},
		})
		s.Require().NoError(err, "session %d", i)
		if i == 0 {
			s.Equal([]string{"first_answer"}, ids(summary.NewAchievements))
		} else {
			s.Empty(summary.NewAchievements)
		}
	}

	stats := s.env.storedStats(s.T())
	s.Equal(3, stats.QuestionsAnswered)
	total, _ := s.env.historySum(s.T())
	s.Equal(total, stats.XPTotal)

	check, err := s.env.ledger.Verify(s.ctx, user)
	s.Require().NoError(err)
	s.True(check.Consistent)
	s.Equal(5, check.Entries, "one caller grant, three sessions, one bonus")
}

func (s *SessionServiceSuite) TestValidation() {
	tests := []struct {
		name    string
		userID  int64
		session models.Session
	}{
		{name: "no outcomes", userID: user, session: models.Session{Kind: models.SessionQuiz}},
		{name: "unknown kind", userID: user, session: models.Session{Kind: "tournament", Outcomes: mediumSet(1, 0)}},
		{name: "unknown difficulty", userID: user, session: models.Session{Kind: models.SessionQuiz, Outcomes: []models.AnswerOutcome{outcome(1, "expert", true)}}},
		{name: "bad user", userID: 0, session: models.Session{Kind: models.SessionQuiz, Outcomes: mediumSet(1, 0)}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.env.sessions.Finalize(s.ctx, tt.userID, tt.session)
			s.True(errors.Is(err, errors.ErrCodeValidation), "got %v", err)
		})
	}
	s.Equal(models.UserStats{}, s.env.storedStats(s.T()))
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceSuite))
}

func TestRewards_SessionXP(t *testing.T) {
	r := services.DefaultRewards()

	tests := []struct {
		name     string
		kind     models.SessionKind
		outcomes []models.AnswerOutcome
		want     int
	}{
		{name: "empty", kind: models.SessionBattle, outcomes: nil, want: 0},
		{name: "quiz all correct", kind: models.SessionQuiz, outcomes: mediumSet(2, 0), want: 70},
		{name: "perfect battle", kind: models.SessionBattle, outcomes: mediumSet(2, 0), want: 90},
		{name: "battle with mistake", kind: models.SessionBattle, outcomes: mediumSet(2, 1), want: 70},
		{name: "all wrong", kind: models.SessionExam, outcomes: mediumSet(0, 3), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.SessionXP(tt.kind, tt.outcomes))
		})
	}
}

func TestFinalize_AllWrongAnswersKeepStreak(t *testing.T) {
	e := newEnv(t)

	summary, err := e.sessions.Finalize(context.Background(), user, models.Session{
		Kind:     models.SessionQuiz,
		Outcomes: mediumSet(0, 2),
	})
	require.NoError(t, err)

	assert.Zero(t, summary.Grant.XPGained)
	assert.Zero(t, summary.Grant.Streak.Current)
	assert.Equal(t, 2, summary.NotebookAdded)
	assert.Equal(t, []string{"first_answer"}, ids(summary.NewAchievements))
	// the first_answer bonus is a positive grant and counts as study
	assert.Equal(t, 1, summary.Stats.StreakCurrent)
}
