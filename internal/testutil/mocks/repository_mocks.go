package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context, userID int64) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockStatsRepository) GetOrCreate(ctx context.Context, userID int64, now time.Time) (*models.UserStats, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockStatsRepository) Save(ctx context.Context, stats models.UserStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

// MockXPRepository is a mock implementation of repository.XPRepository
type MockXPRepository struct {
	mock.Mock
}

func (m *MockXPRepository) Append(ctx context.Context, entry models.XPHistoryEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockXPRepository) Sum(ctx context.Context, userID int64) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockXPRepository) List(ctx context.Context, userID int64, limit, offset int) ([]models.XPHistoryEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.XPHistoryEntry), args.Error(1)
}

// MockProficiencyRepository is a mock implementation of repository.ProficiencyRepository
type MockProficiencyRepository struct {
	mock.Mock
}

func (m *MockProficiencyRepository) Insert(ctx context.Context, result models.ProficiencyResult) (int64, error) {
	args := m.Called(ctx, result)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProficiencyRepository) Latest(ctx context.Context, userID int64, mode models.ProficiencyMode) (*models.ProficiencyResult, error) {
	args := m.Called(ctx, userID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProficiencyResult), args.Error(1)
}

func (m *MockProficiencyRepository) List(ctx context.Context, userID int64, mode models.ProficiencyMode, limit int) ([]models.ProficiencyResult, error) {
	args := m.Called(ctx, userID, mode, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProficiencyResult), args.Error(1)
}

// MockAchievementRepository is a mock implementation of repository.AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) InsertUnlock(ctx context.Context, userID int64, achievementID string, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, achievementID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementRepository) List(ctx context.Context, filter models.UnlockFilter) ([]models.AchievementUnlock, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AchievementUnlock), args.Error(1)
}

func (m *MockAchievementRepository) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockNotebookRepository is a mock implementation of repository.NotebookRepository
type MockNotebookRepository struct {
	mock.Mock
}

func (m *MockNotebookRepository) Upsert(ctx context.Context, userID, questionID int64, userAnswer string, at time.Time) (*models.ErrorNotebookEntry, error) {
	args := m.Called(ctx, userID, questionID, userAnswer, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ErrorNotebookEntry), args.Error(1)
}

func (m *MockNotebookRepository) Get(ctx context.Context, userID, questionID int64) (*models.ErrorNotebookEntry, error) {
	args := m.Called(ctx, userID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ErrorNotebookEntry), args.Error(1)
}

func (m *MockNotebookRepository) List(ctx context.Context, filter models.NotebookFilter) ([]models.ErrorNotebookEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ErrorNotebookEntry), args.Error(1)
}

func (m *MockNotebookRepository) Counts(ctx context.Context, userID int64) (models.NotebookCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.NotebookCounts), args.Error(1)
}

func (m *MockNotebookRepository) SetReviewed(ctx context.Context, userID, questionID int64, reviewed bool, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, questionID, reviewed, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotebookRepository) Delete(ctx context.Context, userID, questionID int64) (bool, error) {
	args := m.Called(ctx, userID, questionID)
	return args.Bool(0), args.Error(1)
}
