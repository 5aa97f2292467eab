package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/repository"
)

// MockStore is a mock implementation of repository.Store. WithinTx runs fn
// against Repos, or returns FailBegin without calling fn when it is set.
type MockStore struct {
	mock.Mock
	Repos     repository.Repositories
	FailBegin error
}

// NewMockStore wires fresh repository mocks into a MockStore.
func NewMockStore() (*MockStore, *MockRepositories) {
	m := &MockRepositories{
		Stats:        &MockStatsRepository{},
		XP:           &MockXPRepository{},
		Proficiency:  &MockProficiencyRepository{},
		Achievements: &MockAchievementRepository{},
		Notebook:     &MockNotebookRepository{},
	}
	return &MockStore{Repos: m.Repositories()}, m
}

func (m *MockStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if m.FailBegin != nil {
		return m.FailBegin
	}
	return fn(ctx, m.Repos)
}

func (m *MockStore) Repositories() repository.Repositories {
	return m.Repos
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRepositories keeps typed handles on the mocks behind a MockStore.
type MockRepositories struct {
	Stats        *MockStatsRepository
	XP           *MockXPRepository
	Proficiency  *MockProficiencyRepository
	Achievements *MockAchievementRepository
	Notebook     *MockNotebookRepository
}

func (m *MockRepositories) Repositories() repository.Repositories {
	return repository.Repositories{
		Stats:        m.Stats,
		XP:           m.XP,
		Proficiency:  m.Proficiency,
		Achievements: m.Achievements,
		Notebook:     m.Notebook,
	}
}
