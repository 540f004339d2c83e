package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"learnsync-go/internal/achievement"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ToggleCompletion(ctx context.Context, userID, videoID uuid.UUID) (*VideoProgress, error) {
	args := m.Called(ctx, userID, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VideoProgress), args.Error(1)
}

func (m *MockStore) ApplyStats(ctx context.Context, userID uuid.UUID, apply func(UserStats) UserStats) (*UserStats, error) {
	args := m.Called(ctx, userID, apply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Run the mutation against the seeded row the way the real store does
	// under its row lock.
	updated := apply(*args.Get(0).(*UserStats))
	return &updated, args.Error(1)
}

func (m *MockStore) GetStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserStats), args.Error(1)
}

func (m *MockStore) RecordSession(ctx context.Context, userID uuid.UUID, day time.Time, videos, watchTime, xp int) error {
	args := m.Called(ctx, userID, day, videos, watchTime, xp)
	return args.Error(0)
}

func (m *MockStore) SessionsSince(ctx context.Context, userID uuid.UUID, from time.Time) ([]LearningSession, error) {
	args := m.Called(ctx, userID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LearningSession), args.Error(1)
}

// MockAwarder is a mock implementation of Awarder
type MockAwarder struct {
	mock.Mock
}

func (m *MockAwarder) EvaluateAndAward(ctx context.Context, userID uuid.UUID, stats achievement.Stats) ([]achievement.Achievement, error) {
	args := m.Called(ctx, userID, stats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]achievement.Achievement), args.Error(1)
}
