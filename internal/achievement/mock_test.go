package achievement

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Catalog(ctx context.Context) ([]Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Achievement), args.Error(1)
}

func (m *MockStore) EarnedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockStore) Award(ctx context.Context, userID, achievementID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, achievementID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) AddXP(ctx context.Context, userID uuid.UUID, xp int) error {
	args := m.Called(ctx, userID, xp)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AchievementUnlocked(ctx context.Context, userID uuid.UUID, a Achievement) {
	m.Called(ctx, userID, a)
}
