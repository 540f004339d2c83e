package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStore) List(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockStore) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockStore) Recipient(ctx context.Context, userID uuid.UUID) (*Recipient, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Recipient), args.Error(1)
}

func (m *MockStore) ReminderRecipients(ctx context.Context, today time.Time) ([]Recipient, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Recipient), args.Error(1)
}

func (m *MockStore) ReportRecipients(ctx context.Context) ([]Recipient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Recipient), args.Error(1)
}

func (m *MockStore) RecipientsWithStreak(ctx context.Context, streak int) ([]Recipient, error) {
	args := m.Called(ctx, streak)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Recipient), args.Error(1)
}

func (m *MockStore) WeeklySummary(ctx context.Context, userID uuid.UUID, from time.Time) (*WeeklySummary, error) {
	args := m.Called(ctx, userID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WeeklySummary), args.Error(1)
}

func (m *MockStore) SaveSubscription(ctx context.Context, sub *PushSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockStore) Subscriptions(ctx context.Context, userID uuid.UUID) ([]PushSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PushSubscription), args.Error(1)
}

func (m *MockStore) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailer is a mock implementation of Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// MockPusher is a mock implementation of Pusher
type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Send(ctx context.Context, sub PushSubscription, payload []byte) error {
	args := m.Called(ctx, sub, payload)
	return args.Error(0)
}
