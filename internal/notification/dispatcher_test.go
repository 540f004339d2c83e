package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestDispatcher(store Store, mailer Mailer, pusher Pusher, now time.Time) *Dispatcher {
	d := NewDispatcher(store, mailer, pusher, "https://app.example.com",
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.now = func() time.Time { return now }
	return d
}

func TestDispatchStoresEmitsAndDelivers(t *testing.T) {
	mockStore := new(MockStore)
	mockMailer := new(MockMailer)
	mockPusher := new(MockPusher)
	d := newTestDispatcher(mockStore, mockMailer, mockPusher, time.Now())

	ctx := context.Background()
	userID := uuid.New()
	rec := &Recipient{
		UserID:             userID,
		Email:              "ada@example.com",
		DisplayName:        "Ada",
		EmailNotifications: true,
		PushNotifications:  true,
	}
	sub := PushSubscription{ID: uuid.New(), UserID: userID, Endpoint: "https://push.example.com/abc"}

	mockStore.On("Recipient", ctx, userID).Return(rec, nil)
	mockStore.On("Insert", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)
	mockStore.On("Subscriptions", ctx, userID).Return([]PushSubscription{sub}, nil)
	mockPusher.On("Send", ctx, sub, mock.Anything).Return(nil)
	mockMailer.On("Send", ctx, "ada@example.com", mock.Anything, mock.Anything).Return(nil)

	events, cancel := d.Subscribe(userID)
	defer cancel()

	err := d.Dispatch(ctx, userID, AchievementPayload{Name: "Week Warrior", XPReward: 100})
	assert.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, TypeAchievement, event.Type)
		assert.Equal(t, userID, event.UserID)
	default:
		t.Fatal("expected an in-app event")
	}

	mockStore.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
	mockPusher.AssertExpectations(t)
}

func TestSubscribeDeliversOnlyToOwningUser(t *testing.T) {
	mockStore := new(MockStore)
	mockMailer := new(MockMailer)
	mockPusher := new(MockPusher)
	d := newTestDispatcher(mockStore, mockMailer, mockPusher, time.Now())

	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	mockStore.On("Recipient", ctx, alice).Return(&Recipient{UserID: alice, Email: "alice@example.com"}, nil)
	mockStore.On("Insert", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)

	aliceEvents, cancelAlice := d.Subscribe(alice)
	defer cancelAlice()
	bobEvents, cancelBob := d.Subscribe(bob)
	defer cancelBob()

	err := d.Dispatch(ctx, alice, StreakPayload{Streak: 7})
	assert.NoError(t, err)

	select {
	case event := <-aliceEvents:
		assert.Equal(t, alice, event.UserID)
	default:
		t.Fatal("expected alice's subscriber to receive the event")
	}

	select {
	case event := <-bobEvents:
		t.Fatalf("bob's subscriber received another user's event: %+v", event)
	default:
	}

	// Cancelled subscribers stop receiving and the channel closes.
	cancelAlice()
	cancelAlice() // idempotent
	_, open := <-aliceEvents
	assert.False(t, open)

	mockStore.AssertExpectations(t)
}

func TestDispatchRespectsOptOuts(t *testing.T) {
	mockStore := new(MockStore)
	mockMailer := new(MockMailer)
	mockPusher := new(MockPusher)
	d := newTestDispatcher(mockStore, mockMailer, mockPusher, time.Now())

	ctx := context.Background()
	userID := uuid.New()
	rec := &Recipient{UserID: userID, Email: "quiet@example.com"}

	mockStore.On("Recipient", ctx, userID).Return(rec, nil)
	mockStore.On("Insert", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)

	err := d.Dispatch(ctx, userID, StreakPayload{Streak: 7})
	assert.NoError(t, err)

	// The in-app row is always written; transports are preference-gated.
	mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockPusher.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	mockStore.AssertExpectations(t)
}

func TestDispatchStoresRowBeforeEmailFailure(t *testing.T) {
	mockStore := new(MockStore)
	mockMailer := new(MockMailer)
	mockPusher := new(MockPusher)
	d := newTestDispatcher(mockStore, mockMailer, mockPusher, time.Now())

	ctx := context.Background()
	userID := uuid.New()
	rec := &Recipient{
		UserID:             userID,
		Email:              "bounce@example.com",
		EmailNotifications: true,
	}

	mockStore.On("Recipient", ctx, userID).Return(rec, nil)
	mockStore.On("Insert", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)
	mockMailer.On("Send", ctx, "bounce@example.com", mock.Anything, mock.Anything).
		Return(ErrDeliveryFailed)

	err := d.Dispatch(ctx, userID, ReminderPayload{Streak: 3})
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	mockStore.AssertCalled(t, "Insert", ctx, mock.AnythingOfType("*notification.Notification"))
	mockStore.AssertExpectations(t)
}

func TestSendPushPrunesGoneSubscriptions(t *testing.T) {
	mockStore := new(MockStore)
	mockMailer := new(MockMailer)
	mockPusher := new(MockPusher)
	d := newTestDispatcher(mockStore, mockMailer, mockPusher, time.Now())

	ctx := context.Background()
	userID := uuid.New()
	rec := &Recipient{UserID: userID, Email: "ada@example.com", PushNotifications: true}
	live := PushSubscription{ID: uuid.New(), UserID: userID, Endpoint: "https://push.example.com/live"}
	gone := PushSubscription{ID: uuid.New(), UserID: userID, Endpoint: "https://push.example.com/gone"}

	mockStore.On("Recipient", ctx, userID).Return(rec, nil)
	mockStore.On("Insert", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)
	mockStore.On("Subscriptions", ctx, userID).Return([]PushSubscription{live, gone}, nil)
	mockPusher.On("Send", ctx, live, mock.Anything).Return(nil)
	mockPusher.On("Send", ctx, gone, mock.Anything).Return(ErrSubscriptionGone)
	mockStore.On("DeleteSubscription", ctx, gone.ID).Return(nil)

	err := d.Dispatch(ctx, userID, StreakPayload{Streak: 30})
	assert.NoError(t, err)

	mockStore.AssertCalled(t, "DeleteSubscription", ctx, gone.ID)
	mockStore.AssertNotCalled(t, "DeleteSubscription", ctx, live.ID)
	mockStore.AssertExpectations(t)
	mockPusher.AssertExpectations(t)
}

func TestCheckAndCelebrateStreaksExactMilestonesOnly(t *testing.T) {
	mockStore := new(MockStore)
	mockMailer := new(MockMailer)
	mockPusher := new(MockPusher)
	d := newTestDispatcher(mockStore, mockMailer, mockPusher, time.Now())

	ctx := context.Background()
	atSeven := Recipient{UserID: uuid.New(), Email: "seven@example.com", EmailNotifications: true, CurrentStreak: 7}
	atThirty := Recipient{UserID: uuid.New(), Email: "thirty@example.com", EmailNotifications: true, CurrentStreak: 30}

	mockStore.On("RecipientsWithStreak", ctx, 7).Return([]Recipient{atSeven}, nil)
	mockStore.On("RecipientsWithStreak", ctx, 14).Return([]Recipient{}, nil)
	mockStore.On("RecipientsWithStreak", ctx, 30).Return([]Recipient{atThirty}, nil)
	mockStore.On("RecipientsWithStreak", ctx, 60).Return([]Recipient{}, nil)
	mockStore.On("RecipientsWithStreak", ctx, 100).Return([]Recipient{}, nil)

	mockStore.On("Insert", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil)
	mockMailer.On("Send", mock.Anything, "seven@example.com", mock.Anything, mock.Anything).Return(nil)
	mockMailer.On("Send", mock.Anything, "thirty@example.com", mock.Anything, mock.Anything).Return(nil)

	summary, err := d.CheckAndCelebrateStreaks(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 2, summary.Sent)

	// A streak of 13 is not a milestone and is never queried.
	mockStore.AssertNotCalled(t, "RecipientsWithStreak", ctx, 13)
	mockStore.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestSendDailyRemindersIsolatesFailures(t *testing.T) {
	mockStore := new(MockStore)
	mockMailer := new(MockMailer)
	mockPusher := new(MockPusher)
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	d := newTestDispatcher(mockStore, mockMailer, mockPusher, now)

	ctx := context.Background()
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	recipients := []Recipient{
		{UserID: uuid.New(), Email: "one@example.com", EmailNotifications: true, CurrentStreak: 4},
		{UserID: uuid.New(), Email: "two@example.com", EmailNotifications: true, CurrentStreak: 9},
		{UserID: uuid.New(), Email: "three@example.com", EmailNotifications: true, CurrentStreak: 2},
	}

	mockStore.On("ReminderRecipients", ctx, today).Return(recipients, nil)
	mockStore.On("Insert", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil)
	mockMailer.On("Send", mock.Anything, "one@example.com", mock.Anything, mock.Anything).Return(nil)
	mockMailer.On("Send", mock.Anything, "two@example.com", mock.Anything, mock.Anything).
		Return(ErrDeliveryFailed)
	mockMailer.On("Send", mock.Anything, "three@example.com", mock.Anything, mock.Anything).Return(nil)

	summary, err := d.SendDailyReminders(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 2, summary.Sent)

	mockStore.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestSendWeeklyReports(t *testing.T) {
	mockStore := new(MockStore)
	mockMailer := new(MockMailer)
	mockPusher := new(MockPusher)
	now := time.Date(2024, 3, 17, 8, 0, 0, 0, time.UTC)
	d := newTestDispatcher(mockStore, mockMailer, mockPusher, now)

	ctx := context.Background()
	rec := Recipient{UserID: uuid.New(), Email: "ada@example.com", EmailNotifications: true, CurrentStreak: 5}
	weekAgo := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	mockStore.On("ReportRecipients", ctx).Return([]Recipient{rec}, nil)
	mockStore.On("WeeklySummary", mock.Anything, rec.UserID, weekAgo).Return(&WeeklySummary{
		VideosCompleted: 12,
		WatchTime:       5400,
		XPEarned:        300,
		Achievements:    []string{"Getting Started"},
	}, nil)

	var stored *Notification
	mockStore.On("Insert", mock.Anything, mock.AnythingOfType("*notification.Notification")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*Notification)
		}).Return(nil)
	mockMailer.On("Send", mock.Anything, "ada@example.com", mock.Anything, mock.Anything).Return(nil)

	summary, err := d.SendWeeklyReports(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 1, summary.Sent)

	assert.NotNil(t, stored)
	assert.Equal(t, TypeReport, stored.Type)
	assert.Contains(t, stored.Message, "12 videos")

	mockStore.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestBatchSummaryErrorWhenRecipientsUnavailable(t *testing.T) {
	mockStore := new(MockStore)
	mockMailer := new(MockMailer)
	mockPusher := new(MockPusher)
	d := newTestDispatcher(mockStore, mockMailer, mockPusher, time.Now())

	ctx := context.Background()
	mockStore.On("ReportRecipients", ctx).Return(nil, errors.New("connection refused"))

	summary, err := d.SendWeeklyReports(ctx)
	assert.Error(t, err)
	assert.Nil(t, summary)
	mockStore.AssertExpectations(t)
}
