package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"learnsync-go/internal/achievement"
	"learnsync-go/internal/progress/streak"
)

// StreakMilestones are the exact streak values the celebration batch fires
// on. A user whose streak passes a milestone on a day the batch doesn't run
// will not be celebrated retroactively.
var StreakMilestones = []int{7, 14, 30, 60, 100}

// deliveryTimeout bounds each user's outbound delivery inside batch runs.
const deliveryTimeout = 30 * time.Second

// Dispatcher fans a logical event out to the stored notification feed and,
// per user preference, to email and web push. The stored row is the source of
// truth; transport delivery is at-least-once, best-effort.
type Dispatcher struct {
	store  Store
	mailer Mailer
	pusher Pusher
	logger *slog.Logger
	appURL string
	now    func() time.Time

	mu          sync.Mutex
	subscribers map[uuid.UUID][]chan Notification
}

func NewDispatcher(store Store, mailer Mailer, pusher Pusher, appURL string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:       store,
		mailer:      mailer,
		pusher:      pusher,
		logger:      logger,
		appURL:      appURL,
		now:         time.Now,
		subscribers: make(map[uuid.UUID][]chan Notification),
	}
}

// Subscribe registers a live stream of the given user's notifications. Each
// subscriber sees only its own user's events. The returned cancel func is
// idempotent and closes the channel.
func (d *Dispatcher) Subscribe(userID uuid.UUID) (<-chan Notification, func()) {
	ch := make(chan Notification, 16)

	d.mu.Lock()
	d.subscribers[userID] = append(d.subscribers[userID], ch)
	d.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()

			subs := d.subscribers[userID]
			for i, c := range subs {
				if c == ch {
					d.subscribers[userID] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			if len(d.subscribers[userID]) == 0 {
				delete(d.subscribers, userID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Dispatch stores the notification and attempts delivery for one user. The
// returned error reflects the stored row or the email send; push problems are
// only ever logged.
func (d *Dispatcher) Dispatch(ctx context.Context, userID uuid.UUID, p Payload) error {
	rec, err := d.store.Recipient(ctx, userID)
	if err != nil {
		return err
	}
	return d.deliver(ctx, *rec, p)
}

// AchievementUnlocked implements the achievement notifier; failures never
// reach the toggle path.
func (d *Dispatcher) AchievementUnlocked(ctx context.Context, userID uuid.UUID, a achievement.Achievement) {
	err := d.Dispatch(ctx, userID, AchievementPayload{
		AchievementID: a.ID,
		Name:          a.Name,
		Description:   a.Description,
		XPReward:      a.XPReward,
	})
	if err != nil {
		d.logger.Error("achievement notification failed",
			"user_id", userID, "achievement", a.Name, "error", err)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, rec Recipient, p Payload) error {
	title, message := p.Render()
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	n := &Notification{
		UserID:  rec.UserID,
		Title:   title,
		Message: message,
		Type:    p.NotificationType(),
		Data:    data,
	}
	if err := d.store.Insert(ctx, n); err != nil {
		return err
	}
	d.emit(*n)

	if rec.PushNotifications {
		d.sendPush(ctx, rec, *n)
	}

	if !rec.EmailNotifications {
		return nil
	}
	tmpl := d.emailFor(rec, p)
	if err := d.mailer.Send(ctx, rec.Email, tmpl.Subject, tmpl.HTML); err != nil {
		d.logger.Error("email delivery failed",
			"user_id", rec.UserID, "type", p.NotificationType(), "error", err)
		return err
	}
	return nil
}

func (d *Dispatcher) emailFor(rec Recipient, p Payload) EmailTemplate {
	switch p := p.(type) {
	case AchievementPayload:
		return AchievementTemplate(rec, p, d.appURL)
	case StreakPayload:
		return StreakCelebrationTemplate(rec, d.appURL)
	case ReportPayload:
		return WeeklyReportTemplate(rec, WeeklySummary{
			VideosCompleted: p.VideosCompleted,
			WatchTime:       p.WatchTime,
			Achievements:    p.Achievements,
		}, d.appURL)
	default:
		return DailyReminderTemplate(rec, d.appURL)
	}
}

// sendPush posts the payload to every registered endpoint, pruning
// subscriptions the push service reports gone.
func (d *Dispatcher) sendPush(ctx context.Context, rec Recipient, n Notification) {
	subs, err := d.store.Subscriptions(ctx, rec.UserID)
	if err != nil {
		d.logger.Error("failed to load push subscriptions",
			"user_id", rec.UserID, "error", err)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"title": n.Title,
		"body":  n.Message,
		"icon":  "/icon-192x192.png",
		"badge": "/badge-72x72.png",
		"data":  n.Data,
	})
	if err != nil {
		return
	}

	for _, sub := range subs {
		err := d.pusher.Send(ctx, sub, payload)
		switch {
		case errors.Is(err, ErrSubscriptionGone):
			if err := d.store.DeleteSubscription(ctx, sub.ID); err != nil {
				d.logger.Error("failed to prune push subscription",
					"subscription_id", sub.ID, "error", err)
			}
		case err != nil:
			d.logger.Error("push delivery failed",
				"user_id", rec.UserID, "endpoint", sub.Endpoint, "error", err)
		}
	}
}

func (d *Dispatcher) emit(n Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, ch := range d.subscribers[n.UserID] {
		select {
		case ch <- n:
		default:
			// Slow subscriber; the stored row is what matters.
		}
	}
}

// SendDailyReminders nudges every opted-in user with a live streak and no
// completion yet today.
func (d *Dispatcher) SendDailyReminders(ctx context.Context) (*BatchSummary, error) {
	today := streak.DateOf(d.now())
	recipients, err := d.store.ReminderRecipients(ctx, today)
	if err != nil {
		return nil, err
	}

	return d.fanOut(ctx, recipients, func(ctx context.Context, rec Recipient) (Payload, error) {
		return ReminderPayload{Streak: rec.CurrentStreak}, nil
	}), nil
}

// SendWeeklyReports emails every opted-in user their last seven days.
func (d *Dispatcher) SendWeeklyReports(ctx context.Context) (*BatchSummary, error) {
	recipients, err := d.store.ReportRecipients(ctx)
	if err != nil {
		return nil, err
	}

	weekAgo := streak.DateOf(d.now()).AddDate(0, 0, -7)
	return d.fanOut(ctx, recipients, func(ctx context.Context, rec Recipient) (Payload, error) {
		week, err := d.store.WeeklySummary(ctx, rec.UserID, weekAgo)
		if err != nil {
			return nil, err
		}
		return ReportPayload{
			VideosCompleted: week.VideosCompleted,
			WatchTime:       week.WatchTime,
			StreakDays:      rec.CurrentStreak,
			Achievements:    week.Achievements,
		}, nil
	}), nil
}

// CheckAndCelebrateStreaks fires for users whose streak equals a milestone
// right now. Running it twice the same day sends duplicates; the exact-match
// rule is deliberate.
func (d *Dispatcher) CheckAndCelebrateStreaks(ctx context.Context) (*BatchSummary, error) {
	var recipients []Recipient
	for _, milestone := range StreakMilestones {
		recs, err := d.store.RecipientsWithStreak(ctx, milestone)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, recs...)
	}

	return d.fanOut(ctx, recipients, func(ctx context.Context, rec Recipient) (Payload, error) {
		return StreakPayload{Streak: rec.CurrentStreak}, nil
	}), nil
}

// fanOut delivers to each recipient independently: one user's failure never
// aborts the rest of the batch.
func (d *Dispatcher) fanOut(ctx context.Context, recipients []Recipient, build func(context.Context, Recipient) (Payload, error)) *BatchSummary {
	summary := &BatchSummary{Attempted: len(recipients)}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent int
	)
	for _, rec := range recipients {
		rec := rec
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
			defer cancel()

			payload, err := build(ctx, rec)
			if err == nil {
				err = d.deliver(ctx, rec, payload)
			}
			if err != nil {
				d.logger.Error("batch delivery failed",
					"user_id", rec.UserID, "error", err)
				return
			}

			mu.Lock()
			sent++
			mu.Unlock()
		}()
	}
	wg.Wait()

	summary.Sent = sent
	d.logger.Info("notification batch finished",
		"attempted", summary.Attempted, "sent", summary.Sent)
	return summary
}
