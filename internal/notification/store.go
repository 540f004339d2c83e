package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

type Store interface {
	Insert(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error

	Recipient(ctx context.Context, userID uuid.UUID) (*Recipient, error)
	ReminderRecipients(ctx context.Context, today time.Time) ([]Recipient, error)
	ReportRecipients(ctx context.Context) ([]Recipient, error)
	RecipientsWithStreak(ctx context.Context, streak int) ([]Recipient, error)
	WeeklySummary(ctx context.Context, userID uuid.UUID, from time.Time) (*WeeklySummary, error)

	SaveSubscription(ctx context.Context, sub *PushSubscription) error
	Subscriptions(ctx context.Context, userID uuid.UUID) ([]PushSubscription, error)
	DeleteSubscription(ctx context.Context, id uuid.UUID) error
}

type postgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStorageUnavailable)
}

func (s *postgresStore) Insert(ctx context.Context, n *Notification) error {
	err := s.db.GetContext(ctx, n, `
		INSERT INTO notifications (user_id, title, message, type, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		n.UserID, n.Title, n.Message, n.Type, n.Data)
	if err != nil {
		return storageErr("insert notification", err)
	}
	return nil
}

func (s *postgresStore) List(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error) {
	notifications := []Notification{}
	err := s.db.SelectContext(ctx, &notifications, `
		SELECT * FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, storageErr("list notifications", err)
	}
	return notifications, nil
}

func (s *postgresStore) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return storageErr("mark notification read", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return storageErr("mark notification read", err)
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

const recipientColumns = `
	u.id AS user_id, u.email, u.display_name,
	u.email_notifications, u.push_notifications,
	COALESCE(s.current_streak, 0)         AS current_streak,
	COALESCE(s.total_videos_completed, 0) AS total_videos_completed,
	COALESCE(s.total_watch_time, 0)       AS total_watch_time`

func (s *postgresStore) Recipient(ctx context.Context, userID uuid.UUID) (*Recipient, error) {
	rec := &Recipient{}
	err := s.db.GetContext(ctx, rec, `
		SELECT `+recipientColumns+`
		FROM users u
		LEFT JOIN user_stats s ON s.user_id = u.id
		WHERE u.id = $1`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, storageErr("get recipient", err)
	}
	return rec, nil
}

// ReminderRecipients returns users with an active streak who have not
// completed a video today and want email.
func (s *postgresStore) ReminderRecipients(ctx context.Context, today time.Time) ([]Recipient, error) {
	recipients := []Recipient{}
	err := s.db.SelectContext(ctx, &recipients, `
		SELECT `+recipientColumns+`
		FROM users u
		JOIN user_stats s ON s.user_id = u.id
		WHERE u.email_notifications
		  AND s.current_streak > 0
		  AND (s.last_activity_date IS NULL OR s.last_activity_date < $1)`, today)
	if err != nil {
		return nil, storageErr("list reminder recipients", err)
	}
	return recipients, nil
}

func (s *postgresStore) ReportRecipients(ctx context.Context) ([]Recipient, error) {
	recipients := []Recipient{}
	err := s.db.SelectContext(ctx, &recipients, `
		SELECT `+recipientColumns+`
		FROM users u
		LEFT JOIN user_stats s ON s.user_id = u.id
		WHERE u.email_notifications`)
	if err != nil {
		return nil, storageErr("list report recipients", err)
	}
	return recipients, nil
}

func (s *postgresStore) RecipientsWithStreak(ctx context.Context, streak int) ([]Recipient, error) {
	recipients := []Recipient{}
	err := s.db.SelectContext(ctx, &recipients, `
		SELECT `+recipientColumns+`
		FROM users u
		JOIN user_stats s ON s.user_id = u.id
		WHERE u.email_notifications AND s.current_streak = $1`, streak)
	if err != nil {
		return nil, storageErr("list streak recipients", err)
	}
	return recipients, nil
}

func (s *postgresStore) WeeklySummary(ctx context.Context, userID uuid.UUID, from time.Time) (*WeeklySummary, error) {
	summary := &WeeklySummary{}
	err := s.db.QueryRowxContext(ctx, `
		SELECT COALESCE(SUM(videos_completed), 0),
		       COALESCE(SUM(watch_time), 0),
		       COALESCE(SUM(xp_earned), 0)
		FROM learning_sessions
		WHERE user_id = $1 AND day >= $2`, userID, from).
		Scan(&summary.VideosCompleted, &summary.WatchTime, &summary.XPEarned)
	if err != nil {
		return nil, storageErr("weekly summary", err)
	}

	err = s.db.SelectContext(ctx, &summary.Achievements, `
		SELECT a.name
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1 AND ua.earned_at >= $2
		ORDER BY ua.earned_at`, userID, from)
	if err != nil {
		return nil, storageErr("weekly achievements", err)
	}

	return summary, nil
}

func (s *postgresStore) SaveSubscription(ctx context.Context, sub *PushSubscription) error {
	err := s.db.GetContext(ctx, sub, `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, endpoint) DO UPDATE SET
			p256dh = EXCLUDED.p256dh,
			auth   = EXCLUDED.auth
		RETURNING *`,
		sub.UserID, sub.Endpoint, sub.P256DH, sub.Auth)
	if err != nil {
		return storageErr("save push subscription", err)
	}
	return nil
}

func (s *postgresStore) Subscriptions(ctx context.Context, userID uuid.UUID) ([]PushSubscription, error) {
	subs := []PushSubscription{}
	err := s.db.SelectContext(ctx, &subs,
		`SELECT * FROM push_subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, storageErr("list push subscriptions", err)
	}
	return subs, nil
}

func (s *postgresStore) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM push_subscriptions WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete push subscription", err)
	}
	return nil
}
