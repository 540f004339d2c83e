package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type classifies a notification. Closed set.
type Type string

const (
	TypeAchievement Type = "achievement"
	TypeStreak      Type = "streak"
	TypeReminder    Type = "reminder"
	TypeReport      Type = "report"
)

// Notification is the stored in-app message. Data holds the marshaled
// payload variant for the client.
type Notification struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Title     string          `json:"title" db:"title"`
	Message   string          `json:"message" db:"message"`
	Type      Type            `json:"type" db:"type"`
	Read      bool            `json:"read" db:"read"`
	Data      json.RawMessage `json:"data" db:"data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Payload is one of the closed set of event variants the dispatcher accepts.
// Each variant carries exactly the fields its type needs.
type Payload interface {
	NotificationType() Type
	Render() (title, message string)
}

// AchievementPayload announces an unlock.
type AchievementPayload struct {
	AchievementID uuid.UUID `json:"achievement_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	XPReward      int       `json:"xp_reward"`
}

func (AchievementPayload) NotificationType() Type { return TypeAchievement }

func (p AchievementPayload) Render() (string, string) {
	return "Achievement Unlocked! 🏆",
		fmt.Sprintf("Congratulations! You've earned %q", p.Name)
}

// StreakPayload celebrates an exact streak milestone.
type StreakPayload struct {
	Streak int `json:"streak"`
}

func (StreakPayload) NotificationType() Type { return TypeStreak }

func (p StreakPayload) Render() (string, string) {
	return fmt.Sprintf("%d Day Streak! 🔥", p.Streak),
		"Amazing consistency! Keep up the great work."
}

// ReminderPayload nudges a user who hasn't completed a video today.
type ReminderPayload struct {
	Streak int `json:"streak"`
}

func (ReminderPayload) NotificationType() Type { return TypeReminder }

func (p ReminderPayload) Render() (string, string) {
	return "Don't break your streak! 🔥",
		"You haven't completed any videos today. Keep your learning momentum going!"
}

// ReportPayload summarizes the past week. WatchTime is in seconds.
type ReportPayload struct {
	VideosCompleted int      `json:"videos_completed"`
	WatchTime       int      `json:"watch_time"`
	StreakDays      int      `json:"streak_days"`
	Achievements    []string `json:"achievements"`
}

func (ReportPayload) NotificationType() Type { return TypeReport }

func (p ReportPayload) Render() (string, string) {
	return "Weekly Learning Report 📊",
		fmt.Sprintf("Great week! You completed %d videos and watched %d minutes.",
			p.VideosCompleted, p.WatchTime/60)
}

// PushSubscription is one browser push endpoint registered by a user.
type PushSubscription struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	P256DH    string    `json:"p256dh" db:"p256dh"`
	Auth      string    `json:"auth" db:"auth"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Recipient is the user/aggregate join the batch jobs and delivery templates
// work from.
type Recipient struct {
	UserID             uuid.UUID `db:"user_id"`
	Email              string    `db:"email"`
	DisplayName        string    `db:"display_name"`
	EmailNotifications bool      `db:"email_notifications"`
	PushNotifications  bool      `db:"push_notifications"`
	CurrentStreak      int       `db:"current_streak"`
	VideosCompleted    int       `db:"total_videos_completed"`
	WatchTime          int       `db:"total_watch_time"`
}

// Name returns the salutation used in outbound messages.
func (r Recipient) Name() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return "Learner"
}

// WeeklySummary backs the weekly report for one user.
type WeeklySummary struct {
	VideosCompleted int
	WatchTime       int
	XPEarned        int
	Achievements    []string
}

// BatchSummary is the result of one scheduled batch run.
type BatchSummary struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
}
