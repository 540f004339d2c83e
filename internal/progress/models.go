package progress

import (
	"time"

	"github.com/google/uuid"
)

// BaseXPPerVideo is credited for every completed video, before any
// achievement rewards.
const BaseXPPerVideo = 25

// VideoProgress is one user's completion fact for one video. CompletedAt is
// non-nil exactly when Completed is true. WatchTime and XPEarned are the
// credit granted by the most recent completion; both are in seconds/points.
type VideoProgress struct {
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	VideoID     uuid.UUID  `json:"video_id" db:"video_id"`
	PlaylistID  *uuid.UUID `json:"playlist_id,omitempty" db:"playlist_id"`
	Completed   bool       `json:"completed" db:"completed"`
	WatchTime   int        `json:"watch_time" db:"watch_time"`
	XPEarned    int        `json:"xp_earned" db:"xp_earned"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// UserStats is the per-user aggregate row. Watch time is in seconds.
type UserStats struct {
	UserID               uuid.UUID  `json:"user_id" db:"user_id"`
	TotalVideosCompleted int        `json:"total_videos_completed" db:"total_videos_completed"`
	TotalWatchTime       int        `json:"total_watch_time" db:"total_watch_time"`
	TotalXP              int        `json:"total_xp" db:"total_xp"`
	CurrentStreak        int        `json:"current_streak" db:"current_streak"`
	LongestStreak        int        `json:"longest_streak" db:"longest_streak"`
	LastActivityDate     *time.Time `json:"last_activity_date,omitempty" db:"last_activity_date"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// Level derives the user's level from accumulated XP.
func (s UserStats) Level() int {
	return s.TotalXP/1000 + 1
}

// LearningSession is a per-user, per-UTC-day aggregate used for weekly
// reports and the analytics view.
type LearningSession struct {
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Day             time.Time `json:"day" db:"day"`
	VideosCompleted int       `json:"videos_completed" db:"videos_completed"`
	WatchTime       int       `json:"watch_time" db:"watch_time"`
	XPEarned        int       `json:"xp_earned" db:"xp_earned"`
}
