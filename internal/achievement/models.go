package achievement

import (
	"time"

	"github.com/google/uuid"
)

// CriteriaType selects which stat an achievement threshold is compared
// against. Closed set; rows with an unknown value never qualify.
type CriteriaType string

const (
	CriteriaVideosCompleted CriteriaType = "videos_completed"
	CriteriaStreakDays      CriteriaType = "streak_days"
	CriteriaWatchTime       CriteriaType = "watch_time"
	CriteriaXPEarned        CriteriaType = "xp_earned"
)

// Achievement is a static catalog entry, seeded by migration and never
// user-mutated.
type Achievement struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	Description   string       `json:"description" db:"description"`
	CriteriaType  CriteriaType `json:"criteria_type" db:"criteria_type"`
	CriteriaValue int          `json:"criteria_value" db:"criteria_value"`
	XPReward      int          `json:"xp_reward" db:"xp_reward"`
}

// UserAchievement records one unlock; at most one row per (user, achievement).
type UserAchievement struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id" db:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at" db:"earned_at"`
}

// Stats is the aggregate snapshot achievements are judged against. Watch
// time is in seconds.
type Stats struct {
	VideosCompleted int
	StreakDays      int
	WatchTime       int
	XPEarned        int
}
