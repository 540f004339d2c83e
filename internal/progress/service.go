package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"learnsync-go/internal/achievement"
	"learnsync-go/internal/progress/streak"
)

// Awarder evaluates the achievement catalog against a stats snapshot and
// records any new unlocks.
type Awarder interface {
	EvaluateAndAward(ctx context.Context, userID uuid.UUID, stats achievement.Stats) ([]achievement.Achievement, error)
}

// ToggleResult is the toggle endpoint response: the resulting progress row
// plus any achievements the completion unlocked.
type ToggleResult struct {
	Progress     *VideoProgress            `json:"progress"`
	Achievements []achievement.Achievement `json:"achievements"`
}

// StatsSummary extends the raw aggregate with derived and weekly numbers.
type StatsSummary struct {
	UserStats
	Level           int `json:"level"`
	WeeklyVideos    int `json:"weekly_videos"`
	WeeklyWatchTime int `json:"weekly_watch_time"`
	WeeklyXP        int `json:"weekly_xp"`
}

type Service interface {
	ToggleVideo(ctx context.Context, userID, videoID uuid.UUID) (*ToggleResult, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*StatsSummary, error)
}

type service struct {
	store  Store
	awards Awarder
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, awards Awarder, logger *slog.Logger) Service {
	return &service{
		store:  store,
		awards: awards,
		logger: logger,
		now:    time.Now,
	}
}

// ToggleVideo flips the completion fact and, when the flip lands on
// completed, credits the aggregates, advances the streak (first completion of
// the UTC day only), and evaluates achievements. Gamification failures are
// logged, never surfaced: recording progress must not be blocked by them.
func (s *service) ToggleVideo(ctx context.Context, userID, videoID uuid.UUID) (*ToggleResult, error) {
	prog, err := s.store.ToggleCompletion(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	result := &ToggleResult{
		Progress:     prog,
		Achievements: []achievement.Achievement{},
	}

	if !prog.Completed {
		return result, nil
	}

	now := s.now()
	stats, err := s.store.ApplyStats(ctx, userID, func(st UserStats) UserStats {
		st.TotalVideosCompleted++
		st.TotalWatchTime += prog.WatchTime
		st.TotalXP += prog.XPEarned

		advanced := streak.Advance(streak.State{
			CurrentStreak:    st.CurrentStreak,
			LongestStreak:    st.LongestStreak,
			LastActivityDate: st.LastActivityDate,
		}, now)

		st.CurrentStreak = advanced.CurrentStreak
		st.LongestStreak = advanced.LongestStreak
		st.LastActivityDate = advanced.LastActivityDate
		return st
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.RecordSession(ctx, userID, streak.DateOf(now), 1, prog.WatchTime, prog.XPEarned); err != nil {
		s.logger.Error("failed to record learning session",
			"user_id", userID, "error", err)
	}

	newly, err := s.awards.EvaluateAndAward(ctx, userID, achievement.Stats{
		VideosCompleted: stats.TotalVideosCompleted,
		StreakDays:      stats.CurrentStreak,
		WatchTime:       stats.TotalWatchTime,
		XPEarned:        stats.TotalXP,
	})
	if err != nil {
		s.logger.Error("achievement evaluation failed",
			"user_id", userID, "error", err)
		return result, nil
	}
	result.Achievements = newly

	return result, nil
}

func (s *service) GetUserStats(ctx context.Context, userID uuid.UUID) (*StatsSummary, error) {
	stats, err := s.store.GetStats(ctx, userID)
	if err != nil {
		if err == ErrStatsNotFound {
			// No activity yet: an all-zero aggregate, not an error.
			stats = &UserStats{UserID: userID}
		} else {
			return nil, err
		}
	}

	// Week starts on Sunday, matching the analytics view.
	today := streak.DateOf(s.now())
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))

	summary := &StatsSummary{UserStats: *stats, Level: stats.Level()}

	sessions, err := s.store.SessionsSince(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		summary.WeeklyVideos += sess.VideosCompleted
		summary.WeeklyWatchTime += sess.WatchTime
		summary.WeeklyXP += sess.XPEarned
	}

	return summary, nil
}
