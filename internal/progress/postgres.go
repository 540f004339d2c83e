package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore returns a Store backed by the given Postgres handle.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// storageErr keeps the cause readable while tagging the error as a retryable
// transport failure.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStorageUnavailable)
}

func (s *postgresStore) ToggleCompletion(ctx context.Context, userID, videoID uuid.UUID) (*VideoProgress, error) {
	// The completion credit comes from the video itself: its duration in
	// seconds plus the base XP grant.
	var video struct {
		PlaylistID uuid.UUID `db:"playlist_id"`
		Duration   int       `db:"duration"`
	}
	err := s.db.GetContext(ctx, &video,
		`SELECT playlist_id, duration FROM videos WHERE id = $1`, videoID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVideoNotFound
		}
		return nil, storageErr("get video", err)
	}

	// Single statement so concurrent toggles on the same (user, video) pair
	// serialize on the row instead of racing a read-then-write.
	query := `
		INSERT INTO user_progress (user_id, video_id, playlist_id, completed, watch_time, xp_earned, completed_at)
		VALUES ($1, $2, $3, TRUE, $4, $5, now())
		ON CONFLICT (user_id, video_id) DO UPDATE SET
			completed    = NOT user_progress.completed,
			completed_at = CASE WHEN user_progress.completed THEN NULL ELSE now() END,
			watch_time   = CASE WHEN user_progress.completed THEN user_progress.watch_time ELSE EXCLUDED.watch_time END,
			xp_earned    = CASE WHEN user_progress.completed THEN user_progress.xp_earned ELSE EXCLUDED.xp_earned END,
			updated_at   = now()
		RETURNING *`

	prog := &VideoProgress{}
	err = s.db.GetContext(ctx, prog, query,
		userID, videoID, video.PlaylistID, video.Duration, BaseXPPerVideo)
	if err != nil {
		return nil, storageErr("toggle completion", err)
	}

	return prog, nil
}

func (s *postgresStore) ApplyStats(ctx context.Context, userID uuid.UUID, apply func(UserStats) UserStats) (*UserStats, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin stats tx", err)
	}
	defer tx.Rollback()

	// Make sure the row exists before locking it; first activity creates the
	// all-zero aggregate.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, storageErr("init stats", err)
	}

	stats := UserStats{}
	err = tx.GetContext(ctx, &stats,
		`SELECT * FROM user_stats WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		return nil, storageErr("lock stats", err)
	}

	updated := apply(stats)

	err = tx.GetContext(ctx, &updated, `
		UPDATE user_stats
		SET total_videos_completed = $2,
			total_watch_time = $3,
			total_xp = $4,
			current_streak = $5,
			longest_streak = $6,
			last_activity_date = $7,
			updated_at = now()
		WHERE user_id = $1
		RETURNING *`,
		userID, updated.TotalVideosCompleted, updated.TotalWatchTime, updated.TotalXP,
		updated.CurrentStreak, updated.LongestStreak, updated.LastActivityDate)
	if err != nil {
		return nil, storageErr("update stats", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit stats", err)
	}

	return &updated, nil
}

func (s *postgresStore) GetStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	stats := &UserStats{}
	err := s.db.GetContext(ctx, stats,
		`SELECT * FROM user_stats WHERE user_id = $1`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStatsNotFound
		}
		return nil, storageErr("get stats", err)
	}
	return stats, nil
}

func (s *postgresStore) RecordSession(ctx context.Context, userID uuid.UUID, day time.Time, videos, watchTime, xp int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learning_sessions (user_id, day, videos_completed, watch_time, xp_earned)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, day) DO UPDATE SET
			videos_completed = learning_sessions.videos_completed + EXCLUDED.videos_completed,
			watch_time       = learning_sessions.watch_time + EXCLUDED.watch_time,
			xp_earned        = learning_sessions.xp_earned + EXCLUDED.xp_earned`,
		userID, day, videos, watchTime, xp)
	if err != nil {
		return storageErr("record session", err)
	}
	return nil
}

func (s *postgresStore) SessionsSince(ctx context.Context, userID uuid.UUID, from time.Time) ([]LearningSession, error) {
	sessions := []LearningSession{}
	err := s.db.SelectContext(ctx, &sessions, `
		SELECT * FROM learning_sessions
		WHERE user_id = $1 AND day >= $2
		ORDER BY day`, userID, from)
	if err != nil {
		return nil, storageErr("list sessions", err)
	}
	return sessions, nil
}
