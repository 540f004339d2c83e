package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrStatsNotFound      = errors.New("user stats not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store is the persistence capability set for the progress ledger. The toggle
// is atomic per (user, video); ApplyStats runs the given function against a
// row-locked read of the user's stats so streak updates never race.
type Store interface {
	ToggleCompletion(ctx context.Context, userID, videoID uuid.UUID) (*VideoProgress, error)
	ApplyStats(ctx context.Context, userID uuid.UUID, apply func(UserStats) UserStats) (*UserStats, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
	RecordSession(ctx context.Context, userID uuid.UUID, day time.Time, videos, watchTime, xp int) error
	SessionsSince(ctx context.Context, userID uuid.UUID, from time.Time) ([]LearningSession, error)
}
