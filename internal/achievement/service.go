package achievement

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Notifier is told about each unlock; delivery is best-effort and outside
// this package's transaction.
type Notifier interface {
	AchievementUnlocked(ctx context.Context, userID uuid.UUID, a Achievement)
}

type Service struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
}

func NewService(store Store, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

// EvaluateAndAward checks the catalog against the stats snapshot, records
// new unlocks exactly once, grants their XP reward, and asks the notifier to
// announce them. A concurrent evaluation that loses the insert race simply
// skips the entry.
func (s *Service) EvaluateAndAward(ctx context.Context, userID uuid.UUID, stats Stats) ([]Achievement, error) {
	catalog, err := s.store.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	earned, err := s.store.EarnedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	newly := []Achievement{}
	for _, a := range Evaluate(stats, catalog, earned) {
		awarded, err := s.store.Award(ctx, userID, a.ID)
		if err != nil {
			return newly, err
		}
		if !awarded {
			// Another evaluation got there first; benign.
			continue
		}

		if err := s.store.AddXP(ctx, userID, a.XPReward); err != nil {
			s.logger.Error("failed to grant achievement xp",
				"user_id", userID, "achievement", a.Name, "error", err)
		}

		s.notifier.AchievementUnlocked(ctx, userID, a)
		newly = append(newly, a)
	}

	return newly, nil
}
