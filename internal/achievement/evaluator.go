package achievement

import "github.com/google/uuid"

// Evaluate returns the catalog entries that qualify against the given stats
// snapshot and are not yet earned. Every decision depends only on the
// snapshot passed in: XP granted by an unlock in this pass does not feed
// xp_earned thresholds until the next evaluation.
func Evaluate(stats Stats, catalog []Achievement, earned map[uuid.UUID]bool) []Achievement {
	var newly []Achievement
	for _, a := range catalog {
		if earned[a.ID] {
			continue
		}
		if qualifies(stats, a) {
			newly = append(newly, a)
		}
	}
	return newly
}

func qualifies(stats Stats, a Achievement) bool {
	switch a.CriteriaType {
	case CriteriaVideosCompleted:
		return stats.VideosCompleted >= a.CriteriaValue
	case CriteriaStreakDays:
		return stats.StreakDays >= a.CriteriaValue
	case CriteriaWatchTime:
		return stats.WatchTime >= a.CriteriaValue
	case CriteriaXPEarned:
		return stats.XPEarned >= a.CriteriaValue
	default:
		return false
	}
}
