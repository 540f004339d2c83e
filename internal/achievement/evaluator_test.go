package achievement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func catalogFixture() []Achievement {
	return []Achievement{
		{ID: uuid.New(), Name: "First Steps", CriteriaType: CriteriaVideosCompleted, CriteriaValue: 1, XPReward: 10},
		{ID: uuid.New(), Name: "Getting Started", CriteriaType: CriteriaVideosCompleted, CriteriaValue: 10, XPReward: 50},
		{ID: uuid.New(), Name: "Week Warrior", CriteriaType: CriteriaStreakDays, CriteriaValue: 7, XPReward: 100},
		{ID: uuid.New(), Name: "Hour of Power", CriteriaType: CriteriaWatchTime, CriteriaValue: 3600, XPReward: 50},
		{ID: uuid.New(), Name: "XP Hunter", CriteriaType: CriteriaXPEarned, CriteriaValue: 500, XPReward: 75},
	}
}

func TestEvaluate(t *testing.T) {
	catalog := catalogFixture()

	tests := []struct {
		name     string
		stats    Stats
		earned   map[uuid.UUID]bool
		expected []string
	}{
		{
			name:     "nothing qualifies for a fresh user",
			stats:    Stats{},
			earned:   map[uuid.UUID]bool{},
			expected: nil,
		},
		{
			name:     "threshold is inclusive",
			stats:    Stats{VideosCompleted: 10},
			earned:   map[uuid.UUID]bool{catalog[0].ID: true},
			expected: []string{"Getting Started"},
		},
		{
			name:     "one short of threshold does not qualify",
			stats:    Stats{VideosCompleted: 9},
			earned:   map[uuid.UUID]bool{catalog[0].ID: true},
			expected: nil,
		},
		{
			name:     "already earned entries are skipped",
			stats:    Stats{VideosCompleted: 50, StreakDays: 7},
			earned:   map[uuid.UUID]bool{catalog[0].ID: true, catalog[1].ID: true},
			expected: []string{"Week Warrior"},
		},
		{
			name:  "multiple criteria qualify in one pass",
			stats: Stats{VideosCompleted: 1, WatchTime: 4000, XPEarned: 500},
			earned: map[uuid.UUID]bool{
				catalog[1].ID: true,
			},
			expected: []string{"First Steps", "Hour of Power", "XP Hunter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newly := Evaluate(tt.stats, catalog, tt.earned)

			var names []string
			for _, a := range newly {
				names = append(names, a.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestEvaluateUnknownCriteriaNeverQualifies(t *testing.T) {
	catalog := []Achievement{
		{ID: uuid.New(), Name: "Mystery", CriteriaType: "videos_skipped", CriteriaValue: 0},
	}

	newly := Evaluate(Stats{VideosCompleted: 100}, catalog, map[uuid.UUID]bool{})
	assert.Empty(t, newly)
}

func TestEvaluateDoesNotChainRewards(t *testing.T) {
	first := Achievement{ID: uuid.New(), Name: "First Steps", CriteriaType: CriteriaVideosCompleted, CriteriaValue: 1, XPReward: 500}
	xp := Achievement{ID: uuid.New(), Name: "XP Hunter", CriteriaType: CriteriaXPEarned, CriteriaValue: 500, XPReward: 75}

	// The 500 XP reward from First Steps would push the snapshot over XP
	// Hunter's threshold, but rewards granted this pass are not visible
	// until the next evaluation.
	newly := Evaluate(Stats{VideosCompleted: 1, XPEarned: 25}, []Achievement{first, xp}, map[uuid.UUID]bool{})

	assert.Len(t, newly, 1)
	assert.Equal(t, "First Steps", newly[0].Name)
}
