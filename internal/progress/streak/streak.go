package streak

import "time"

// State holds the streak counters tracked per user. LastActivityDate is a
// UTC calendar day (midnight); nil means no activity has ever been recorded.
type State struct {
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate *time.Time
}

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Advance applies one qualifying completion to the streak state. Callers must
// invoke it only for the first completed video of a calendar day; calling it
// again the same day is a no-op. The clock is never read, today is explicit.
func Advance(state State, today time.Time) State {
	day := DateOf(today)

	if state.LastActivityDate != nil && state.LastActivityDate.Equal(day) {
		// Already counted today
		return state
	}

	switch {
	case state.LastActivityDate == nil:
		state.CurrentStreak = 1
	case daysBetween(*state.LastActivityDate, day) == 1:
		state.CurrentStreak++
	default:
		// Gap of two or more days resets the streak
		state.CurrentStreak = 1
	}

	state.LastActivityDate = &day
	if state.CurrentStreak > state.LongestStreak {
		state.LongestStreak = state.CurrentStreak
	}

	return state
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
