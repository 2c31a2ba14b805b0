package progress

import "time"

// DayLog is a single habit-log day as the streak walk sees it. Date must be
// a UTC calendar date (midnight).
type DayLog struct {
	Date      time.Time
	Completed bool
}

// CurrentStreak computes the consecutive-day completion run ending at today
// from logs ordered most recent first. Starting at an expected offset of 0
// days before today, a log whose distance from today matches the offset and
// that is marked completed extends the run; a log farther back than the
// offset means a gap and ends the walk. A day with no log, or logged but not
// completed, breaks the chain the same way — in particular an unlogged today
// yields 0.
//
// The recompute always runs over the full log set, so the result does not
// depend on the order logs were written, only on what they contain now.
func CurrentStreak(logs []DayLog, today time.Time) int {
	today = TruncateToDay(today)

	streak := 0
	for _, l := range logs {
		daysDiff := int(today.Sub(TruncateToDay(l.Date)).Hours() / 24)

		if daysDiff == streak && l.Completed {
			streak++
		} else if daysDiff > streak {
			break
		}
	}
	return streak
}

// BestStreak never decreases: it is the larger of the previously recorded
// best and the freshly computed current streak.
func BestStreak(previousBest, currentStreak int) int {
	if currentStreak > previousBest {
		return currentStreak
	}
	return previousBest
}

// TruncateToDay drops the time-of-day portion, keeping the UTC calendar date.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
