package progress

import "math"

type Timeline string

const (
	TimelineShortTerm Timeline = "SHORT_TERM"
	TimelineMidTerm   Timeline = "MID_TERM"
	TimelineLongTerm  Timeline = "LONG_TERM"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyEpic   Difficulty = "EPIC"
)

type HabitType string

const (
	HabitBinary  HabitType = "BINARY"
	HabitNumeric HabitType = "NUMERIC"
)

// GoalPoints maps a goal's timeline and priority to an XP amount.
// Unrecognized values fall back to the SHORT_TERM base and a 1.0 multiplier
// instead of failing.
func GoalPoints(timeline Timeline, priority Priority) int {
	base := 100.0
	switch timeline {
	case TimelineShortTerm:
		base = 100
	case TimelineMidTerm:
		base = 250
	case TimelineLongTerm:
		base = 500
	}

	multiplier := 1.0
	switch priority {
	case PriorityHigh:
		multiplier = 1.5
	case PriorityMedium:
		multiplier = 1.0
	case PriorityLow:
		multiplier = 0.75
	}

	return int(math.Round(base * multiplier))
}

// BucketPoints maps a bucket item difficulty to an XP amount, defaulting to
// the EASY value for unrecognized difficulties.
func BucketPoints(difficulty Difficulty) int {
	switch difficulty {
	case DifficultyEasy:
		return 50
	case DifficultyMedium:
		return 100
	case DifficultyHard:
		return 200
	case DifficultyEpic:
		return 500
	default:
		return 50
	}
}

// HabitDayPoints returns the points a single day's log is worth: the habit's
// configured points-per-day when the completion condition is met, 0 otherwise.
// NUMERIC habits with a logged value complete only when it reaches the daily
// target; with no value the completed flag stands on its own, same as BINARY.
func HabitDayPoints(habitType HabitType, pointsPerDay int, dailyTarget float64, completed bool, value *float64) int {
	if !completed {
		return 0
	}
	if habitType == HabitNumeric && value != nil && *value < dailyTarget {
		return 0
	}
	return pointsPerDay
}
