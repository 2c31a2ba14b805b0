package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoalPoints(t *testing.T) {
	assert.Equal(t, 750, GoalPoints(TimelineLongTerm, PriorityHigh))
	assert.Equal(t, 250, GoalPoints(TimelineMidTerm, PriorityMedium))
	assert.Equal(t, 75, GoalPoints(TimelineShortTerm, PriorityLow))
	assert.Equal(t, 150, GoalPoints(TimelineShortTerm, PriorityHigh))
	assert.Equal(t, 375, GoalPoints(TimelineLongTerm, PriorityLow))

	// round-half-up on the product: 250 * 0.75 = 187.5 -> 188
	assert.Equal(t, 188, GoalPoints(TimelineMidTerm, PriorityLow))
}

func TestGoalPointsUnrecognizedInputsFallBack(t *testing.T) {
	assert.Equal(t, 100, GoalPoints(Timeline("SOMEDAY"), Priority("URGENT")))
	assert.Equal(t, 150, GoalPoints(Timeline(""), PriorityHigh))
	assert.Equal(t, 500, GoalPoints(TimelineLongTerm, Priority("")))
}

func TestBucketPoints(t *testing.T) {
	assert.Equal(t, 50, BucketPoints(DifficultyEasy))
	assert.Equal(t, 100, BucketPoints(DifficultyMedium))
	assert.Equal(t, 200, BucketPoints(DifficultyHard))
	assert.Equal(t, 500, BucketPoints(DifficultyEpic))
}

func TestBucketPointsDefaultsToEasy(t *testing.T) {
	assert.Equal(t, 50, BucketPoints(Difficulty("LUDICROUS")))
	assert.Equal(t, 50, BucketPoints(Difficulty("")))
}

func TestHabitDayPointsBinary(t *testing.T) {
	assert.Equal(t, 5, HabitDayPoints(HabitBinary, 5, 1, true, nil))
	assert.Equal(t, 0, HabitDayPoints(HabitBinary, 5, 1, false, nil))
}

func TestHabitDayPointsNumeric(t *testing.T) {
	v := 8.0
	assert.Equal(t, 10, HabitDayPoints(HabitNumeric, 10, 8, true, &v))

	short := 7.5
	assert.Equal(t, 0, HabitDayPoints(HabitNumeric, 10, 8, true, &short))

	assert.Equal(t, 0, HabitDayPoints(HabitNumeric, 10, 8, false, &v))
}

func TestHabitDayPointsNumericWithoutValueHonorsCompletedFlag(t *testing.T) {
	// the target only applies to a value that was actually logged
	assert.Equal(t, 10, HabitDayPoints(HabitNumeric, 10, 8, true, nil))
	assert.Equal(t, 0, HabitDayPoints(HabitNumeric, 10, 8, false, nil))
}
