package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return today.AddDate(0, 0, -offset)
}

func TestCurrentStreakNoLogs(t *testing.T) {
	assert.Equal(t, 0, CurrentStreak(nil, today))
}

func TestCurrentStreakTodayOnly(t *testing.T) {
	logs := []DayLog{{Date: day(0), Completed: true}}
	assert.Equal(t, 1, CurrentStreak(logs, today))
}

func TestCurrentStreakThreeDaysThenGap(t *testing.T) {
	logs := []DayLog{
		{Date: day(0), Completed: true},
		{Date: day(1), Completed: true},
		{Date: day(2), Completed: true},
		// day(3) absent, day(4) completed but unreachable
		{Date: day(4), Completed: true},
	}
	assert.Equal(t, 3, CurrentStreak(logs, today))
}

func TestCurrentStreakUnloggedTodayIsZero(t *testing.T) {
	// An unbroken run ending yesterday does not count until today is logged.
	logs := []DayLog{
		{Date: day(1), Completed: true},
		{Date: day(2), Completed: true},
		{Date: day(3), Completed: true},
	}
	assert.Equal(t, 0, CurrentStreak(logs, today))
}

func TestCurrentStreakNotCompletedTodayIsZero(t *testing.T) {
	logs := []DayLog{
		{Date: day(0), Completed: false},
		{Date: day(1), Completed: true},
	}
	assert.Equal(t, 0, CurrentStreak(logs, today))
}

func TestCurrentStreakNotCompletedDayBreaksChain(t *testing.T) {
	logs := []DayLog{
		{Date: day(0), Completed: true},
		{Date: day(1), Completed: false},
		{Date: day(2), Completed: true},
	}
	assert.Equal(t, 1, CurrentStreak(logs, today))
}

func TestCurrentStreakIgnoresTimeOfDay(t *testing.T) {
	logs := []DayLog{
		{Date: day(0).Add(23 * time.Hour), Completed: true},
		{Date: day(1).Add(5 * time.Minute), Completed: true},
	}
	assert.Equal(t, 2, CurrentStreak(logs, today.Add(11*time.Hour)))
}

func TestCurrentStreakLongRun(t *testing.T) {
	var logs []DayLog
	for i := 0; i < 100; i++ {
		logs = append(logs, DayLog{Date: day(i), Completed: true})
	}
	assert.Equal(t, 100, CurrentStreak(logs, today))
}

func TestBestStreak(t *testing.T) {
	assert.Equal(t, 10, BestStreak(10, 3))
	assert.Equal(t, 12, BestStreak(10, 12))
	assert.Equal(t, 0, BestStreak(0, 0))
}
