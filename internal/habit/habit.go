package habit

import (
	"time"

	"github.com/google/uuid"

	"lifeTrackAPI/internal/progress"
)

type Habit struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	UserID        uuid.UUID          `json:"user_id" db:"user_id"`
	Name          string             `json:"name" db:"name"`
	Type          progress.HabitType `json:"type" db:"type"`
	Unit          *string            `json:"unit,omitempty" db:"unit"`
	DailyTarget   float64            `json:"daily_target" db:"daily_target"`
	PointsPerDay  int                `json:"points_per_day" db:"points_per_day"`
	IsActive      bool               `json:"is_active" db:"is_active"`
	CurrentStreak int                `json:"current_streak" db:"current_streak"`
	BestStreak    int                `json:"best_streak" db:"best_streak"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" db:"updated_at"`
}

// Log is one row per (habit, calendar day). Points for a day are granted at
// most once; once PointsEarned is non-zero it stays, even through toggles.
type Log struct {
	ID           uuid.UUID `json:"id" db:"id"`
	HabitID      uuid.UUID `json:"habit_id" db:"habit_id"`
	Date         time.Time `json:"date" db:"date"`
	Completed    bool      `json:"completed" db:"completed"`
	Value        *float64  `json:"value,omitempty" db:"value"`
	PointsEarned int       `json:"points_earned" db:"points_earned"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type CreateHabitRequest struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Unit         *string  `json:"unit"`
	DailyTarget  *float64 `json:"dailyTarget"`
	PointsPerDay *int     `json:"pointsPerDay"`
}

type UpdateHabitRequest struct {
	Name         *string  `json:"name"`
	Unit         *string  `json:"unit"`
	DailyTarget  *float64 `json:"dailyTarget"`
	PointsPerDay *int     `json:"pointsPerDay"`
	IsActive     *bool    `json:"isActive"`
}

type LogRequest struct {
	Date      string   `json:"date"` // YYYY-MM-DD
	Completed bool     `json:"completed"`
	Value     *float64 `json:"value"`
}

type TodayStatus struct {
	Habit     Habit    `json:"habit"`
	Completed bool     `json:"completed"`
	Value     *float64 `json:"value,omitempty"`
}

type Stats struct {
	TotalHabits      int           `json:"total_habits"`
	ActiveHabits     int           `json:"active_habits"`
	TotalCompletions int           `json:"total_completions"`
	TotalPoints      int           `json:"total_points"`
	BestStreak       int           `json:"best_streak"`
	CurrentStreaks   []StreakEntry `json:"current_streaks"`
}

type StreakEntry struct {
	Name   string `json:"name"`
	Streak int    `json:"streak"`
}
