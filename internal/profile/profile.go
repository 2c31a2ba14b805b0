package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors the users row. TotalXP is the only level source of truth;
// the level fields in Response are derived live and never persisted.
type Profile struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	Name            string    `json:"name" db:"name"`
	TotalXP         int       `json:"total_xp" db:"total_xp"`
	CurrentLevel    int       `json:"current_level" db:"current_level"`
	GoalsCompleted  int       `json:"goals_completed" db:"goals_completed"`
	BucketCompleted int       `json:"bucket_completed" db:"bucket_completed"`
	HabitsCompleted int       `json:"habits_completed" db:"habits_completed"`
	TotalSaved      float64   `json:"total_saved" db:"total_saved"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type Response struct {
	Profile
	LevelTitle    string `json:"level_title"`
	LevelIcon     string `json:"level_icon"`
	XPToNextLevel int    `json:"xp_to_next_level"`
	LevelProgress int    `json:"level_progress"`
}

type UpdateRequest struct {
	Name string `json:"name"`
}

type LevelProgress struct {
	CurrentXP       int    `json:"current_xp"`
	CurrentLevel    int    `json:"current_level"`
	LevelTitle      string `json:"level_title"`
	LevelIcon       string `json:"level_icon"`
	XPForCurrentLevel int  `json:"xp_for_current_level"`
	XPToNextLevel   int    `json:"xp_to_next_level"`
	ProgressPercent int    `json:"progress_percent"`
}
