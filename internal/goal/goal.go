package goal

import (
	"time"

	"github.com/google/uuid"

	"lifeTrackAPI/internal/progress"
)

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusOnHold     Status = "ON_HOLD"
)

type Goal struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	UserID       uuid.UUID         `json:"user_id" db:"user_id"`
	Title        string            `json:"title" db:"title"`
	Description  *string           `json:"description,omitempty" db:"description"`
	Category     string            `json:"category" db:"category"`
	Timeline     progress.Timeline `json:"timeline" db:"timeline"`
	Priority     progress.Priority `json:"priority" db:"priority"`
	Status       Status            `json:"status" db:"status"`
	Progress     int               `json:"progress" db:"progress"`
	PointsEarned int               `json:"points_earned" db:"points_earned"`
	StartDate    time.Time         `json:"start_date" db:"start_date"`
	TargetDate   time.Time         `json:"target_date" db:"target_date"`
	Notes        *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

type CreateGoalRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Timeline    string  `json:"timeline"`
	Priority    string  `json:"priority"`
	StartDate   string  `json:"startDate"`
	TargetDate  string  `json:"targetDate"`
	Notes       *string `json:"notes"`
}

type UpdateGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Timeline    *string `json:"timeline"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	TargetDate  *string `json:"targetDate"`
	Notes       *string `json:"notes"`
}

type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"in_progress"`
	NotStarted     int `json:"not_started"`
	CompletionRate int `json:"completion_rate"`
	TotalPoints    int `json:"total_points"`
}
