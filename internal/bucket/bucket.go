package bucket

import (
	"time"

	"github.com/google/uuid"

	"lifeTrackAPI/internal/progress"
)

type Category string

const (
	CategoryTravel      Category = "TRAVEL"
	CategorySkills      Category = "SKILLS"
	CategoryExperiences Category = "EXPERIENCES"
	CategoryMilestones  Category = "MILESTONES"
)

type Item struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	UserID        uuid.UUID           `json:"user_id" db:"user_id"`
	Title         string              `json:"title" db:"title"`
	Category      Category            `json:"category" db:"category"`
	Difficulty    progress.Difficulty `json:"difficulty" db:"difficulty"`
	IsCompleted   bool                `json:"is_completed" db:"is_completed"`
	PointsEarned  int                 `json:"points_earned" db:"points_earned"`
	EstimatedCost float64             `json:"estimated_cost" db:"estimated_cost"`
	Notes         *string             `json:"notes,omitempty" db:"notes"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
}

type CreateItemRequest struct {
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	EstimatedCost *float64 `json:"estimatedCost"`
	Notes         *string  `json:"notes"`
}

type UpdateItemRequest struct {
	Title         *string  `json:"title"`
	Category      *string  `json:"category"`
	Difficulty    *string  `json:"difficulty"`
	EstimatedCost *float64 `json:"estimatedCost"`
	Notes         *string  `json:"notes"`
}

type CompleteItemRequest struct {
	Notes *string `json:"notes"`
}

type Stats struct {
	Total       int            `json:"total"`
	Completed   int            `json:"completed"`
	Pending     int            `json:"pending"`
	TotalPoints int            `json:"total_points"`
	ByCategory  map[string]int `json:"by_category"`
}
