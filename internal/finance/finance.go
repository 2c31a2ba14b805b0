package finance

import (
	"time"

	"github.com/google/uuid"
)

type SavingsGoal struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	TargetAmount  float64   `json:"target_amount" db:"target_amount"`
	CurrentAmount float64   `json:"current_amount" db:"current_amount"`
	StartDate     time.Time `json:"start_date" db:"start_date"`
	TargetDate    time.Time `json:"target_date" db:"target_date"`
	Priority      string    `json:"priority" db:"priority"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type CreateSavingsGoalRequest struct {
	Name          string   `json:"name"`
	TargetAmount  float64  `json:"targetAmount"`
	CurrentAmount *float64 `json:"currentAmount"`
	StartDate     string   `json:"startDate"`
	TargetDate    string   `json:"targetDate"`
	Priority      *string  `json:"priority"`
	Notes         *string  `json:"notes"`
}

type UpdateSavingsGoalRequest struct {
	Name          *string  `json:"name"`
	TargetAmount  *float64 `json:"targetAmount"`
	CurrentAmount *float64 `json:"currentAmount"`
	TargetDate    *string  `json:"targetDate"`
	Priority      *string  `json:"priority"`
	Notes         *string  `json:"notes"`
}

type DepositRequest struct {
	Amount float64 `json:"amount"`
}

type BudgetCheckRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// BudgetCheckResult reports the derived outcome of a monthly budget review.
type BudgetCheckResult struct {
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	UnderBudget bool             `json:"under_budget"`
	Comparison  []BudgetVsActual `json:"comparison"`
}

type SavingsStats struct {
	TotalGoals  int     `json:"total_goals"`
	TotalTarget float64 `json:"total_target"`
	TotalSaved  float64 `json:"total_saved"`
	Progress    int     `json:"progress"`
}
