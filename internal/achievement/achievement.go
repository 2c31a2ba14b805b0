package achievement

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryGoals      Category = "GOALS"
	CategoryHabits     Category = "HABITS"
	CategoryBucketList Category = "BUCKET_LIST"
	CategoryFinance    Category = "FINANCE"
	CategoryOverall    Category = "OVERALL"
)

type Achievement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    Category  `json:"category" db:"category"`
	Icon        string    `json:"icon" db:"icon"`
	Requirement string    `json:"requirement" db:"requirement"`
	BonusPoints int       `json:"bonus_points" db:"bonus_points"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type UserAchievement struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id" db:"achievement_id"`
	PointsAwarded int       `json:"points_awarded" db:"points_awarded"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
}

type AchievementWithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Unlocked is the notification returned to the caller when a rule fires for
// the first time.
type Unlocked struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	PointsAwarded int    `json:"points_awarded"`
}

type Stats struct {
	Total         int `json:"total"`
	UnlockedCount int `json:"unlocked"`
	TotalBonusXP  int `json:"total_bonus_xp"`
}
