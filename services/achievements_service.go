package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeTrackAPI/internal/achievement"
	"lifeTrackAPI/internal/metrics"
)

type AchievementsService struct {
	db             *pgxpool.Pool
	profileService *ProfileService
}

func NewAchievementsService(db *pgxpool.Pool, profileService *ProfileService) *AchievementsService {
	return &AchievementsService{db: db, profileService: profileService}
}

// SeedCatalog inserts the static achievement catalog. Existing codes are
// left untouched, so re-running at every startup is safe.
func (s *AchievementsService) SeedCatalog(ctx context.Context) error {
	query := `
	INSERT INTO achievements (id, code, name, description, category, icon, requirement, bonus_points, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	ON CONFLICT (code) DO NOTHING
	`

	for _, a := range achievement.Catalog {
		_, err := s.db.Exec(ctx, query, uuid.New(), a.Code, a.Name, a.Description, a.Category, a.Icon, a.Requirement, a.BonusPoints)
		if err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", a.Code, err)
		}
	}

	log.Printf("Achievement catalog seeded (%d entries)", len(achievement.Catalog))
	return nil
}

func (s *AchievementsService) GetAll(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error) {
	query := `
	SELECT
		a.id,
		a.code,
		a.name,
		a.description,
		a.category,
		a.icon,
		a.requirement,
		a.bonus_points,
		a.created_at,
		CASE WHEN ua.id IS NOT NULL THEN true ELSE false END as unlocked,
		ua.unlocked_at
	FROM achievements a
	LEFT JOIN user_achievements ua ON a.id = ua.achievement_id AND ua.user_id = $1
	ORDER BY unlocked DESC, a.category, a.bonus_points ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*achievement.AchievementWithStatus
	for rows.Next() {
		ach := &achievement.AchievementWithStatus{}
		err := rows.Scan(
			&ach.ID,
			&ach.Code,
			&ach.Name,
			&ach.Description,
			&ach.Category,
			&ach.Icon,
			&ach.Requirement,
			&ach.BonusPoints,
			&ach.CreatedAt,
			&ach.Unlocked,
			&ach.UnlockedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, ach)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}

	return achievements, nil
}

func (s *AchievementsService) GetUnlocked(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error) {
	all, err := s.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlocked := []*achievement.AchievementWithStatus{}
	for _, a := range all {
		if a.Unlocked {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, nil
}

func (s *AchievementsService) GetStats(ctx context.Context, userID uuid.UUID) (*achievement.Stats, error) {
	query := `
	SELECT
		(SELECT COUNT(*) FROM achievements) as total,
		COUNT(ua.id) as unlocked,
		COALESCE(SUM(ua.points_awarded), 0) as total_bonus_xp
	FROM user_achievements ua
	WHERE ua.user_id = $1
	`

	stats := &achievement.Stats{}
	err := s.db.QueryRow(ctx, query, userID).Scan(&stats.Total, &stats.UnlockedCount, &stats.TotalBonusXP)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievement stats: %w", err)
	}
	return stats, nil
}

// TryUnlock unlocks the given code for the user exactly once. A second call
// for the same (user, code) pair is a no-op returning nil, and an unseeded
// code degrades to "no unlock" rather than an error — catalog integrity is a
// seeding concern, not a per-request one.
func (s *AchievementsService) TryUnlock(ctx context.Context, userID uuid.UUID, code string) (*achievement.Unlocked, error) {
	var a achievement.Achievement
	lookupQuery := `
	SELECT id, code, name, description, category, icon, bonus_points
	FROM achievements
	WHERE code = $1
	`
	err := s.db.QueryRow(ctx, lookupQuery, code).Scan(
		&a.ID,
		&a.Code,
		&a.Name,
		&a.Description,
		&a.Category,
		&a.Icon,
		&a.BonusPoints,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("TryUnlock: achievement %s not seeded, skipping", code)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up achievement %s: %w", code, err)
	}

	// The unique (user_id, achievement_id) index is the idempotence point:
	// only the request that actually inserts the row awards the bonus XP.
	insertQuery := `
	INSERT INTO user_achievements (id, user_id, achievement_id, points_awarded, unlocked_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (user_id, achievement_id) DO NOTHING
	`
	result, err := s.db.Exec(ctx, insertQuery, uuid.New(), userID, a.ID, a.BonusPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock achievement %s: %w", code, err)
	}
	if result.RowsAffected() == 0 {
		return nil, nil
	}

	if err := s.profileService.AddXP(ctx, userID, a.BonusPoints, "achievement"); err != nil {
		return nil, fmt.Errorf("failed to award bonus XP for %s: %w", code, err)
	}

	metrics.IncAchievementUnlocked(string(a.Category))
	log.Printf("Achievement unlocked: %s for user %s (+%d XP)", code, userID, a.BonusPoints)

	return &achievement.Unlocked{
		Code:          a.Code,
		Name:          a.Name,
		Description:   a.Description,
		Icon:          a.Icon,
		PointsAwarded: a.BonusPoints,
	}, nil
}

// checkRules evaluates every threshold rule against the counter value. Each
// rule is independent: crossing 10 goals in one call fires all of 1/3/10.
// Individual rule failures degrade to "no unlock" for that rule.
func (s *AchievementsService) checkRules(ctx context.Context, userID uuid.UUID, rules []achievement.ThresholdRule, value int) []achievement.Unlocked {
	var unlocked []achievement.Unlocked
	for _, rule := range rules {
		if value < rule.Threshold {
			continue
		}
		u, err := s.TryUnlock(ctx, userID, rule.Code)
		if err != nil {
			log.Printf("checkRules: %s: %v", rule.Code, err)
			continue
		}
		if u != nil {
			unlocked = append(unlocked, *u)
		}
	}
	return unlocked
}

func (s *AchievementsService) CheckGoalAchievements(ctx context.Context, userID uuid.UUID, goalsCompleted int) []achievement.Unlocked {
	return s.checkRules(ctx, userID, achievement.GoalRules, goalsCompleted)
}

func (s *AchievementsService) CheckHabitAchievements(ctx context.Context, userID uuid.UUID, totalCompletions, currentStreak int) []achievement.Unlocked {
	unlocked := s.checkRules(ctx, userID, achievement.HabitCompletionRules, totalCompletions)
	unlocked = append(unlocked, s.checkRules(ctx, userID, achievement.HabitStreakRules, currentStreak)...)
	return unlocked
}

func (s *AchievementsService) CheckBucketAchievements(ctx context.Context, userID uuid.UUID, bucketCompleted int) []achievement.Unlocked {
	return s.checkRules(ctx, userID, achievement.BucketRules, bucketCompleted)
}

type FinanceSignals struct {
	HasSavingsGoal bool
	TotalSaved     float64
	UnderBudget    bool
}

func (s *AchievementsService) CheckFinanceAchievements(ctx context.Context, userID uuid.UUID, signals FinanceSignals) []achievement.Unlocked {
	var unlocked []achievement.Unlocked

	tryCode := func(code string) {
		u, err := s.TryUnlock(ctx, userID, code)
		if err != nil {
			log.Printf("CheckFinanceAchievements: %s: %v", code, err)
			return
		}
		if u != nil {
			unlocked = append(unlocked, *u)
		}
	}

	if signals.HasSavingsGoal {
		tryCode(achievement.CodeSaversStart)
	}
	if signals.TotalSaved >= achievement.FirstLakhThreshold {
		tryCode(achievement.CodeFirstLakh)
	}
	if signals.UnderBudget {
		tryCode(achievement.CodeBudgetBoss)
	}

	return unlocked
}

// CheckOverallAchievements unlocks LIFE_TRACKER once the user has at least
// one item in all four domains.
func (s *AchievementsService) CheckOverallAchievements(ctx context.Context, userID uuid.UUID) []achievement.Unlocked {
	query := `
	SELECT
		EXISTS(SELECT 1 FROM goals WHERE user_id = $1 AND deleted_at IS NULL),
		EXISTS(SELECT 1 FROM habits WHERE user_id = $1 AND deleted_at IS NULL),
		EXISTS(SELECT 1 FROM bucket_items WHERE user_id = $1 AND deleted_at IS NULL),
		EXISTS(SELECT 1 FROM savings_goals WHERE user_id = $1 AND deleted_at IS NULL)
			OR EXISTS(SELECT 1 FROM expenses WHERE user_id = $1 AND deleted_at IS NULL)
			OR EXISTS(SELECT 1 FROM incomes WHERE user_id = $1 AND deleted_at IS NULL)
	`

	var hasGoals, hasHabits, hasBucket, hasFinance bool
	err := s.db.QueryRow(ctx, query, userID).Scan(&hasGoals, &hasHabits, &hasBucket, &hasFinance)
	if err != nil {
		log.Printf("CheckOverallAchievements: %v", err)
		return nil
	}

	if !(hasGoals && hasHabits && hasBucket && hasFinance) {
		return nil
	}

	u, err := s.TryUnlock(ctx, userID, achievement.CodeLifeTracker)
	if err != nil {
		log.Printf("CheckOverallAchievements: %v", err)
		return nil
	}
	if u == nil {
		return nil
	}
	return []achievement.Unlocked{*u}
}
