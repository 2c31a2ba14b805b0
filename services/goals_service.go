package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeTrackAPI/internal/achievement"
	"lifeTrackAPI/internal/apperr"
	"lifeTrackAPI/internal/goal"
	"lifeTrackAPI/internal/metrics"
	"lifeTrackAPI/internal/progress"
	"lifeTrackAPI/utils"
)

type GoalsService struct {
	db                  *pgxpool.Pool
	profileService      *ProfileService
	achievementsService *AchievementsService
}

func NewGoalsService(db *pgxpool.Pool, profileService *ProfileService, achievementsService *AchievementsService) *GoalsService {
	return &GoalsService{
		db:                  db,
		profileService:      profileService,
		achievementsService: achievementsService,
	}
}

const goalColumns = `id, user_id, title, description, category, timeline, priority, status, progress, points_earned, start_date, target_date, notes, created_at, updated_at`

func scanGoal(row pgx.Row) (*goal.Goal, error) {
	g := &goal.Goal{}
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Description,
		&g.Category,
		&g.Timeline,
		&g.Priority,
		&g.Status,
		&g.Progress,
		&g.PointsEarned,
		&g.StartDate,
		&g.TargetDate,
		&g.Notes,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GoalsService) GetAll(ctx context.Context, userID uuid.UUID, status string) ([]*goal.Goal, error) {
	query := `
	SELECT ` + goalColumns + `
	FROM goals
	WHERE user_id = $1
		AND deleted_at IS NULL
		AND ($2 = '' OR status = $2)
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}
	defer rows.Close()

	goals := []*goal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

func (s *GoalsService) GetByID(ctx context.Context, goalID, userID uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	g, err := scanGoal(s.db.QueryRow(ctx, query, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Goal")
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (s *GoalsService) Create(ctx context.Context, userID uuid.UUID, req *goal.CreateGoalRequest) (*goal.Goal, []achievement.Unlocked, error) {
	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, nil, apperr.InvalidState("Invalid start date, expected YYYY-MM-DD")
	}
	targetDate, err := utils.ParseDate(req.TargetDate)
	if err != nil {
		return nil, nil, apperr.InvalidState("Invalid target date, expected YYYY-MM-DD")
	}
	if !targetDate.After(startDate) {
		return nil, nil, apperr.InvalidState("Target date must be after start date")
	}

	query := `
	INSERT INTO goals (id, user_id, title, description, category, timeline, priority, status, progress, points_earned, start_date, target_date, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, $10, $11, NOW(), NOW())
	RETURNING ` + goalColumns

	g, err := scanGoal(s.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		userID,
		req.Title,
		req.Description,
		req.Category,
		progress.Timeline(req.Timeline),
		progress.Priority(req.Priority),
		goal.StatusNotStarted,
		startDate,
		targetDate,
		req.Notes,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create goal: %w", err)
	}

	unlocked := s.achievementsService.CheckOverallAchievements(ctx, userID)

	return g, unlocked, nil
}

func (s *GoalsService) Update(ctx context.Context, goalID, userID uuid.UUID, req *goal.UpdateGoalRequest) (*goal.Goal, error) {
	var targetDate *time.Time
	if req.TargetDate != nil {
		t, err := utils.ParseDate(*req.TargetDate)
		if err != nil {
			return nil, apperr.InvalidState("Invalid target date, expected YYYY-MM-DD")
		}
		targetDate = &t
	}

	query := `
	UPDATE goals
	SET
		title = COALESCE($3, title),
		description = COALESCE($4, description),
		category = COALESCE($5, category),
		timeline = COALESCE($6, timeline),
		priority = COALESCE($7, priority),
		status = COALESCE($8, status),
		target_date = COALESCE($9, target_date),
		notes = COALESCE($10, notes),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	RETURNING ` + goalColumns

	g, err := scanGoal(s.db.QueryRow(
		ctx,
		query,
		goalID,
		userID,
		req.Title,
		req.Description,
		req.Category,
		req.Timeline,
		req.Priority,
		req.Status,
		targetDate,
		req.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Goal")
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return g, nil
}

func (s *GoalsService) UpdateProgress(ctx context.Context, goalID, userID uuid.UUID, progressValue int) (*goal.Goal, error) {
	if progressValue < 0 || progressValue > 100 {
		return nil, apperr.InvalidState("Progress must be between 0 and 100")
	}

	query := `
	UPDATE goals
	SET progress = $3,
		status = CASE WHEN status = 'NOT_STARTED' AND $3 > 0 THEN 'IN_PROGRESS' ELSE status END,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL AND status <> 'COMPLETED'
	RETURNING ` + goalColumns

	g, err := scanGoal(s.db.QueryRow(ctx, query, goalID, userID, progressValue))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row exists but is completed, or does not exist at all.
			if _, getErr := s.GetByID(ctx, goalID, userID); getErr == nil {
				return nil, apperr.InvalidState("Goal is already completed")
			}
			return nil, apperr.NotFound("Goal")
		}
		return nil, fmt.Errorf("failed to update goal progress: %w", err)
	}
	return g, nil
}

// Complete transitions the goal into COMPLETED exactly once, computing its
// points from the final timeline and priority. The row lock serializes
// concurrent attempts so only one of them awards XP.
func (s *GoalsService) Complete(ctx context.Context, goalID, userID uuid.UUID) (*goal.Goal, int, []achievement.Unlocked, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockQuery := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL FOR UPDATE`
	existing, err := scanGoal(tx.QueryRow(ctx, lockQuery, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, nil, apperr.NotFound("Goal")
		}
		return nil, 0, nil, fmt.Errorf("failed to get goal: %w", err)
	}

	if existing.Status == goal.StatusCompleted {
		return nil, 0, nil, apperr.InvalidState("Goal is already completed")
	}

	points := progress.GoalPoints(existing.Timeline, existing.Priority)

	updateQuery := `
	UPDATE goals
	SET status = $3, progress = 100, points_earned = $4, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + goalColumns

	g, err := scanGoal(tx.QueryRow(ctx, updateQuery, goalID, userID, goal.StatusCompleted, points))
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to complete goal: %w", err)
	}

	var goalsCompleted int
	counterQuery := `
	UPDATE users
	SET total_xp = total_xp + $2, goals_completed = goals_completed + 1, updated_at = NOW()
	WHERE id = $1
	RETURNING goals_completed
	`
	if err := tx.QueryRow(ctx, counterQuery, userID, points).Scan(&goalsCompleted); err != nil {
		return nil, 0, nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// XP was applied inside the transaction; record the grant and refresh
	// the cached level outside it.
	metrics.AddXPAwarded("goal", points)
	s.profileService.RefreshLevel(ctx, userID)

	log.Printf("Goal completed: %s (+%d XP, total completed %d)", goalID, points, goalsCompleted)

	unlocked := s.achievementsService.CheckGoalAchievements(ctx, userID, goalsCompleted)
	unlocked = append(unlocked, s.achievementsService.CheckOverallAchievements(ctx, userID)...)

	return g, points, unlocked, nil
}

func (s *GoalsService) Delete(ctx context.Context, goalID, userID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `UPDATE goals SET deleted_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Goal")
	}
	return nil
}

func (s *GoalsService) Restore(ctx context.Context, goalID, userID uuid.UUID) (*goal.Goal, error) {
	query := `
	UPDATE goals
	SET deleted_at = NULL, updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND deleted_at IS NOT NULL
	RETURNING ` + goalColumns

	g, err := scanGoal(s.db.QueryRow(ctx, query, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Goal")
		}
		return nil, fmt.Errorf("failed to restore goal: %w", err)
	}
	return g, nil
}

func (s *GoalsService) GetStats(ctx context.Context, userID uuid.UUID) (*goal.Stats, error) {
	query := `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'COMPLETED'),
		COUNT(*) FILTER (WHERE status = 'IN_PROGRESS'),
		COUNT(*) FILTER (WHERE status = 'NOT_STARTED'),
		COALESCE(SUM(points_earned), 0)
	FROM goals
	WHERE user_id = $1 AND deleted_at IS NULL
	`

	stats := &goal.Stats{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&stats.Total,
		&stats.Completed,
		&stats.InProgress,
		&stats.NotStarted,
		&stats.TotalPoints,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal stats: %w", err)
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(float64(stats.Completed)/float64(stats.Total)*100 + 0.5)
	}

	return stats, nil
}
