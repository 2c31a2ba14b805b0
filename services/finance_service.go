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
	"lifeTrackAPI/internal/apperr"
	"lifeTrackAPI/internal/finance"
	"lifeTrackAPI/utils"
)

type FinanceService struct {
	db                  *pgxpool.Pool
	profileService      *ProfileService
	achievementsService *AchievementsService
}

func NewFinanceService(db *pgxpool.Pool, profileService *ProfileService, achievementsService *AchievementsService) *FinanceService {
	return &FinanceService{
		db:                  db,
		profileService:      profileService,
		achievementsService: achievementsService,
	}
}

const savingsColumns = `id, user_id, name, target_amount, current_amount, start_date, target_date, priority, notes, created_at, updated_at`

func scanSavingsGoal(row pgx.Row) (*finance.SavingsGoal, error) {
	g := &finance.SavingsGoal{}
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.StartDate,
		&g.TargetDate,
		&g.Priority,
		&g.Notes,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *FinanceService) GetAll(ctx context.Context, userID uuid.UUID) ([]*finance.SavingsGoal, error) {
	query := `
	SELECT ` + savingsColumns + `
	FROM savings_goals
	WHERE user_id = $1 AND deleted_at IS NULL
	ORDER BY target_date
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch savings goals: %w", err)
	}
	defer rows.Close()

	goals := []*finance.SavingsGoal{}
	for rows.Next() {
		g, err := scanSavingsGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		goals = append(goals, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating savings goals: %w", err)
	}

	return goals, nil
}

func (s *FinanceService) GetByID(ctx context.Context, goalID, userID uuid.UUID) (*finance.SavingsGoal, error) {
	query := `SELECT ` + savingsColumns + ` FROM savings_goals WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	g, err := scanSavingsGoal(s.db.QueryRow(ctx, query, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Savings goal")
		}
		return nil, fmt.Errorf("failed to get savings goal: %w", err)
	}
	return g, nil
}

func (s *FinanceService) Create(ctx context.Context, userID uuid.UUID, req *finance.CreateSavingsGoalRequest) (*finance.SavingsGoal, []achievement.Unlocked, error) {
	if req.Name == "" {
		return nil, nil, apperr.InvalidState("Name is required")
	}
	if req.TargetAmount <= 0 {
		return nil, nil, apperr.InvalidState("Target amount must be positive")
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, nil, apperr.InvalidState("Invalid start date, expected YYYY-MM-DD")
	}
	targetDate, err := utils.ParseDate(req.TargetDate)
	if err != nil {
		return nil, nil, apperr.InvalidState("Invalid target date, expected YYYY-MM-DD")
	}
	if targetDate.Before(startDate) {
		return nil, nil, apperr.InvalidState("Target date must be after start date")
	}

	currentAmount := 0.0
	if req.CurrentAmount != nil {
		if *req.CurrentAmount < 0 {
			return nil, nil, apperr.InvalidState("Current amount cannot be negative")
		}
		currentAmount = *req.CurrentAmount
	}

	priority := "MEDIUM"
	if req.Priority != nil {
		priority = *req.Priority
	}

	query := `
	INSERT INTO savings_goals (id, user_id, name, target_amount, current_amount, start_date, target_date, priority, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	RETURNING ` + savingsColumns

	g, err := scanSavingsGoal(s.db.QueryRow(ctx, query, uuid.New(), userID, req.Name, req.TargetAmount, currentAmount, startDate, targetDate, priority, req.Notes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create savings goal: %w", err)
	}

	totalSaved, err := s.recomputeTotalSaved(ctx, userID)
	if err != nil {
		log.Printf("Create savings goal: recompute total saved: %v", err)
	}

	unlocked := s.achievementsService.CheckFinanceAchievements(ctx, userID, FinanceSignals{
		HasSavingsGoal: true,
		TotalSaved:     totalSaved,
	})
	unlocked = append(unlocked, s.achievementsService.CheckOverallAchievements(ctx, userID)...)

	return g, unlocked, nil
}

func (s *FinanceService) Update(ctx context.Context, goalID, userID uuid.UUID, req *finance.UpdateSavingsGoalRequest) (*finance.SavingsGoal, []achievement.Unlocked, error) {
	if req.TargetAmount != nil && *req.TargetAmount <= 0 {
		return nil, nil, apperr.InvalidState("Target amount must be positive")
	}
	if req.CurrentAmount != nil && *req.CurrentAmount < 0 {
		return nil, nil, apperr.InvalidState("Current amount cannot be negative")
	}

	var targetDate *string
	if req.TargetDate != nil {
		if _, err := utils.ParseDate(*req.TargetDate); err != nil {
			return nil, nil, apperr.InvalidState("Invalid target date, expected YYYY-MM-DD")
		}
		targetDate = req.TargetDate
	}

	query := `
	UPDATE savings_goals
	SET
		name = COALESCE($3, name),
		target_amount = COALESCE($4, target_amount),
		current_amount = COALESCE($5, current_amount),
		target_date = COALESCE($6::date, target_date),
		priority = COALESCE($7, priority),
		notes = COALESCE($8, notes),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	RETURNING ` + savingsColumns

	g, err := scanSavingsGoal(s.db.QueryRow(ctx, query, goalID, userID, req.Name, req.TargetAmount, req.CurrentAmount, targetDate, req.Priority, req.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperr.NotFound("Savings goal")
		}
		return nil, nil, fmt.Errorf("failed to update savings goal: %w", err)
	}

	unlocked := s.settleAfterBalanceChange(ctx, userID)

	return g, unlocked, nil
}

// Deposit adds to a savings goal balance atomically. Milestone checks run on
// the recomputed total across all goals, not the single goal balance.
func (s *FinanceService) Deposit(ctx context.Context, goalID, userID uuid.UUID, amount float64) (*finance.SavingsGoal, []achievement.Unlocked, error) {
	if amount <= 0 {
		return nil, nil, apperr.InvalidState("Deposit amount must be positive")
	}

	query := `
	UPDATE savings_goals
	SET current_amount = current_amount + $3, updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	RETURNING ` + savingsColumns

	g, err := scanSavingsGoal(s.db.QueryRow(ctx, query, goalID, userID, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperr.NotFound("Savings goal")
		}
		return nil, nil, fmt.Errorf("failed to deposit: %w", err)
	}

	log.Printf("Deposit: %s +%.2f (balance %.2f)", goalID, amount, g.CurrentAmount)

	unlocked := s.settleAfterBalanceChange(ctx, userID)

	return g, unlocked, nil
}

func (s *FinanceService) Delete(ctx context.Context, goalID, userID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `UPDATE savings_goals SET deleted_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete savings goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Savings goal")
	}

	if _, err := s.recomputeTotalSaved(ctx, userID); err != nil {
		log.Printf("Delete savings goal: recompute total saved: %v", err)
	}

	return nil
}

// BudgetCheck reviews a month against its budgets. The month counts as under
// budget only when at least one budget exists and no budgeted category
// overspent; that derived result is what unlocks the budget achievement.
func (s *FinanceService) BudgetCheck(ctx context.Context, userID uuid.UUID, year, month int) (*finance.BudgetCheckResult, []achievement.Unlocked, error) {
	comparison, err := s.GetBudgetVsActual(ctx, userID, year, month)
	if err != nil {
		return nil, nil, err
	}

	underBudget := len(comparison) > 0
	for _, row := range comparison {
		if row.Spent > row.Budgeted {
			underBudget = false
			break
		}
	}

	result := &finance.BudgetCheckResult{
		Year:        year,
		Month:       month,
		UnderBudget: underBudget,
		Comparison:  comparison,
	}

	unlocked := []achievement.Unlocked{}
	if underBudget {
		if u := s.achievementsService.CheckFinanceAchievements(ctx, userID, FinanceSignals{UnderBudget: true}); u != nil {
			unlocked = u
		}
	}
	return result, unlocked, nil
}

func (s *FinanceService) GetStats(ctx context.Context, userID uuid.UUID) (*finance.SavingsStats, error) {
	query := `
	SELECT COUNT(*), COALESCE(SUM(target_amount), 0), COALESCE(SUM(current_amount), 0)
	FROM savings_goals
	WHERE user_id = $1 AND deleted_at IS NULL
	`

	stats := &finance.SavingsStats{}
	err := s.db.QueryRow(ctx, query, userID).Scan(&stats.TotalGoals, &stats.TotalTarget, &stats.TotalSaved)
	if err != nil {
		return nil, fmt.Errorf("failed to get savings stats: %w", err)
	}

	if stats.TotalTarget > 0 {
		stats.Progress = int(stats.TotalSaved / stats.TotalTarget * 100)
	}

	return stats, nil
}

// recomputeTotalSaved sums balances across all live goals and mirrors the
// result onto the profile.
func (s *FinanceService) recomputeTotalSaved(ctx context.Context, userID uuid.UUID) (float64, error) {
	var total float64
	err := s.db.QueryRow(ctx, `SELECT COALESCE(SUM(current_amount), 0) FROM savings_goals WHERE user_id = $1 AND deleted_at IS NULL`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum savings: %w", err)
	}

	if err := s.profileService.SetTotalSaved(ctx, userID, total); err != nil {
		return total, err
	}
	return total, nil
}

func (s *FinanceService) settleAfterBalanceChange(ctx context.Context, userID uuid.UUID) []achievement.Unlocked {
	totalSaved, err := s.recomputeTotalSaved(ctx, userID)
	if err != nil {
		log.Printf("settleAfterBalanceChange: %v", err)
		return []achievement.Unlocked{}
	}

	unlocked := s.achievementsService.CheckFinanceAchievements(ctx, userID, FinanceSignals{
		HasSavingsGoal: true,
		TotalSaved:     totalSaved,
	})
	if unlocked == nil {
		unlocked = []achievement.Unlocked{}
	}
	return unlocked
}
