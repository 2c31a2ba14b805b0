package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeTrackAPI/internal/achievement"
	"lifeTrackAPI/internal/apperr"
	"lifeTrackAPI/internal/habit"
	"lifeTrackAPI/internal/metrics"
	"lifeTrackAPI/internal/progress"
	"lifeTrackAPI/utils"
)

type HabitsService struct {
	db                  *pgxpool.Pool
	profileService      *ProfileService
	achievementsService *AchievementsService
}

func NewHabitsService(db *pgxpool.Pool, profileService *ProfileService, achievementsService *AchievementsService) *HabitsService {
	return &HabitsService{
		db:                  db,
		profileService:      profileService,
		achievementsService: achievementsService,
	}
}

type LogResult struct {
	Log             habit.Log             `json:"log"`
	PointsEarned    int                   `json:"points_earned"`
	IsNewCompletion bool                  `json:"is_new_completion"`
	CurrentStreak   int                   `json:"current_streak"`
	Achievements    []achievement.Unlocked `json:"unlocked_achievements"`
}

const habitColumns = `id, user_id, name, type, unit, daily_target, points_per_day, is_active, current_streak, best_streak, created_at, updated_at`

func scanHabit(row pgx.Row) (*habit.Habit, error) {
	h := &habit.Habit{}
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.Name,
		&h.Type,
		&h.Unit,
		&h.DailyTarget,
		&h.PointsPerDay,
		&h.IsActive,
		&h.CurrentStreak,
		&h.BestStreak,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HabitsService) GetAll(ctx context.Context, userID uuid.UUID) ([]*habit.Habit, error) {
	query := `
	SELECT ` + habitColumns + `
	FROM habits
	WHERE user_id = $1 AND deleted_at IS NULL
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	defer rows.Close()

	habits := []*habit.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habits: %w", err)
	}

	return habits, nil
}

func (s *HabitsService) GetByID(ctx context.Context, habitID, userID uuid.UUID) (*habit.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	h, err := scanHabit(s.db.QueryRow(ctx, query, habitID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Habit")
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return h, nil
}

func (s *HabitsService) Create(ctx context.Context, userID uuid.UUID, req *habit.CreateHabitRequest) (*habit.Habit, []achievement.Unlocked, error) {
	habitType := progress.HabitType(req.Type)
	if habitType != progress.HabitBinary && habitType != progress.HabitNumeric {
		return nil, nil, apperr.InvalidState("Habit type must be BINARY or NUMERIC")
	}

	dailyTarget := 1.0
	if req.DailyTarget != nil {
		if *req.DailyTarget <= 0 {
			return nil, nil, apperr.InvalidState("Daily target must be positive")
		}
		dailyTarget = *req.DailyTarget
	}

	pointsPerDay := 5
	if req.PointsPerDay != nil {
		if *req.PointsPerDay < 1 || *req.PointsPerDay > 100 {
			return nil, nil, apperr.InvalidState("Points per day must be between 1 and 100")
		}
		pointsPerDay = *req.PointsPerDay
	}

	query := `
	INSERT INTO habits (id, user_id, name, type, unit, daily_target, points_per_day, is_active, current_streak, best_streak, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, true, 0, 0, NOW(), NOW())
	RETURNING ` + habitColumns

	h, err := scanHabit(s.db.QueryRow(ctx, query, uuid.New(), userID, req.Name, habitType, req.Unit, dailyTarget, pointsPerDay))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create habit: %w", err)
	}

	unlocked := s.achievementsService.CheckOverallAchievements(ctx, userID)

	return h, unlocked, nil
}

func (s *HabitsService) Update(ctx context.Context, habitID, userID uuid.UUID, req *habit.UpdateHabitRequest) (*habit.Habit, error) {
	if req.PointsPerDay != nil && (*req.PointsPerDay < 1 || *req.PointsPerDay > 100) {
		return nil, apperr.InvalidState("Points per day must be between 1 and 100")
	}
	if req.DailyTarget != nil && *req.DailyTarget <= 0 {
		return nil, apperr.InvalidState("Daily target must be positive")
	}

	query := `
	UPDATE habits
	SET
		name = COALESCE($3, name),
		unit = COALESCE($4, unit),
		daily_target = COALESCE($5, daily_target),
		points_per_day = COALESCE($6, points_per_day),
		is_active = COALESCE($7, is_active),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	RETURNING ` + habitColumns

	h, err := scanHabit(s.db.QueryRow(ctx, query, habitID, userID, req.Name, req.Unit, req.DailyTarget, req.PointsPerDay, req.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Habit")
		}
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return h, nil
}

// Log writes or rewrites the (habit, day) log and re-derives the streaks
// from the full log set. Points for a day are granted at most once: once the
// day's points_earned is non-zero it is carried forward through any toggles,
// and the XP grant happens only on the first genuine completion.
func (s *HabitsService) Log(ctx context.Context, habitID, userID uuid.UUID, date time.Time, completed bool, value *float64) (*LogResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockQuery := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL FOR UPDATE`
	h, err := scanHabit(tx.QueryRow(ctx, lockQuery, habitID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Habit")
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	date = progress.TruncateToDay(date)

	var wasCompleted bool
	var pointsAlreadyEarned int
	err = tx.QueryRow(ctx, `SELECT completed, points_earned FROM habit_logs WHERE habit_id = $1 AND date = $2`, habitID, date).
		Scan(&wasCompleted, &pointsAlreadyEarned)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read existing log: %w", err)
	}

	dayPoints := progress.HabitDayPoints(h.Type, h.PointsPerDay, h.DailyTarget, completed, value)
	isNewCompletion := dayPoints > 0 && !wasCompleted && pointsAlreadyEarned == 0

	// Sticky: a day that was ever paid keeps its points even when toggled
	// off, and never pays again when toggled back on.
	rowPoints := pointsAlreadyEarned
	if isNewCompletion {
		rowPoints = dayPoints
	}

	upsertQuery := `
	INSERT INTO habit_logs (id, habit_id, date, completed, value, points_earned, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	ON CONFLICT (habit_id, date)
	DO UPDATE SET completed = $4, value = $5, points_earned = $6, updated_at = NOW()
	RETURNING id, habit_id, date, completed, value, points_earned, created_at, updated_at
	`

	logRow := habit.Log{}
	err = tx.QueryRow(ctx, upsertQuery, uuid.New(), habitID, date, completed, value, rowPoints).Scan(
		&logRow.ID,
		&logRow.HabitID,
		&logRow.Date,
		&logRow.Completed,
		&logRow.Value,
		&logRow.PointsEarned,
		&logRow.CreatedAt,
		&logRow.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert habit log: %w", err)
	}

	currentStreak, err := s.recomputeStreaks(ctx, tx, h)
	if err != nil {
		return nil, err
	}

	var habitsCompleted int
	if isNewCompletion {
		counterQuery := `
		UPDATE users
		SET total_xp = total_xp + $2, habits_completed = habits_completed + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING habits_completed
		`
		if err := tx.QueryRow(ctx, counterQuery, userID, dayPoints).Scan(&habitsCompleted); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result := &LogResult{
		Log:           logRow,
		CurrentStreak: currentStreak,
		Achievements:  []achievement.Unlocked{},
	}

	if isNewCompletion {
		result.PointsEarned = dayPoints
		result.IsNewCompletion = true

		metrics.AddXPAwarded("habit", dayPoints)
		s.profileService.RefreshLevel(ctx, userID)

		log.Printf("Habit logged: %s on %s (+%d XP, streak %d)", habitID, utils.FormatDate(date), dayPoints, currentStreak)

		result.Achievements = s.achievementsService.CheckHabitAchievements(ctx, userID, habitsCompleted, currentStreak)
	} else if completed {
		// A re-completed day pays nothing but can still extend the streak.
		result.Achievements = s.achievementsService.CheckHabitAchievements(ctx, userID, 0, currentStreak)
	}

	return result, nil
}

// recomputeStreaks re-derives current and best streaks from the complete log
// set inside the caller's transaction. Full recompute keeps the result
// independent of write order.
func (s *HabitsService) recomputeStreaks(ctx context.Context, tx pgx.Tx, h *habit.Habit) (int, error) {
	rows, err := tx.Query(ctx, `SELECT date, completed FROM habit_logs WHERE habit_id = $1 ORDER BY date DESC`, h.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch habit logs: %w", err)
	}
	defer rows.Close()

	var logs []progress.DayLog
	for rows.Next() {
		var l progress.DayLog
		if err := rows.Scan(&l.Date, &l.Completed); err != nil {
			return 0, fmt.Errorf("failed to scan habit log: %w", err)
		}
		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating habit logs: %w", err)
	}

	currentStreak := progress.CurrentStreak(logs, utils.TodayUTC())
	bestStreak := progress.BestStreak(h.BestStreak, currentStreak)

	_, err = tx.Exec(ctx, `UPDATE habits SET current_streak = $2, best_streak = $3, updated_at = NOW() WHERE id = $1`, h.ID, currentStreak, bestStreak)
	if err != nil {
		return 0, fmt.Errorf("failed to update streaks: %w", err)
	}

	return currentStreak, nil
}

func (s *HabitsService) GetMonthLogs(ctx context.Context, habitID, userID uuid.UUID, year, month int) ([]*habit.Log, error) {
	if _, err := s.GetByID(ctx, habitID, userID); err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	query := `
	SELECT id, habit_id, date, completed, value, points_earned, created_at, updated_at
	FROM habit_logs
	WHERE habit_id = $1 AND date >= $2 AND date <= $3
	ORDER BY date
	`

	rows, err := s.db.Query(ctx, query, habitID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habit logs: %w", err)
	}
	defer rows.Close()

	logs := []*habit.Log{}
	for rows.Next() {
		l := &habit.Log{}
		err := rows.Scan(&l.ID, &l.HabitID, &l.Date, &l.Completed, &l.Value, &l.PointsEarned, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit log: %w", err)
		}
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habit logs: %w", err)
	}

	return logs, nil
}

func (s *HabitsService) GetTodayStatus(ctx context.Context, userID uuid.UUID) ([]*habit.TodayStatus, error) {
	today := utils.TodayUTC()

	query := `
	SELECT h.id, h.user_id, h.name, h.type, h.unit, h.daily_target, h.points_per_day, h.is_active, h.current_streak, h.best_streak, h.created_at, h.updated_at, hl.completed, hl.value
	FROM habits h
	LEFT JOIN habit_logs hl ON hl.habit_id = h.id AND hl.date = $2
	WHERE h.user_id = $1 AND h.deleted_at IS NULL AND h.is_active = true
	ORDER BY h.created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today status: %w", err)
	}
	defer rows.Close()

	statuses := []*habit.TodayStatus{}
	for rows.Next() {
		st := &habit.TodayStatus{}
		var completed *bool
		err := rows.Scan(
			&st.Habit.ID,
			&st.Habit.UserID,
			&st.Habit.Name,
			&st.Habit.Type,
			&st.Habit.Unit,
			&st.Habit.DailyTarget,
			&st.Habit.PointsPerDay,
			&st.Habit.IsActive,
			&st.Habit.CurrentStreak,
			&st.Habit.BestStreak,
			&st.Habit.CreatedAt,
			&st.Habit.UpdatedAt,
			&completed,
			&st.Value,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan today status: %w", err)
		}
		if completed != nil {
			st.Completed = *completed
		}
		statuses = append(statuses, st)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating today status: %w", err)
	}

	return statuses, nil
}

func (s *HabitsService) Delete(ctx context.Context, habitID, userID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `UPDATE habits SET deleted_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, habitID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Habit")
	}
	return nil
}

func (s *HabitsService) GetStats(ctx context.Context, userID uuid.UUID) (*habit.Stats, error) {
	habits, err := s.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &habit.Stats{
		TotalHabits:    len(habits),
		CurrentStreaks: []habit.StreakEntry{},
	}

	for _, h := range habits {
		if h.IsActive {
			stats.ActiveHabits++
			if h.CurrentStreak > 0 {
				stats.CurrentStreaks = append(stats.CurrentStreaks, habit.StreakEntry{Name: h.Name, Streak: h.CurrentStreak})
			}
		}
		if h.BestStreak > stats.BestStreak {
			stats.BestStreak = h.BestStreak
		}
	}

	sort.Slice(stats.CurrentStreaks, func(i, j int) bool {
		return stats.CurrentStreaks[i].Streak > stats.CurrentStreaks[j].Streak
	})
	if len(stats.CurrentStreaks) > 5 {
		stats.CurrentStreaks = stats.CurrentStreaks[:5]
	}

	totalsQuery := `
	SELECT
		COALESCE(COUNT(*) FILTER (WHERE hl.completed = true), 0),
		COALESCE(SUM(hl.points_earned), 0)
	FROM habit_logs hl
	JOIN habits h ON h.id = hl.habit_id
	WHERE h.user_id = $1 AND h.deleted_at IS NULL
	`
	err = s.db.QueryRow(ctx, totalsQuery, userID).Scan(&stats.TotalCompletions, &stats.TotalPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit totals: %w", err)
	}

	return stats, nil
}
