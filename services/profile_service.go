package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeTrackAPI/internal/apperr"
	"lifeTrackAPI/internal/metrics"
	"lifeTrackAPI/internal/profile"
	"lifeTrackAPI/internal/progress"
)

type ProfileService struct {
	db *pgxpool.Pool
}

func NewProfileService(db *pgxpool.Pool) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `id, email, name, total_xp, current_level, goals_completed, bucket_completed, habits_completed, total_saved, created_at, updated_at`

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.TotalXP,
		&p.CurrentLevel,
		&p.GoalsCompleted,
		&p.BucketCompleted,
		&p.HabitsCompleted,
		&p.TotalSaved,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User profile")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetProfile returns the stored profile with level fields derived live from
// total XP. Only total_xp is source of truth for the level.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*profile.Response, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`

	p, err := scanProfile(s.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, err
	}

	level := progress.LevelFromXP(p.TotalXP)
	xp := progress.XPProgress(p.TotalXP)

	return &profile.Response{
		Profile:       *p,
		LevelTitle:    level.Title,
		LevelIcon:     level.Icon,
		XPToNextLevel: xp.RequiredForLevel - xp.CurrentInLevel,
		LevelProgress: xp.Percentage,
	}, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *profile.UpdateRequest) (*profile.Response, error) {
	query := `
	UPDATE users
	SET name = COALESCE(NULLIF($2, ''), name), updated_at = NOW()
	WHERE id = $1
	`

	result, err := s.db.Exec(ctx, query, userID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperr.NotFound("User profile")
	}

	return s.GetProfile(ctx, userID)
}

func (s *ProfileService) GetLevelProgress(ctx context.Context, userID uuid.UUID) (*profile.LevelProgress, error) {
	var totalXP int
	err := s.db.QueryRow(ctx, `SELECT total_xp FROM users WHERE id = $1`, userID).Scan(&totalXP)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User profile")
		}
		return nil, fmt.Errorf("failed to get level progress: %w", err)
	}

	level := progress.LevelFromXP(totalXP)
	xp := progress.XPProgress(totalXP)

	return &profile.LevelProgress{
		CurrentXP:         totalXP,
		CurrentLevel:      level.Level,
		LevelTitle:        level.Title,
		LevelIcon:         level.Icon,
		XPForCurrentLevel: level.MinXP,
		XPToNextLevel:     xp.RequiredForLevel - xp.CurrentInLevel,
		ProgressPercent:   xp.Percentage,
	}, nil
}

// AddXP applies points with a single db-level increment so concurrent grants
// for the same user cannot lose updates, then refreshes the cached level.
func (s *ProfileService) AddXP(ctx context.Context, userID uuid.UUID, points int, source string) error {
	if points <= 0 {
		return nil
	}

	var totalXP int
	query := `
	UPDATE users
	SET total_xp = total_xp + $2, updated_at = NOW()
	WHERE id = $1
	RETURNING total_xp
	`
	err := s.db.QueryRow(ctx, query, userID, points).Scan(&totalXP)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("User profile")
		}
		return fmt.Errorf("failed to add XP: %w", err)
	}

	metrics.AddXPAwarded(source, points)
	s.refreshLevelFromXP(ctx, userID, totalXP)

	return nil
}

// RefreshLevel recomputes the cached current_level column from stored XP.
// The cache is cosmetic; total_xp stays the source of truth either way.
func (s *ProfileService) RefreshLevel(ctx context.Context, userID uuid.UUID) {
	var totalXP int
	if err := s.db.QueryRow(ctx, `SELECT total_xp FROM users WHERE id = $1`, userID).Scan(&totalXP); err != nil {
		log.Printf("RefreshLevel: failed to read XP for %s: %v", userID, err)
		return
	}
	s.refreshLevelFromXP(ctx, userID, totalXP)
}

func (s *ProfileService) refreshLevelFromXP(ctx context.Context, userID uuid.UUID, totalXP int) {
	level := progress.LevelFromXP(totalXP)
	_, err := s.db.Exec(ctx, `UPDATE users SET current_level = $2 WHERE id = $1 AND current_level <> $2`, userID, level.Level)
	if err != nil {
		log.Printf("RefreshLevel: failed to update cached level for %s: %v", userID, err)
	}
}

// SetTotalSaved overwrites the aggregate savings counter; it is recomputed
// from the savings goals after every mutation rather than adjusted
// incrementally.
func (s *ProfileService) SetTotalSaved(ctx context.Context, userID uuid.UUID, amount float64) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET total_saved = $2, updated_at = NOW() WHERE id = $1`, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to update total saved: %w", err)
	}
	return nil
}
