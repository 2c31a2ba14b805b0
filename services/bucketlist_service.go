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
	"lifeTrackAPI/internal/bucket"
	"lifeTrackAPI/internal/metrics"
	"lifeTrackAPI/internal/progress"
)

type BucketListService struct {
	db                  *pgxpool.Pool
	profileService      *ProfileService
	achievementsService *AchievementsService
}

func NewBucketListService(db *pgxpool.Pool, profileService *ProfileService, achievementsService *AchievementsService) *BucketListService {
	return &BucketListService{
		db:                  db,
		profileService:      profileService,
		achievementsService: achievementsService,
	}
}

const bucketColumns = `id, user_id, title, category, difficulty, is_completed, points_earned, estimated_cost, notes, completed_at, created_at, updated_at`

func scanBucketItem(row pgx.Row) (*bucket.Item, error) {
	item := &bucket.Item{}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Title,
		&item.Category,
		&item.Difficulty,
		&item.IsCompleted,
		&item.PointsEarned,
		&item.EstimatedCost,
		&item.Notes,
		&item.CompletedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func validBucketCategory(c string) bool {
	switch bucket.Category(c) {
	case bucket.CategoryTravel, bucket.CategorySkills, bucket.CategoryExperiences, bucket.CategoryMilestones:
		return true
	}
	return false
}

func (s *BucketListService) GetAll(ctx context.Context, userID uuid.UUID, category string) ([]*bucket.Item, error) {
	query := `SELECT ` + bucketColumns + ` FROM bucket_items WHERE user_id = $1 AND deleted_at IS NULL`
	args := []interface{}{userID}

	if category != "" {
		if !validBucketCategory(category) {
			return nil, apperr.InvalidState("Invalid bucket list category")
		}
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bucket items: %w", err)
	}
	defer rows.Close()

	items := []*bucket.Item{}
	for rows.Next() {
		item, err := scanBucketItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bucket item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bucket items: %w", err)
	}

	return items, nil
}

func (s *BucketListService) GetByID(ctx context.Context, itemID, userID uuid.UUID) (*bucket.Item, error) {
	query := `SELECT ` + bucketColumns + ` FROM bucket_items WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	item, err := scanBucketItem(s.db.QueryRow(ctx, query, itemID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Bucket item")
		}
		return nil, fmt.Errorf("failed to get bucket item: %w", err)
	}
	return item, nil
}

func (s *BucketListService) Create(ctx context.Context, userID uuid.UUID, req *bucket.CreateItemRequest) (*bucket.Item, []achievement.Unlocked, error) {
	if req.Title == "" {
		return nil, nil, apperr.InvalidState("Title is required")
	}
	if !validBucketCategory(req.Category) {
		return nil, nil, apperr.InvalidState("Invalid bucket list category")
	}

	estimatedCost := 0.0
	if req.EstimatedCost != nil {
		estimatedCost = *req.EstimatedCost
	}

	query := `
	INSERT INTO bucket_items (id, user_id, title, category, difficulty, is_completed, points_earned, estimated_cost, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, false, 0, $6, $7, NOW(), NOW())
	RETURNING ` + bucketColumns

	item, err := scanBucketItem(s.db.QueryRow(ctx, query, uuid.New(), userID, req.Title, req.Category, req.Difficulty, estimatedCost, req.Notes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bucket item: %w", err)
	}

	unlocked := s.achievementsService.CheckOverallAchievements(ctx, userID)

	return item, unlocked, nil
}

func (s *BucketListService) Update(ctx context.Context, itemID, userID uuid.UUID, req *bucket.UpdateItemRequest) (*bucket.Item, error) {
	if req.Category != nil && !validBucketCategory(*req.Category) {
		return nil, apperr.InvalidState("Invalid bucket list category")
	}

	query := `
	UPDATE bucket_items
	SET
		title = COALESCE($3, title),
		category = COALESCE($4, category),
		difficulty = COALESCE($5, difficulty),
		estimated_cost = COALESCE($6, estimated_cost),
		notes = COALESCE($7, notes),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	RETURNING ` + bucketColumns

	item, err := scanBucketItem(s.db.QueryRow(ctx, query, itemID, userID, req.Title, req.Category, req.Difficulty, req.EstimatedCost, req.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Bucket item")
		}
		return nil, fmt.Errorf("failed to update bucket item: %w", err)
	}
	return item, nil
}

// Complete marks a bucket item done and pays its difficulty points exactly
// once. The item row is locked so concurrent completions cannot double-pay.
func (s *BucketListService) Complete(ctx context.Context, itemID, userID uuid.UUID, notes *string) (*bucket.Item, int, []achievement.Unlocked, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockQuery := `SELECT ` + bucketColumns + ` FROM bucket_items WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL FOR UPDATE`
	item, err := scanBucketItem(tx.QueryRow(ctx, lockQuery, itemID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, nil, apperr.NotFound("Bucket item")
		}
		return nil, 0, nil, fmt.Errorf("failed to get bucket item: %w", err)
	}

	if item.IsCompleted {
		return nil, 0, nil, apperr.InvalidState("Bucket item is already completed")
	}

	points := progress.BucketPoints(item.Difficulty)

	completeQuery := `
	UPDATE bucket_items
	SET is_completed = true, points_earned = $3, notes = COALESCE($4, notes), completed_at = NOW(), updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + bucketColumns

	item, err = scanBucketItem(tx.QueryRow(ctx, completeQuery, itemID, userID, points, notes))
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to complete bucket item: %w", err)
	}

	var bucketCompleted int
	counterQuery := `
	UPDATE users
	SET total_xp = total_xp + $2, bucket_completed = bucket_completed + 1, updated_at = NOW()
	WHERE id = $1
	RETURNING bucket_completed
	`
	if err := tx.QueryRow(ctx, counterQuery, userID, points).Scan(&bucketCompleted); err != nil {
		return nil, 0, nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.AddXPAwarded("bucket", points)
	s.profileService.RefreshLevel(ctx, userID)

	log.Printf("Bucket item completed: %s (+%d XP)", itemID, points)

	unlocked := s.achievementsService.CheckBucketAchievements(ctx, userID, bucketCompleted)
	unlocked = append(unlocked, s.achievementsService.CheckOverallAchievements(ctx, userID)...)

	return item, points, unlocked, nil
}

func (s *BucketListService) Delete(ctx context.Context, itemID, userID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `UPDATE bucket_items SET deleted_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bucket item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Bucket item")
	}
	return nil
}

func (s *BucketListService) GetStats(ctx context.Context, userID uuid.UUID) (*bucket.Stats, error) {
	query := `
	SELECT category, is_completed, points_earned
	FROM bucket_items
	WHERE user_id = $1 AND deleted_at IS NULL
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bucket stats: %w", err)
	}
	defer rows.Close()

	stats := &bucket.Stats{ByCategory: map[string]int{}}
	for rows.Next() {
		var category string
		var completed bool
		var points int
		if err := rows.Scan(&category, &completed, &points); err != nil {
			return nil, fmt.Errorf("failed to scan bucket stats: %w", err)
		}
		stats.Total++
		stats.ByCategory[category]++
		if completed {
			stats.Completed++
			stats.TotalPoints += points
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bucket stats: %w", err)
	}

	stats.Pending = stats.Total - stats.Completed

	return stats, nil
}
