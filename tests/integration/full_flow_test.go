package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeTrackAPI/internal/achievement"
	"lifeTrackAPI/internal/apperr"
	"lifeTrackAPI/internal/bucket"
	"lifeTrackAPI/internal/goal"
	"lifeTrackAPI/internal/habit"
	"lifeTrackAPI/services"
	"lifeTrackAPI/tests/helpers"
	"lifeTrackAPI/utils"
)

func newGoalRequest(title string) *goal.CreateGoalRequest {
	start := utils.FormatDate(time.Now().UTC())
	target := utils.FormatDate(time.Now().UTC().AddDate(0, 1, 0))
	return &goal.CreateGoalRequest{
		Title:      title,
		Category:   "PERSONAL",
		Timeline:   "SHORT_TERM",
		Priority:   "HIGH",
		StartDate:  start,
		TargetDate: target,
	}
}

func hasAchievement(unlocked []achievement.Unlocked, code string) bool {
	for _, u := range unlocked {
		if u.Code == code {
			return true
		}
	}
	return false
}

// TestGoalCompletionFlow walks a user through creating and completing goals,
// checking XP grants, level refresh and threshold unlocks along the way.
func TestGoalCompletionFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	achievementsService := services.NewAchievementsService(pool, profileService)
	goalsService := services.NewGoalsService(pool, profileService, achievementsService)

	ctx := context.Background()
	require.NoError(t, achievementsService.SeedCatalog(ctx))

	userID := helpers.CreateTestUser(t, pool)

	g, _, err := goalsService.Create(ctx, userID, newGoalRequest("Run a half marathon"))
	require.NoError(t, err)
	assert.Equal(t, goal.StatusNotStarted, g.Status)

	// SHORT_TERM x HIGH = round(100 * 1.5) = 150
	completed, points, unlocked, err := goalsService.Complete(ctx, g.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 150, points)
	assert.Equal(t, goal.StatusCompleted, completed.Status)
	assert.Equal(t, 150, completed.PointsEarned)
	assert.True(t, hasAchievement(unlocked, achievement.CodeGoalGetter), "first completion should unlock GOAL_GETTER")

	// Completing the same goal again must fail and not pay twice.
	_, _, _, err = goalsService.Complete(ctx, g.ID, userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	profile, err := profileService.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.GoalsCompleted)
	// 150 goal XP + 25 GOAL_GETTER bonus
	assert.Equal(t, 175, profile.TotalXP)

	// Two more completions cross the TRIPLE_THREAT threshold exactly once.
	for i := 0; i < 2; i++ {
		g2, _, err := goalsService.Create(ctx, userID, newGoalRequest("Another goal"))
		require.NoError(t, err)
		_, _, unlocked, err = goalsService.Complete(ctx, g2.ID, userID)
		require.NoError(t, err)
	}
	assert.True(t, hasAchievement(unlocked, achievement.CodeTripleThreat), "third completion should unlock TRIPLE_THREAT")
}

// TestHabitLoggingFlow covers the sticky points rule: toggling a day off and
// back on never pays twice, and streaks are recomputed from the full log set.
func TestHabitLoggingFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	achievementsService := services.NewAchievementsService(pool, profileService)
	habitsService := services.NewHabitsService(pool, profileService, achievementsService)

	ctx := context.Background()
	require.NoError(t, achievementsService.SeedCatalog(ctx))

	userID := helpers.CreateTestUser(t, pool)

	pointsPerDay := 10
	h, _, err := habitsService.Create(ctx, userID, &habit.CreateHabitRequest{
		Name:         "Read 20 pages",
		Type:         "BINARY",
		PointsPerDay: &pointsPerDay,
	})
	require.NoError(t, err)

	today := utils.TodayUTC()

	result, err := habitsService.Log(ctx, h.ID, userID, today, true, nil)
	require.NoError(t, err)
	assert.True(t, result.IsNewCompletion)
	assert.Equal(t, 10, result.PointsEarned)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.True(t, hasAchievement(result.Achievements, achievement.CodeFirstSteps))

	// Toggle off: log row flips but keeps its earned points.
	result, err = habitsService.Log(ctx, h.ID, userID, today, false, nil)
	require.NoError(t, err)
	assert.False(t, result.IsNewCompletion)
	assert.Equal(t, 0, result.PointsEarned)
	assert.Equal(t, 10, result.Log.PointsEarned)
	assert.Equal(t, 0, result.CurrentStreak)

	// Toggle back on: no second grant.
	result, err = habitsService.Log(ctx, h.ID, userID, today, true, nil)
	require.NoError(t, err)
	assert.False(t, result.IsNewCompletion)
	assert.Equal(t, 1, result.CurrentStreak)

	profile, err := profileService.GetProfile(ctx, userID)
	require.NoError(t, err)
	// 10 habit XP + 10 FIRST_STEPS bonus, exactly once
	assert.Equal(t, 20, profile.TotalXP)
	assert.Equal(t, 1, profile.HabitsCompleted)

	// Backfill yesterday to extend the streak.
	result, err = habitsService.Log(ctx, h.ID, userID, today.AddDate(0, 0, -1), true, nil)
	require.NoError(t, err)
	assert.True(t, result.IsNewCompletion)
	assert.Equal(t, 2, result.CurrentStreak)
}

// TestBucketItemCompletion checks single payout and the invalid second
// completion.
func TestBucketItemCompletion(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	achievementsService := services.NewAchievementsService(pool, profileService)
	bucketListService := services.NewBucketListService(pool, profileService, achievementsService)

	ctx := context.Background()
	require.NoError(t, achievementsService.SeedCatalog(ctx))

	userID := helpers.CreateTestUser(t, pool)

	item, _, err := bucketListService.Create(ctx, userID, &bucket.CreateItemRequest{
		Title:      "See the northern lights",
		Category:   "TRAVEL",
		Difficulty: "HARD",
	})
	require.NoError(t, err)

	completed, points, unlocked, err := bucketListService.Complete(ctx, item.ID, userID, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, points)
	assert.True(t, completed.IsCompleted)
	assert.NotNil(t, completed.CompletedAt)
	assert.True(t, hasAchievement(unlocked, achievement.CodeDreamStarter))

	_, _, _, err = bucketListService.Complete(ctx, item.ID, userID, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}
