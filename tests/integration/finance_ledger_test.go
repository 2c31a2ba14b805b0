package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeTrackAPI/internal/achievement"
	"lifeTrackAPI/internal/apperr"
	"lifeTrackAPI/internal/finance"
	"lifeTrackAPI/services"
	"lifeTrackAPI/tests/helpers"
	"lifeTrackAPI/utils"
)

func createTestCategory(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, name string) uuid.UUID {
	t.Helper()
	categoryID := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO expense_categories (id, user_id, name, icon, is_default)
		VALUES ($1, $2, $3, '🛒', FALSE)
	`, categoryID, userID, name)
	require.NoError(t, err)
	return categoryID
}

func newFinanceService(pool *pgxpool.Pool) *services.FinanceService {
	profileService := services.NewProfileService(pool)
	achievementsService := services.NewAchievementsService(pool, profileService)
	return services.NewFinanceService(pool, profileService, achievementsService)
}

// TestBudgetVsActualComparison pins the comparison math: spent sums only the
// budget's month and category, and percent used rounds half up.
func TestBudgetVsActualComparison(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	achievementsService := services.NewAchievementsService(pool, profileService)
	financeService := services.NewFinanceService(pool, profileService, achievementsService)

	ctx := context.Background()
	require.NoError(t, achievementsService.SeedCatalog(ctx))

	userID := helpers.CreateTestUser(t, pool)
	categoryID := createTestCategory(t, pool, userID, "Groceries (test)")

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	_, err := financeService.SetBudget(ctx, userID, &finance.SetBudgetRequest{
		CategoryID: categoryID.String(),
		Year:       year,
		Month:      month,
		Amount:     800,
	})
	require.NoError(t, err)

	// Setting the same category and month again replaces the amount.
	b, err := financeService.SetBudget(ctx, userID, &finance.SetBudgetRequest{
		CategoryID: categoryID.String(),
		Year:       year,
		Month:      month,
		Amount:     1000,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, b.Amount)

	budgets, err := financeService.GetBudgets(ctx, userID, year, month)
	require.NoError(t, err)
	require.Len(t, budgets, 1)

	today := utils.FormatDate(now)
	for _, amount := range []float64{600, 150} {
		_, _, err := financeService.CreateExpense(ctx, userID, &finance.CreateExpenseRequest{
			Amount:      amount,
			Description: "Weekly shop",
			CategoryID:  categoryID.String(),
			Date:        today,
		})
		require.NoError(t, err)
	}

	comparison, err := financeService.GetBudgetVsActual(ctx, userID, year, month)
	require.NoError(t, err)
	require.Len(t, comparison, 1)
	assert.Equal(t, categoryID, comparison[0].CategoryID)
	assert.Equal(t, 1000.0, comparison[0].Budgeted)
	assert.Equal(t, 750.0, comparison[0].Spent)
	assert.Equal(t, 250.0, comparison[0].Remaining)
	assert.Equal(t, 75, comparison[0].PercentUsed)

	// An expense in a different month must not count against this budget.
	lastMonth := utils.FormatDate(now.AddDate(0, -1, 0))
	_, _, err = financeService.CreateExpense(ctx, userID, &finance.CreateExpenseRequest{
		Amount:      900,
		Description: "Old shop",
		CategoryID:  categoryID.String(),
		Date:        lastMonth,
	})
	require.NoError(t, err)

	comparison, err = financeService.GetBudgetVsActual(ctx, userID, year, month)
	require.NoError(t, err)
	require.Len(t, comparison, 1)
	assert.Equal(t, 750.0, comparison[0].Spent)
}

// TestBudgetCheckDerivesUnderBudget exercises the monthly review: the unlock
// comes from comparing budgets to recorded spending, not from a caller flag.
func TestBudgetCheckDerivesUnderBudget(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	achievementsService := services.NewAchievementsService(pool, profileService)
	financeService := services.NewFinanceService(pool, profileService, achievementsService)

	ctx := context.Background()
	require.NoError(t, achievementsService.SeedCatalog(ctx))

	userID := helpers.CreateTestUser(t, pool)
	categoryID := createTestCategory(t, pool, userID, "Dining (test)")

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	// A month with no budgets cannot count as under budget.
	result, unlocked, err := financeService.BudgetCheck(ctx, userID, year, month)
	require.NoError(t, err)
	assert.False(t, result.UnderBudget)
	assert.Empty(t, unlocked)

	_, err = financeService.SetBudget(ctx, userID, &finance.SetBudgetRequest{
		CategoryID: categoryID.String(),
		Year:       year,
		Month:      month,
		Amount:     500,
	})
	require.NoError(t, err)

	_, _, err = financeService.CreateExpense(ctx, userID, &finance.CreateExpenseRequest{
		Amount:      300,
		Description: "Dinner out",
		CategoryID:  categoryID.String(),
		Date:        utils.FormatDate(now),
	})
	require.NoError(t, err)

	result, unlocked, err = financeService.BudgetCheck(ctx, userID, year, month)
	require.NoError(t, err)
	assert.True(t, result.UnderBudget)
	assert.True(t, hasAchievement(unlocked, achievement.CodeBudgetBoss))

	// Checking again stays under budget but never unlocks twice.
	result, unlocked, err = financeService.BudgetCheck(ctx, userID, year, month)
	require.NoError(t, err)
	assert.True(t, result.UnderBudget)
	assert.False(t, hasAchievement(unlocked, achievement.CodeBudgetBoss))
}

func TestBudgetCheckOverspentMonth(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	achievementsService := services.NewAchievementsService(pool, profileService)
	financeService := services.NewFinanceService(pool, profileService, achievementsService)

	ctx := context.Background()
	require.NoError(t, achievementsService.SeedCatalog(ctx))

	userID := helpers.CreateTestUser(t, pool)
	categoryID := createTestCategory(t, pool, userID, "Shopping (test)")

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	_, err := financeService.SetBudget(ctx, userID, &finance.SetBudgetRequest{
		CategoryID: categoryID.String(),
		Year:       year,
		Month:      month,
		Amount:     200,
	})
	require.NoError(t, err)

	_, _, err = financeService.CreateExpense(ctx, userID, &finance.CreateExpenseRequest{
		Amount:      350,
		Description: "Impulse buy",
		CategoryID:  categoryID.String(),
		Date:        utils.FormatDate(now),
	})
	require.NoError(t, err)

	result, unlocked, err := financeService.BudgetCheck(ctx, userID, year, month)
	require.NoError(t, err)
	assert.False(t, result.UnderBudget)
	assert.False(t, hasAchievement(unlocked, achievement.CodeBudgetBoss))
}

// TestExpenseLedgerFlow covers CRUD on the expense/income ledger and the
// dashboard aggregates built from it.
func TestExpenseLedgerFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	financeService := newFinanceService(pool)

	ctx := context.Background()
	userID := helpers.CreateTestUser(t, pool)
	categoryID := createTestCategory(t, pool, userID, "Utilities (test)")

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	today := utils.FormatDate(now)

	e, _, err := financeService.CreateExpense(ctx, userID, &finance.CreateExpenseRequest{
		Amount:      120,
		Description: "Electricity bill",
		CategoryID:  categoryID.String(),
		Date:        today,
	})
	require.NoError(t, err)
	assert.Equal(t, "UPI", e.PaymentMethod)
	assert.Equal(t, "Utilities (test)", e.CategoryName)

	newAmount := 140.0
	e, err = financeService.UpdateExpense(ctx, e.ID, userID, &finance.UpdateExpenseRequest{Amount: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, 140.0, e.Amount)
	assert.Equal(t, "Electricity bill", e.Description)

	in, _, err := financeService.CreateIncome(ctx, userID, &finance.CreateIncomeRequest{
		Amount:      1000,
		Description: "Monthly salary",
		Category:    "SALARY",
		Date:        today,
	})
	require.NoError(t, err)
	assert.Equal(t, "SALARY", in.Category)

	dashboard, err := financeService.GetDashboard(ctx, userID, year, month)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, dashboard.TotalIncome)
	assert.Equal(t, 140.0, dashboard.TotalExpenses)
	assert.Equal(t, 860.0, dashboard.NetIncome)
	assert.Equal(t, 86, dashboard.SavingsRate)
	require.Len(t, dashboard.ExpensesByCategory, 1)
	assert.Equal(t, 1, dashboard.ExpensesByCategory[0].Count)
	require.Len(t, dashboard.IncomeBySource, 1)
	assert.Equal(t, "SALARY", dashboard.IncomeBySource[0].Category)

	require.NoError(t, financeService.DeleteExpense(ctx, e.ID, userID))
	_, err = financeService.GetExpenseByID(ctx, e.ID, userID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	summary, err := financeService.GetExpenseSummary(ctx, userID, year, month)
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestCreateExpenseRejectsForeignCategory(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	financeService := newFinanceService(pool)

	ctx := context.Background()
	owner := helpers.CreateTestUser(t, pool)
	stranger := helpers.CreateTestUser(t, pool)
	categoryID := createTestCategory(t, pool, owner, "Private (test)")

	_, _, err := financeService.CreateExpense(ctx, stranger, &finance.CreateExpenseRequest{
		Amount:      50,
		Description: "Sneaky",
		CategoryID:  categoryID.String(),
		Date:        utils.FormatDate(time.Now().UTC()),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
