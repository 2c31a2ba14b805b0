package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lifeTrackAPI/internal/achievement"
	"lifeTrackAPI/internal/apperr"
	"lifeTrackAPI/internal/finance"
	"lifeTrackAPI/utils"
)

// Expense/income ledger and monthly budgets. All reads scope to the user and
// skip soft-deleted rows; budgets upsert on (user, category, year, month).

const expenseColumns = `e.id, e.user_id, e.category_id, c.name, c.icon, e.amount, e.description, e.date, e.payment_method, e.notes, e.created_at, e.updated_at`

const expenseFrom = ` FROM expenses e JOIN expense_categories c ON c.id = e.category_id `

func scanExpense(row pgx.Row) (*finance.Expense, error) {
	e := &finance.Expense{}
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.CategoryID,
		&e.CategoryName,
		&e.CategoryIcon,
		&e.Amount,
		&e.Description,
		&e.Date,
		&e.PaymentMethod,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func scanIncome(row pgx.Row) (*finance.Income, error) {
	in := &finance.Income{}
	err := row.Scan(
		&in.ID,
		&in.UserID,
		&in.Amount,
		&in.Description,
		&in.Category,
		&in.Date,
		&in.Notes,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return in, nil
}

const incomeColumns = `id, user_id, amount, description, category, date, notes, created_at, updated_at`

func validIncomeCategory(category string) bool {
	for _, c := range finance.IncomeCategories {
		if c == category {
			return true
		}
	}
	return false
}

func validPaymentMethod(method string) bool {
	for _, m := range finance.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

func validBudgetMonth(year, month int) error {
	if month < 1 || month > 12 {
		return apperr.InvalidState("Month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return apperr.InvalidState("Year is out of range")
	}
	return nil
}

// GetCategories returns the shared default categories plus the user's own.
func (s *FinanceService) GetCategories(ctx context.Context, userID uuid.UUID) ([]*finance.ExpenseCategory, error) {
	query := `
	SELECT id, user_id, name, icon, budget_limit, is_default, created_at
	FROM expense_categories
	WHERE is_default OR user_id = $1
	ORDER BY is_default DESC, name
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense categories: %w", err)
	}
	defer rows.Close()

	categories := []*finance.ExpenseCategory{}
	for rows.Next() {
		c := &finance.ExpenseCategory{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.BudgetLimit, &c.IsDefault, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense category: %w", err)
		}
		categories = append(categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense categories: %w", err)
	}

	return categories, nil
}

// resolveCategory parses a category ID and verifies the user may file expenses
// under it (a shared default or one of their own).
func (s *FinanceService) resolveCategory(ctx context.Context, userID uuid.UUID, rawID string) (uuid.UUID, error) {
	categoryID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, apperr.InvalidState("Invalid category ID")
	}

	var usable bool
	err = s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM expense_categories WHERE id = $1 AND (is_default OR user_id = $2))`, categoryID, userID).Scan(&usable)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !usable {
		return uuid.Nil, apperr.NotFound("Expense category")
	}
	return categoryID, nil
}

func (s *FinanceService) GetExpenses(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]*finance.Expense, error) {
	query := `SELECT ` + expenseColumns + expenseFrom + `
	WHERE e.user_id = $1 AND e.deleted_at IS NULL
	  AND ($2::uuid IS NULL OR e.category_id = $2)
	ORDER BY e.date DESC, e.created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*finance.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

func (s *FinanceService) GetExpenseByID(ctx context.Context, expenseID, userID uuid.UUID) (*finance.Expense, error) {
	query := `SELECT ` + expenseColumns + expenseFrom + `WHERE e.id = $1 AND e.user_id = $2 AND e.deleted_at IS NULL`

	e, err := scanExpense(s.db.QueryRow(ctx, query, expenseID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Expense")
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

func (s *FinanceService) CreateExpense(ctx context.Context, userID uuid.UUID, req *finance.CreateExpenseRequest) (*finance.Expense, []achievement.Unlocked, error) {
	if req.Amount <= 0 {
		return nil, nil, apperr.InvalidState("Amount must be positive")
	}
	if req.Description == "" {
		return nil, nil, apperr.InvalidState("Description is required")
	}

	categoryID, err := s.resolveCategory(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, nil, err
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, nil, apperr.InvalidState("Invalid date, expected YYYY-MM-DD")
	}

	paymentMethod := "UPI"
	if req.PaymentMethod != nil {
		if !validPaymentMethod(*req.PaymentMethod) {
			return nil, nil, apperr.InvalidState("Invalid payment method")
		}
		paymentMethod = *req.PaymentMethod
	}

	expenseID := uuid.New()
	_, err = s.db.Exec(ctx, `
		INSERT INTO expenses (id, user_id, category_id, amount, description, date, payment_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`, expenseID, userID, categoryID, req.Amount, req.Description, date, paymentMethod, req.Notes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create expense: %w", err)
	}

	e, err := s.GetExpenseByID(ctx, expenseID, userID)
	if err != nil {
		return nil, nil, err
	}

	unlocked := s.achievementsService.CheckOverallAchievements(ctx, userID)
	return e, unlocked, nil
}

func (s *FinanceService) UpdateExpense(ctx context.Context, expenseID, userID uuid.UUID, req *finance.UpdateExpenseRequest) (*finance.Expense, error) {
	if req.Amount != nil && *req.Amount <= 0 {
		return nil, apperr.InvalidState("Amount must be positive")
	}
	if req.PaymentMethod != nil && !validPaymentMethod(*req.PaymentMethod) {
		return nil, apperr.InvalidState("Invalid payment method")
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil {
		id, err := s.resolveCategory(ctx, userID, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		categoryID = &id
	}

	var date *string
	if req.Date != nil {
		if _, err := utils.ParseDate(*req.Date); err != nil {
			return nil, apperr.InvalidState("Invalid date, expected YYYY-MM-DD")
		}
		date = req.Date
	}

	result, err := s.db.Exec(ctx, `
		UPDATE expenses
		SET
			amount = COALESCE($3, amount),
			description = COALESCE($4, description),
			category_id = COALESCE($5, category_id),
			date = COALESCE($6::date, date),
			payment_method = COALESCE($7, payment_method),
			notes = COALESCE($8, notes),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, expenseID, userID, req.Amount, req.Description, categoryID, date, req.PaymentMethod, req.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperr.NotFound("Expense")
	}

	return s.GetExpenseByID(ctx, expenseID, userID)
}

func (s *FinanceService) DeleteExpense(ctx context.Context, expenseID, userID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `UPDATE expenses SET deleted_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, expenseID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Expense")
	}
	return nil
}

// GetExpenseSummary totals one month's expenses per category.
func (s *FinanceService) GetExpenseSummary(ctx context.Context, userID uuid.UUID, year, month int) ([]finance.ExpenseSummaryRow, error) {
	if err := validBudgetMonth(year, month); err != nil {
		return nil, err
	}

	query := `
	SELECT e.category_id, c.name, c.icon, COALESCE(SUM(e.amount), 0), COUNT(*)
	` + expenseFrom + `
	WHERE e.user_id = $1 AND e.deleted_at IS NULL
	  AND e.date >= make_date($2, $3, 1)
	  AND e.date < make_date($2, $3, 1) + INTERVAL '1 month'
	GROUP BY e.category_id, c.name, c.icon
	ORDER BY 4 DESC
	`

	rows, err := s.db.Query(ctx, query, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense summary: %w", err)
	}
	defer rows.Close()

	summary := []finance.ExpenseSummaryRow{}
	for rows.Next() {
		var row finance.ExpenseSummaryRow
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.CategoryIcon, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan expense summary: %w", err)
		}
		summary = append(summary, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense summary: %w", err)
	}

	return summary, nil
}

func (s *FinanceService) GetIncomes(ctx context.Context, userID uuid.UUID, category string) ([]*finance.Income, error) {
	if category != "" && !validIncomeCategory(category) {
		return nil, apperr.InvalidState("Invalid income category")
	}

	query := `
	SELECT ` + incomeColumns + `
	FROM incomes
	WHERE user_id = $1 AND deleted_at IS NULL
	  AND ($2 = '' OR category = $2)
	ORDER BY date DESC, created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incomes: %w", err)
	}
	defer rows.Close()

	incomes := []*finance.Income{}
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, in)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incomes: %w", err)
	}

	return incomes, nil
}

func (s *FinanceService) GetIncomeByID(ctx context.Context, incomeID, userID uuid.UUID) (*finance.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	in, err := scanIncome(s.db.QueryRow(ctx, query, incomeID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Income")
		}
		return nil, fmt.Errorf("failed to get income: %w", err)
	}
	return in, nil
}

func (s *FinanceService) CreateIncome(ctx context.Context, userID uuid.UUID, req *finance.CreateIncomeRequest) (*finance.Income, []achievement.Unlocked, error) {
	if req.Amount <= 0 {
		return nil, nil, apperr.InvalidState("Amount must be positive")
	}
	if req.Description == "" {
		return nil, nil, apperr.InvalidState("Description is required")
	}
	if !validIncomeCategory(req.Category) {
		return nil, nil, apperr.InvalidState("Invalid income category")
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, nil, apperr.InvalidState("Invalid date, expected YYYY-MM-DD")
	}

	query := `
	INSERT INTO incomes (id, user_id, amount, description, category, date, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	RETURNING ` + incomeColumns

	in, err := scanIncome(s.db.QueryRow(ctx, query, uuid.New(), userID, req.Amount, req.Description, req.Category, date, req.Notes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create income: %w", err)
	}

	unlocked := s.achievementsService.CheckOverallAchievements(ctx, userID)
	return in, unlocked, nil
}

func (s *FinanceService) UpdateIncome(ctx context.Context, incomeID, userID uuid.UUID, req *finance.UpdateIncomeRequest) (*finance.Income, error) {
	if req.Amount != nil && *req.Amount <= 0 {
		return nil, apperr.InvalidState("Amount must be positive")
	}
	if req.Category != nil && !validIncomeCategory(*req.Category) {
		return nil, apperr.InvalidState("Invalid income category")
	}

	var date *string
	if req.Date != nil {
		if _, err := utils.ParseDate(*req.Date); err != nil {
			return nil, apperr.InvalidState("Invalid date, expected YYYY-MM-DD")
		}
		date = req.Date
	}

	query := `
	UPDATE incomes
	SET
		amount = COALESCE($3, amount),
		description = COALESCE($4, description),
		category = COALESCE($5, category),
		date = COALESCE($6::date, date),
		notes = COALESCE($7, notes),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	RETURNING ` + incomeColumns

	in, err := scanIncome(s.db.QueryRow(ctx, query, incomeID, userID, req.Amount, req.Description, req.Category, date, req.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Income")
		}
		return nil, fmt.Errorf("failed to update income: %w", err)
	}
	return in, nil
}

func (s *FinanceService) DeleteIncome(ctx context.Context, incomeID, userID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `UPDATE incomes SET deleted_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, incomeID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Income")
	}
	return nil
}

// GetIncomeSummary totals one month's income per source category.
func (s *FinanceService) GetIncomeSummary(ctx context.Context, userID uuid.UUID, year, month int) ([]finance.IncomeSummaryRow, error) {
	if err := validBudgetMonth(year, month); err != nil {
		return nil, err
	}

	query := `
	SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
	FROM incomes
	WHERE user_id = $1 AND deleted_at IS NULL
	  AND date >= make_date($2, $3, 1)
	  AND date < make_date($2, $3, 1) + INTERVAL '1 month'
	GROUP BY category
	ORDER BY 2 DESC
	`

	rows, err := s.db.Query(ctx, query, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income summary: %w", err)
	}
	defer rows.Close()

	summary := []finance.IncomeSummaryRow{}
	for rows.Next() {
		var row finance.IncomeSummaryRow
		if err := rows.Scan(&row.Category, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan income summary: %w", err)
		}
		summary = append(summary, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income summary: %w", err)
	}

	return summary, nil
}

const budgetColumns = `b.id, b.user_id, b.category_id, c.name, c.icon, b.year, b.month, b.amount, b.created_at, b.updated_at`

func scanBudget(row pgx.Row) (*finance.Budget, error) {
	b := &finance.Budget{}
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.CategoryID,
		&b.CategoryName,
		&b.CategoryIcon,
		&b.Year,
		&b.Month,
		&b.Amount,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *FinanceService) GetBudgets(ctx context.Context, userID uuid.UUID, year, month int) ([]*finance.Budget, error) {
	if err := validBudgetMonth(year, month); err != nil {
		return nil, err
	}

	query := `
	SELECT ` + budgetColumns + `
	FROM budgets b JOIN expense_categories c ON c.id = b.category_id
	WHERE b.user_id = $1 AND b.year = $2 AND b.month = $3
	ORDER BY c.name
	`

	rows, err := s.db.Query(ctx, query, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch budgets: %w", err)
	}
	defer rows.Close()

	budgets := []*finance.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// SetBudget creates or replaces the budget for a category and month.
func (s *FinanceService) SetBudget(ctx context.Context, userID uuid.UUID, req *finance.SetBudgetRequest) (*finance.Budget, error) {
	if req.Amount <= 0 {
		return nil, apperr.InvalidState("Amount must be positive")
	}
	if err := validBudgetMonth(req.Year, req.Month); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	var budgetID uuid.UUID
	err = s.db.QueryRow(ctx, `
		INSERT INTO budgets (id, user_id, category_id, year, month, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id, category_id, year, month)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING id
	`, uuid.New(), userID, categoryID, req.Year, req.Month, req.Amount).Scan(&budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to set budget: %w", err)
	}

	query := `
	SELECT ` + budgetColumns + `
	FROM budgets b JOIN expense_categories c ON c.id = b.category_id
	WHERE b.id = $1
	`
	b, err := scanBudget(s.db.QueryRow(ctx, query, budgetID))
	if err != nil {
		return nil, fmt.Errorf("failed to read back budget: %w", err)
	}
	return b, nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, budgetID, userID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Budget")
	}
	return nil
}

// GetBudgetVsActual compares each budgeted category against the month's
// recorded spending in it.
func (s *FinanceService) GetBudgetVsActual(ctx context.Context, userID uuid.UUID, year, month int) ([]finance.BudgetVsActual, error) {
	if err := validBudgetMonth(year, month); err != nil {
		return nil, err
	}

	query := `
	SELECT b.category_id, c.name, c.icon, b.amount,
		COALESCE((
			SELECT SUM(e.amount) FROM expenses e
			WHERE e.user_id = b.user_id AND e.category_id = b.category_id
			  AND e.deleted_at IS NULL
			  AND e.date >= make_date(b.year, b.month, 1)
			  AND e.date < make_date(b.year, b.month, 1) + INTERVAL '1 month'
		), 0)
	FROM budgets b JOIN expense_categories c ON c.id = b.category_id
	WHERE b.user_id = $1 AND b.year = $2 AND b.month = $3
	ORDER BY c.name
	`

	rows, err := s.db.Query(ctx, query, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch budget comparison: %w", err)
	}
	defer rows.Close()

	comparison := []finance.BudgetVsActual{}
	for rows.Next() {
		var row finance.BudgetVsActual
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.CategoryIcon, &row.Budgeted, &row.Spent); err != nil {
			return nil, fmt.Errorf("failed to scan budget comparison: %w", err)
		}
		row.Remaining = row.Budgeted - row.Spent
		if row.Budgeted > 0 {
			row.PercentUsed = int(math.Round(row.Spent / row.Budgeted * 100))
		}
		comparison = append(comparison, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget comparison: %w", err)
	}

	return comparison, nil
}

// GetDashboard aggregates one month of finance data: ledger totals, per
// category breakdowns, budget comparison and savings.
func (s *FinanceService) GetDashboard(ctx context.Context, userID uuid.UUID, year, month int) (*finance.Dashboard, error) {
	if err := validBudgetMonth(year, month); err != nil {
		return nil, err
	}

	d := &finance.Dashboard{Year: year, Month: month}

	query := `
	SELECT
		COALESCE((SELECT SUM(amount) FROM incomes
			WHERE user_id = $1 AND deleted_at IS NULL
			  AND date >= make_date($2, $3, 1)
			  AND date < make_date($2, $3, 1) + INTERVAL '1 month'), 0),
		COALESCE((SELECT SUM(amount) FROM expenses
			WHERE user_id = $1 AND deleted_at IS NULL
			  AND date >= make_date($2, $3, 1)
			  AND date < make_date($2, $3, 1) + INTERVAL '1 month'), 0)
	`
	if err := s.db.QueryRow(ctx, query, userID, year, month).Scan(&d.TotalIncome, &d.TotalExpenses); err != nil {
		return nil, fmt.Errorf("failed to get dashboard totals: %w", err)
	}

	d.NetIncome = d.TotalIncome - d.TotalExpenses
	if d.TotalIncome > 0 {
		d.SavingsRate = int(math.Round(d.NetIncome / d.TotalIncome * 100))
	}

	var err error
	if d.ExpensesByCategory, err = s.GetExpenseSummary(ctx, userID, year, month); err != nil {
		return nil, err
	}
	if d.IncomeBySource, err = s.GetIncomeSummary(ctx, userID, year, month); err != nil {
		return nil, err
	}
	if d.BudgetVsActual, err = s.GetBudgetVsActual(ctx, userID, year, month); err != nil {
		return nil, err
	}
	if d.Savings, err = s.GetStats(ctx, userID); err != nil {
		return nil, err
	}

	return d, nil
}
