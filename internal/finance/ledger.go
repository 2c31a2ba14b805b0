package finance

import (
	"time"

	"github.com/google/uuid"
)

// Income source categories and expense payment methods accepted by the ledger.
var (
	IncomeCategories = []string{"SALARY", "FREELANCE", "INVESTMENTS", "GIFTS", "BONUS", "OTHER"}
	PaymentMethods   = []string{"CASH", "UPI", "CREDIT_CARD", "DEBIT_CARD", "BANK_TRANSFER"}
)

// ExpenseCategory is either a shared default (user_id is null) or a
// user-created category.
type ExpenseCategory struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Name        string     `json:"name" db:"name"`
	Icon        string     `json:"icon" db:"icon"`
	BudgetLimit *float64   `json:"budget_limit,omitempty" db:"budget_limit"`
	IsDefault   bool       `json:"is_default" db:"is_default"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type Expense struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	CategoryID    uuid.UUID `json:"category_id" db:"category_id"`
	CategoryName  string    `json:"category_name" db:"category_name"`
	CategoryIcon  string    `json:"category_icon" db:"category_icon"`
	Amount        float64   `json:"amount" db:"amount"`
	Description   string    `json:"description" db:"description"`
	Date          time.Time `json:"date" db:"date"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type Income struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Date        time.Time `json:"date" db:"date"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Budget struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	CategoryID   uuid.UUID `json:"category_id" db:"category_id"`
	CategoryName string    `json:"category_name" db:"category_name"`
	CategoryIcon string    `json:"category_icon" db:"category_icon"`
	Year         int       `json:"year" db:"year"`
	Month        int       `json:"month" db:"month"`
	Amount       float64   `json:"amount" db:"amount"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// BudgetVsActual compares one month's budget for a category against the
// expenses actually recorded in it.
type BudgetVsActual struct {
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CategoryIcon string    `json:"category_icon"`
	Budgeted     float64   `json:"budgeted"`
	Spent        float64   `json:"spent"`
	Remaining    float64   `json:"remaining"`
	PercentUsed  int       `json:"percent_used"`
}

type ExpenseSummaryRow struct {
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CategoryIcon string    `json:"category_icon"`
	Total        float64   `json:"total"`
	Count        int       `json:"count"`
}

type IncomeSummaryRow struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// Dashboard aggregates one month of finance data.
type Dashboard struct {
	Year               int                 `json:"year"`
	Month              int                 `json:"month"`
	TotalIncome        float64             `json:"total_income"`
	TotalExpenses      float64             `json:"total_expenses"`
	NetIncome          float64             `json:"net_income"`
	SavingsRate        int                 `json:"savings_rate"`
	ExpensesByCategory []ExpenseSummaryRow `json:"expenses_by_category"`
	IncomeBySource     []IncomeSummaryRow  `json:"income_by_source"`
	BudgetVsActual     []BudgetVsActual    `json:"budget_vs_actual"`
	Savings            *SavingsStats       `json:"savings"`
}

type CreateExpenseRequest struct {
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	CategoryID    string  `json:"categoryId"`
	Date          string  `json:"date"`
	PaymentMethod *string `json:"paymentMethod"`
	Notes         *string `json:"notes"`
}

type UpdateExpenseRequest struct {
	Amount        *float64 `json:"amount"`
	Description   *string  `json:"description"`
	CategoryID    *string  `json:"categoryId"`
	Date          *string  `json:"date"`
	PaymentMethod *string  `json:"paymentMethod"`
	Notes         *string  `json:"notes"`
}

type CreateIncomeRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Notes       *string `json:"notes"`
}

type UpdateIncomeRequest struct {
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Date        *string  `json:"date"`
	Notes       *string  `json:"notes"`
}

type SetBudgetRequest struct {
	CategoryID string  `json:"categoryId"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Amount     float64 `json:"amount"`
}
