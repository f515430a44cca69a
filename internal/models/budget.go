package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBudget represents a per-user spending budget for one month.
// Month is normalized to the first day of the month; (user, month) is unique.
type MonthlyBudget struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Month        time.Time       `json:"month"`
	BudgetAmount decimal.Decimal `json:"budget_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// BudgetStatus reports a budget against actual expenditure for its month
type BudgetStatus struct {
	BudgetAmount    decimal.Decimal `json:"budget_amount"`
	Expenditure     decimal.Decimal `json:"expenditure"`
	IsOverBudget    bool            `json:"is_over_budget"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
}
