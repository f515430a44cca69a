package models

import "github.com/shopspring/decimal"

// FinancialMetrics represents a user's aggregated financials over the
// trailing 30-day window. Computed fresh per pipeline run, never persisted.
type FinancialMetrics struct {
	Username          string          `json:"username"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	TotalSavings      decimal.Decimal `json:"total_savings"`
	TotalInvestments  decimal.Decimal `json:"total_investments"`
	SavingsRate       decimal.Decimal `json:"savings_rate"`         // percent; 0 when income is 0
	NetIncome         decimal.Decimal `json:"net_income"`           // income - expenses
	DebtToIncomeRatio decimal.Decimal `json:"debt_to_income_ratio"` // percent; 0 when income is 0
}

// ExternalContext holds best-effort external economic indicators.
// Zero means unavailable; partial or total absence is valid.
type ExternalContext struct {
	InflationRate float64 `json:"inflation_rate"`
	StockIndex    float64 `json:"stock_index"`
}

// TransactionSummary aggregates a user's overall income and spending
type TransactionSummary struct {
	Incomes       decimal.Decimal `json:"incomes"`
	Expenses      decimal.Decimal `json:"expenses"`
	TopCategories []CategorySpend `json:"top_categories"`
}

// CategorySpend is one entry of the top-spending-categories breakdown
type CategorySpend struct {
	Category   string          `json:"category"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}
