package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal represents a user's savings target. One goal per user.
type SavingsGoal struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	GoalAmount     decimal.Decimal `json:"goal_amount"`
	GoalDate       time.Time       `json:"goal_date"`
	CurrentSavings decimal.Decimal `json:"current_savings"`
}

// IsReached reports whether current savings meet or exceed the goal
func (g *SavingsGoal) IsReached() bool {
	return g.CurrentSavings.GreaterThanOrEqual(g.GoalAmount)
}

// Remaining returns the amount still needed to reach the goal, never negative
func (g *SavingsGoal) Remaining() decimal.Decimal {
	remaining := g.GoalAmount.Sub(g.CurrentSavings)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
