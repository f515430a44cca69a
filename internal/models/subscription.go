package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription frequencies
const (
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Subscription represents a recurring payment tracked by a user
type Subscription struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     string          `json:"frequency"`
	PaymentMethod string          `json:"payment_method"`
	DueDate       time.Time       `json:"due_date"`
	IsPaid        bool            `json:"is_paid"`
}

// NextDueDate calculates the next due date based on frequency.
// Unknown frequencies return the current due date unchanged.
func (s *Subscription) NextDueDate() time.Time {
	switch s.Frequency {
	case FrequencyWeekly:
		return s.DueDate.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return s.DueDate.AddDate(0, 0, 30)
	case FrequencyYearly:
		return s.DueDate.AddDate(0, 0, 365)
	}
	return s.DueDate
}
