package models

// Category represents a transaction category owned by a user.
// Categories carry no explicit kind; the insight pipeline assigns them to
// income/expense/savings/investment buckets by name (see insights.Buckets).
type Category struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}
