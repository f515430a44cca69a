package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a financial transaction
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"` // Date only, time part is zero
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
