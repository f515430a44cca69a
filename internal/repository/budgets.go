package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/shopspring/decimal"
)

// CreateBudget creates a monthly budget. The (user, month) pair is unique;
// callers should check FindBudgetByMonth first to return a friendly error.
func (r *Repository) CreateBudget(budget *models.MonthlyBudget) error {
	query := `
		INSERT INTO monthly_budgets (user_id, month, budget_amount, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, budget.UserID, budget.Month, budget.BudgetAmount).
		Scan(&budget.ID, &budget.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// FindBudgetByMonth retrieves a user's budget for the calendar month
// containing the given date
func (r *Repository) FindBudgetByMonth(userID int64, month time.Time) (*models.MonthlyBudget, error) {
	budget := &models.MonthlyBudget{}
	query := `
		SELECT id, user_id, month, budget_amount, created_at
		FROM monthly_budgets
		WHERE user_id = $1 AND date_trunc('month', month) = date_trunc('month', $2::date)`
	err := r.db.QueryRow(query, userID, month).
		Scan(&budget.ID, &budget.UserID, &budget.Month, &budget.BudgetAmount, &budget.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("budget for %s: %w", month.Format("2006-01"), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	return budget, nil
}

// GetSavingsGoal retrieves a user's savings goal
func (r *Repository) GetSavingsGoal(userID int64) (*models.SavingsGoal, error) {
	goal := &models.SavingsGoal{}
	query := `
		SELECT id, user_id, goal_amount, goal_date, current_savings
		FROM savings_goals
		WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).
		Scan(&goal.ID, &goal.UserID, &goal.GoalAmount, &goal.GoalDate, &goal.CurrentSavings)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("savings goal: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find savings goal: %w", err)
	}
	return goal, nil
}

// UpsertSavingsGoal creates a user's savings goal or replaces its target
// amount and date, preserving accumulated savings
func (r *Repository) UpsertSavingsGoal(goal *models.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (user_id, goal_amount, goal_date, current_savings)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (user_id)
		DO UPDATE SET goal_amount = EXCLUDED.goal_amount, goal_date = EXCLUDED.goal_date
		RETURNING id, current_savings`
	err := r.db.QueryRow(query, goal.UserID, goal.GoalAmount, goal.GoalDate).
		Scan(&goal.ID, &goal.CurrentSavings)
	if err != nil {
		return fmt.Errorf("failed to upsert savings goal: %w", err)
	}
	return nil
}

// AddSavings adds an amount to a user's accumulated savings and returns the
// updated goal
func (r *Repository) AddSavings(userID int64, amount decimal.Decimal) (*models.SavingsGoal, error) {
	goal := &models.SavingsGoal{}
	query := `
		UPDATE savings_goals
		SET current_savings = current_savings + $2
		WHERE user_id = $1
		RETURNING id, user_id, goal_amount, goal_date, current_savings`
	err := r.db.QueryRow(query, userID, amount).
		Scan(&goal.ID, &goal.UserID, &goal.GoalAmount, &goal.GoalDate, &goal.CurrentSavings)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("savings goal: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add savings: %w", err)
	}
	return goal, nil
}

// CreateSubscription creates a new subscription
func (r *Repository) CreateSubscription(sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, name, amount, frequency, payment_method, due_date, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id, is_paid`
	err := r.db.QueryRow(query, sub.UserID, sub.Name, sub.Amount, sub.Frequency,
		sub.PaymentMethod, sub.DueDate).Scan(&sub.ID, &sub.IsPaid)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// ListSubscriptions retrieves a user's subscriptions, optionally limited to
// those due in a specific month and year (both must be non-zero to apply)
func (r *Repository) ListSubscriptions(userID int64, month, year int) ([]*models.Subscription, error) {
	query := `
		SELECT id, user_id, name, amount, frequency, payment_method, due_date, is_paid
		FROM subscriptions
		WHERE user_id = $1`
	args := []interface{}{userID}
	if month > 0 && year > 0 {
		args = append(args, month, year)
		query += " AND EXTRACT(MONTH FROM due_date) = $2 AND EXTRACT(YEAR FROM due_date) = $3"
	}
	query += " ORDER BY due_date"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{}
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Amount, &sub.Frequency,
			&sub.PaymentMethod, &sub.DueDate, &sub.IsPaid); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// FindSubscriptionByID retrieves a subscription owned by the given user
func (r *Repository) FindSubscriptionByID(id, userID int64) (*models.Subscription, error) {
	sub := &models.Subscription{}
	query := `
		SELECT id, user_id, name, amount, frequency, payment_method, due_date, is_paid
		FROM subscriptions
		WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRow(query, id, userID).
		Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Amount, &sub.Frequency,
			&sub.PaymentMethod, &sub.DueDate, &sub.IsPaid)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("subscription %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return sub, nil
}

// SetSubscriptionPaid updates a subscription's paid flag
func (r *Repository) SetSubscriptionPaid(id int64, paid bool) error {
	_, err := r.db.Exec(`UPDATE subscriptions SET is_paid = $2 WHERE id = $1`, id, paid)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

// DueSubscription pairs a subscription with its owner's contact details for
// reminder emails
type DueSubscription struct {
	Subscription models.Subscription
	Username     string
	Email        string
}

// ListDueSubscriptions retrieves unpaid subscriptions due within the given
// number of days, joined with the owning user's contact details
func (r *Repository) ListDueSubscriptions(withinDays int) ([]*DueSubscription, error) {
	query := `
		SELECT s.id, s.user_id, s.name, s.amount, s.frequency, s.payment_method, s.due_date, s.is_paid,
		       u.username, u.email
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE s.is_paid = FALSE
		  AND u.is_active = TRUE
		  AND s.due_date <= CURRENT_DATE + $1 * INTERVAL '1 day'
		ORDER BY s.due_date`
	rows, err := r.db.Query(query, withinDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list due subscriptions: %w", err)
	}
	defer rows.Close()

	var due []*DueSubscription
	for rows.Next() {
		entry := &DueSubscription{}
		sub := &entry.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Amount, &sub.Frequency,
			&sub.PaymentMethod, &sub.DueDate, &sub.IsPaid, &entry.Username, &entry.Email); err != nil {
			return nil, fmt.Errorf("failed to scan due subscription: %w", err)
		}
		due = append(due, entry)
	}
	return due, rows.Err()
}
