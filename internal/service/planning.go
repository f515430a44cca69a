package service

import (
	"fmt"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/shopspring/decimal"
)

// reminderWindowDays is how far ahead subscription reminders look
const reminderWindowDays = 3

// GetSavingsGoal retrieves the user's savings goal
func (s *Service) GetSavingsGoal(userID int64) (*models.SavingsGoal, error) {
	return s.repo.GetSavingsGoal(userID)
}

// SetSavingsGoal creates or replaces the user's savings goal target
func (s *Service) SetSavingsGoal(userID int64, amount decimal.Decimal, date time.Time) (*models.SavingsGoal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("goal amount must be positive: %w", ErrInvalid)
	}
	if date.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("goal date must not be in the past: %w", ErrInvalid)
	}

	goal := &models.SavingsGoal{UserID: userID, GoalAmount: amount, GoalDate: date}
	if err := s.repo.UpsertSavingsGoal(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// AddSavings adds an amount to the user's savings goal. Rejects non-positive
// amounts and goals that are already reached.
func (s *Service) AddSavings(userID int64, amount decimal.Decimal) (*models.SavingsGoal, bool, error) {
	if !amount.IsPositive() {
		return nil, false, fmt.Errorf("savings amount must be greater than zero: %w", ErrInvalid)
	}

	goal, err := s.repo.GetSavingsGoal(userID)
	if err != nil {
		return nil, false, err
	}
	if goal.IsReached() {
		return nil, false, fmt.Errorf("goal has already been reached: %w", ErrInvalid)
	}

	updated, err := s.repo.AddSavings(userID, amount)
	if err != nil {
		return nil, false, err
	}
	return updated, updated.IsReached(), nil
}

// CreateSubscription creates a subscription for the user
func (s *Service) CreateSubscription(sub *models.Subscription) error {
	if sub.Name == "" {
		return fmt.Errorf("subscription name is required: %w", ErrInvalid)
	}
	switch sub.Frequency {
	case models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
	default:
		return fmt.Errorf("frequency must be weekly, monthly or yearly: %w", ErrInvalid)
	}
	sub.IsPaid = false
	return s.repo.CreateSubscription(sub)
}

// ListSubscriptions retrieves the user's subscriptions, optionally limited
// to one month
func (s *Service) ListSubscriptions(userID int64, month, year int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(userID, month, year)
}

// ToggleSubscriptionPaid flips a subscription's paid status and returns the
// new value
func (s *Service) ToggleSubscriptionPaid(id, userID int64) (bool, error) {
	sub, err := s.repo.FindSubscriptionByID(id, userID)
	if err != nil {
		return false, err
	}
	if err := s.repo.SetSubscriptionPaid(id, !sub.IsPaid); err != nil {
		return false, err
	}
	return !sub.IsPaid, nil
}

// RemindDueSubscriptions emails every active user whose unpaid subscriptions
// fall due within the reminder window. Send failures are logged per
// subscription and do not stop the remaining reminders.
func (s *Service) RemindDueSubscriptions() error {
	due, err := s.repo.ListDueSubscriptions(reminderWindowDays)
	if err != nil {
		return err
	}

	today := time.Now().Truncate(24 * time.Hour)
	for _, entry := range due {
		sub := entry.Subscription
		overdue := sub.DueDate.Before(today)
		if err := s.mailer.SendSubscriptionReminder(entry.Email, entry.Username,
			sub.Name, sub.Amount, sub.DueDate, overdue); err != nil {
			s.log.WithField("user", entry.Username).Errorf("Failed to send reminder for %s: %v", sub.Name, err)
		}
	}
	s.log.Infof("Processed %d subscription reminders", len(due))
	return nil
}
