package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNextDueDate(t *testing.T) {
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		frequency string
		want      time.Time
	}{
		{FrequencyWeekly, due.AddDate(0, 0, 7)},
		{FrequencyMonthly, due.AddDate(0, 0, 30)},
		{FrequencyYearly, due.AddDate(0, 0, 365)},
		{"daily", due},
		{"", due},
	}

	for _, tt := range tests {
		t.Run(tt.frequency, func(t *testing.T) {
			sub := &Subscription{Frequency: tt.frequency, DueDate: due}
			if got := sub.NextDueDate(); !got.Equal(tt.want) {
				t.Errorf("NextDueDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSavingsGoalIsReached(t *testing.T) {
	tests := []struct {
		name    string
		goal    string
		current string
		want    bool
	}{
		{"below goal", "1000", "999.99", false},
		{"exactly at goal", "1000", "1000", true},
		{"above goal", "1000", "1200", true},
		{"zero goal", "0", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := &SavingsGoal{
				GoalAmount:     decimal.RequireFromString(tt.goal),
				CurrentSavings: decimal.RequireFromString(tt.current),
			}
			if got := goal.IsReached(); got != tt.want {
				t.Errorf("IsReached() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSavingsGoalRemaining(t *testing.T) {
	goal := &SavingsGoal{
		GoalAmount:     decimal.NewFromInt(500),
		CurrentSavings: decimal.NewFromInt(120),
	}
	if got := goal.Remaining(); !got.Equal(decimal.NewFromInt(380)) {
		t.Errorf("Remaining() = %s, want 380", got)
	}

	goal.CurrentSavings = decimal.NewFromInt(600)
	if got := goal.Remaining(); !got.Equal(decimal.Zero) {
		t.Errorf("Remaining() past the goal = %s, want 0", got)
	}
}
