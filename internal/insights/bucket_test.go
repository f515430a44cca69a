package insights

import (
	"reflect"
	"testing"
)

func TestBuckets(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     []BucketKind
	}{
		{"income keyword", "Income", []BucketKind{BucketIncome}},
		{"income substring", "Weekly Income Bonus", []BucketKind{BucketIncome}},
		{"case insensitive", "extra INCOME source", []BucketKind{BucketIncome}},
		{"expense", "Monthly Expenses", []BucketKind{BucketExpense}},
		{"savings", "Emergency Savings", []BucketKind{BucketSavings}},
		{"investment", "Stock Investments", []BucketKind{BucketInvestment}},
		{"multiple keywords", "Investment Savings", []BucketKind{BucketSavings, BucketInvestment}},
		{"no match", "Groceries", nil},
		{"empty name", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Buckets(tt.category); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Buckets(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}
