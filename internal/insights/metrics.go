package insights

import (
	"fmt"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/shopspring/decimal"
)

// Store is the subset of repository operations the pipeline needs
type Store interface {
	FindUserByUsername(username string) (*models.User, error)
	ListActiveUsers() ([]*models.User, error)
	ListCategories(userID int64) ([]*models.Category, error)
	SumTransactionsByCategories(userID int64, categoryIDs []int64, since time.Time) (decimal.Decimal, error)
	CreateInsight(insight *models.Insight) error
}

// Aggregator computes a user's financial metrics over the trailing window
type Aggregator struct {
	store Store
	now   func() time.Time
}

// NewAggregator initializes a new metrics aggregator
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

var hundred = decimal.NewFromInt(100)

// Compute aggregates a user's transactions over the last 30 days into a
// metrics record. The window runs from the invocation date minus 30 days,
// inclusive, so a transaction dated exactly on the lower bound counts
// regardless of the time of day the pipeline runs. Buckets with no matching
// categories sum to zero; zero income forces the derived rates to zero so
// there is no division by zero.
func (a *Aggregator) Compute(user *models.User) (*models.FinancialMetrics, error) {
	categories, err := a.store.ListCategories(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	buckets := make(map[BucketKind][]int64)
	for _, category := range categories {
		for _, kind := range Buckets(category.Name) {
			buckets[kind] = append(buckets[kind], category.ID)
		}
	}

	now := a.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -30)
	sums := make(map[BucketKind]decimal.Decimal)
	for _, kind := range bucketOrder {
		sum, err := a.store.SumTransactionsByCategories(user.ID, buckets[kind], since)
		if err != nil {
			return nil, fmt.Errorf("failed to sum %s transactions: %w", bucketKeywords[kind], err)
		}
		sums[kind] = sum
	}

	metrics := &models.FinancialMetrics{
		Username:         user.Username,
		TotalIncome:      sums[BucketIncome],
		TotalExpenses:    sums[BucketExpense],
		TotalSavings:     sums[BucketSavings],
		TotalInvestments: sums[BucketInvestment],
		NetIncome:        sums[BucketIncome].Sub(sums[BucketExpense]),
	}
	if metrics.TotalIncome.IsPositive() {
		metrics.SavingsRate = metrics.TotalSavings.Div(metrics.TotalIncome).Mul(hundred)
		metrics.DebtToIncomeRatio = metrics.TotalExpenses.Sub(metrics.TotalSavings).
			Div(metrics.TotalIncome).Mul(hundred)
	}
	return metrics, nil
}
