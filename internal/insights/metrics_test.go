package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/shopspring/decimal"
)

// fakeStore implements Store in memory for pipeline tests
type fakeStore struct {
	users        []*models.User
	categories   map[int64][]*models.Category
	transactions []*models.Transaction
	insights     []*models.Insight

	categoriesErr map[int64]error
	createErr     error
}

func (f *fakeStore) FindUserByUsername(username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %s: not found", username)
}

func (f *fakeStore) ListActiveUsers() ([]*models.User, error) {
	var active []*models.User
	for _, user := range f.users {
		if user.IsActive {
			active = append(active, user)
		}
	}
	return active, nil
}

func (f *fakeStore) ListCategories(userID int64) ([]*models.Category, error) {
	if err := f.categoriesErr[userID]; err != nil {
		return nil, err
	}
	return f.categories[userID], nil
}

func (f *fakeStore) SumTransactionsByCategories(userID int64, categoryIDs []int64, since time.Time) (decimal.Decimal, error) {
	members := make(map[int64]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		members[id] = true
	}
	total := decimal.Zero
	for _, tx := range f.transactions {
		if tx.UserID != userID || tx.CategoryID == nil || !members[*tx.CategoryID] {
			continue
		}
		if tx.Date.Before(since) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total, nil
}

func (f *fakeStore) CreateInsight(insight *models.Insight) error {
	if f.createErr != nil {
		return f.createErr
	}
	insight.ID = int64(len(f.insights) + 1)
	f.insights = append(f.insights, insight)
	return nil
}

func catID(id int64) *int64 { return &id }

func TestComputeMetricsScenario(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	user := &models.User{ID: 1, Username: "alice", IsActive: true}
	store := &fakeStore{
		users: []*models.User{user},
		categories: map[int64][]*models.Category{
			1: {
				{ID: 10, UserID: 1, Name: "Salary Income"},
				{ID: 11, UserID: 1, Name: "Household Expenses"},
				{ID: 12, UserID: 1, Name: "Groceries"}, // no bucket
			},
		},
		transactions: []*models.Transaction{
			{UserID: 1, CategoryID: catID(10), Amount: decimal.NewFromInt(1000), Date: now.AddDate(0, 0, -10)},
			{UserID: 1, CategoryID: catID(11), Amount: decimal.NewFromInt(400), Date: now.AddDate(0, 0, -5)},
			{UserID: 1, CategoryID: catID(12), Amount: decimal.NewFromInt(75), Date: now.AddDate(0, 0, -3)},
		},
	}

	aggregator := NewAggregator(store)
	aggregator.now = func() time.Time { return now }

	metrics, err := aggregator.Compute(user)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	assertDecimal(t, "total_income", metrics.TotalIncome, "1000")
	assertDecimal(t, "total_expenses", metrics.TotalExpenses, "400")
	assertDecimal(t, "net_income", metrics.NetIncome, "600")
	assertDecimal(t, "savings_rate", metrics.SavingsRate, "0")
	assertDecimal(t, "debt_to_income_ratio", metrics.DebtToIncomeRatio, "40")
}

func TestComputeMetricsZeroIncome(t *testing.T) {
	now := time.Now()
	user := &models.User{ID: 1, Username: "bob"}
	store := &fakeStore{
		categories: map[int64][]*models.Category{
			1: {
				{ID: 20, UserID: 1, Name: "Household Expenses"},
				{ID: 21, UserID: 1, Name: "Emergency Savings"},
			},
		},
		transactions: []*models.Transaction{
			{UserID: 1, CategoryID: catID(20), Amount: decimal.NewFromInt(500), Date: now.AddDate(0, 0, -2)},
			{UserID: 1, CategoryID: catID(21), Amount: decimal.NewFromInt(100), Date: now.AddDate(0, 0, -2)},
		},
	}

	metrics, err := NewAggregator(store).Compute(user)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// No division by zero: both rates must be exactly zero
	assertDecimal(t, "savings_rate", metrics.SavingsRate, "0")
	assertDecimal(t, "debt_to_income_ratio", metrics.DebtToIncomeRatio, "0")
	assertDecimal(t, "total_expenses", metrics.TotalExpenses, "500")
	assertDecimal(t, "net_income", metrics.NetIncome, "-500")
}

func TestComputeMetricsSavingsRate(t *testing.T) {
	now := time.Now()
	user := &models.User{ID: 1, Username: "carol"}
	store := &fakeStore{
		categories: map[int64][]*models.Category{
			1: {
				{ID: 30, UserID: 1, Name: "Income"},
				{ID: 31, UserID: 1, Name: "Savings"},
			},
		},
		transactions: []*models.Transaction{
			{UserID: 1, CategoryID: catID(30), Amount: decimal.NewFromInt(2000), Date: now.AddDate(0, 0, -1)},
			{UserID: 1, CategoryID: catID(31), Amount: decimal.NewFromInt(300), Date: now.AddDate(0, 0, -1)},
		},
	}

	metrics, err := NewAggregator(store).Compute(user)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertDecimal(t, "savings_rate", metrics.SavingsRate, "15")
}

func TestComputeMetricsWindow(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	user := &models.User{ID: 1, Username: "dave"}
	store := &fakeStore{
		categories: map[int64][]*models.Category{
			1: {{ID: 40, UserID: 1, Name: "Income"}},
		},
		transactions: []*models.Transaction{
			// Exactly on the lower bound: included
			{UserID: 1, CategoryID: catID(40), Amount: decimal.NewFromInt(100), Date: now.AddDate(0, 0, -30)},
			// Outside the window: excluded
			{UserID: 1, CategoryID: catID(40), Amount: decimal.NewFromInt(999), Date: now.AddDate(0, 0, -31)},
		},
	}

	aggregator := NewAggregator(store)
	aggregator.now = func() time.Time { return now }

	metrics, err := aggregator.Compute(user)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertDecimal(t, "total_income", metrics.TotalIncome, "100")
}

func TestComputeMetricsWindowAfternoonRun(t *testing.T) {
	// The window lower bound comes from the invocation date, so a run at
	// 14:30 must still include a transaction dated exactly 30 days back
	now := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	user := &models.User{ID: 1, Username: "dave"}
	store := &fakeStore{
		categories: map[int64][]*models.Category{
			1: {{ID: 40, UserID: 1, Name: "Income"}},
		},
		transactions: []*models.Transaction{
			{UserID: 1, CategoryID: catID(40), Amount: decimal.NewFromInt(100), Date: time.Date(2026, 7, 21, 0, 0, 0, 0, time.UTC)},
			{UserID: 1, CategoryID: catID(40), Amount: decimal.NewFromInt(999), Date: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)},
		},
	}

	aggregator := NewAggregator(store)
	aggregator.now = func() time.Time { return now }

	metrics, err := aggregator.Compute(user)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertDecimal(t, "total_income", metrics.TotalIncome, "100")
}

func TestComputeMetricsMultiBucketCategory(t *testing.T) {
	// A category matching several keywords contributes to every matching bucket
	now := time.Now()
	user := &models.User{ID: 1, Username: "erin"}
	store := &fakeStore{
		categories: map[int64][]*models.Category{
			1: {{ID: 50, UserID: 1, Name: "Investment Savings"}},
		},
		transactions: []*models.Transaction{
			{UserID: 1, CategoryID: catID(50), Amount: decimal.NewFromInt(200), Date: now.AddDate(0, 0, -2)},
		},
	}

	metrics, err := NewAggregator(store).Compute(user)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertDecimal(t, "total_savings", metrics.TotalSavings, "200")
	assertDecimal(t, "total_investments", metrics.TotalInvestments, "200")
	assertDecimal(t, "total_income", metrics.TotalIncome, "0")
	assertDecimal(t, "total_expenses", metrics.TotalExpenses, "0")
}

func assertDecimal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}
