package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/Tau-rai/fintrekapi/internal/repository"
	"github.com/shopspring/decimal"
)

// CreateCategory creates a category for the user
func (s *Service) CreateCategory(userID int64, name string) (*models.Category, error) {
	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("category name must be 1-100 characters: %w", ErrInvalid)
	}
	category := &models.Category{UserID: userID, Name: name}
	if err := s.repo.CreateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories retrieves the user's categories
func (s *Service) ListCategories(userID int64) ([]*models.Category, error) {
	return s.repo.ListCategories(userID)
}

// DeleteCategory deletes a category owned by the user
func (s *Service) DeleteCategory(id, userID int64) error {
	return s.repo.DeleteCategory(id, userID)
}

// CreateTransaction records a new transaction and invalidates the user's
// cached transaction views
func (s *Service) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.Amount.IsZero() {
		return fmt.Errorf("amount must be non-zero: %w", ErrInvalid)
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	if err := s.repo.CreateTransaction(tx); err != nil {
		return err
	}
	s.invalidateTransactionCaches(ctx, tx.UserID)
	return nil
}

// ListTransactions retrieves the user's transactions with optional filters,
// memoized for an hour per distinct filter combination
func (s *Service) ListTransactions(ctx context.Context, userID int64, filter repository.TransactionFilter) ([]*models.Transaction, error) {
	key := transactionsCacheKey(userID, filter)
	var transactions []*models.Transaction
	err := s.cache.GetOrCompute(ctx, key, cacheTTL, &transactions, func() (interface{}, error) {
		return s.repo.ListTransactions(userID, filter)
	})
	return transactions, err
}

// DeleteTransaction deletes a transaction owned by the user and invalidates
// cached views
func (s *Service) DeleteTransaction(ctx context.Context, id, userID int64) error {
	if err := s.repo.DeleteTransaction(id, userID); err != nil {
		return err
	}
	s.invalidateTransactionCaches(ctx, userID)
	return nil
}

// TransactionSummary returns overall income, spending and top categories,
// memoized for an hour
func (s *Service) TransactionSummary(ctx context.Context, userID int64) (*models.TransactionSummary, error) {
	key := fmt.Sprintf("transaction_summary_%d", userID)
	summary := &models.TransactionSummary{}
	err := s.cache.GetOrCompute(ctx, key, cacheTTL, summary, func() (interface{}, error) {
		return s.repo.SummarizeTransactions(userID)
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func transactionsCacheKey(userID int64, filter repository.TransactionFilter) string {
	start, end, category := "", "", ""
	if filter.StartDate != nil {
		start = filter.StartDate.Format("2006-01-02")
	}
	if filter.EndDate != nil {
		end = filter.EndDate.Format("2006-01-02")
	}
	if filter.CategoryID != nil {
		category = fmt.Sprintf("%d", *filter.CategoryID)
	}
	return fmt.Sprintf("transactions_%d_%s_%s_%s", userID, start, end, category)
}

// invalidateTransactionCaches drops the summary and unfiltered list entries.
// Filtered list entries are left to expire with their TTL.
func (s *Service) invalidateTransactionCaches(ctx context.Context, userID int64) {
	s.cache.Delete(ctx,
		fmt.Sprintf("transaction_summary_%d", userID),
		transactionsCacheKey(userID, repository.TransactionFilter{}),
	)
}

// CreateBudget creates a monthly budget, rejecting duplicates for the month
func (s *Service) CreateBudget(ctx context.Context, userID int64, month time.Time, amount decimal.Decimal) (*models.MonthlyBudget, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("budget amount must be positive: %w", ErrInvalid)
	}
	if _, err := s.repo.FindBudgetByMonth(userID, month); err == nil {
		return nil, fmt.Errorf("a budget already exists for this month: %w", ErrInvalid)
	}

	budget := &models.MonthlyBudget{
		UserID:       userID,
		Month:        time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC),
		BudgetAmount: amount,
	}
	if err := s.repo.CreateBudget(budget); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, budgetStatusCacheKey(userID, month))
	return budget, nil
}

// GetBudget retrieves the user's budget for the given month
func (s *Service) GetBudget(userID int64, month time.Time) (*models.MonthlyBudget, error) {
	return s.repo.FindBudgetByMonth(userID, month)
}

// BudgetStatus reports the budget for a month against actual expenditure,
// memoized for an hour
func (s *Service) BudgetStatus(ctx context.Context, userID int64, month time.Time) (*models.BudgetStatus, error) {
	key := budgetStatusCacheKey(userID, month)
	status := &models.BudgetStatus{}
	err := s.cache.GetOrCompute(ctx, key, cacheTTL, status, func() (interface{}, error) {
		budget, err := s.repo.FindBudgetByMonth(userID, month)
		if err != nil {
			return nil, err
		}
		expenditure, err := s.repo.MonthExpenditure(userID, month)
		if err != nil {
			return nil, err
		}
		return &models.BudgetStatus{
			BudgetAmount:    budget.BudgetAmount,
			Expenditure:     expenditure,
			IsOverBudget:    expenditure.GreaterThan(budget.BudgetAmount),
			RemainingBudget: budget.BudgetAmount.Sub(expenditure),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func budgetStatusCacheKey(userID int64, month time.Time) string {
	return fmt.Sprintf("budget_status_%d_%s", userID, month.Format("2006-01"))
}
