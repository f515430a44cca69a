package repository

import (
	"fmt"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows ListTransactions results. Zero values mean no filter.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int64
}

// CreateTransaction creates a new transaction
func (r *Repository) CreateTransaction(tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, category_id, amount, date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, tx.UserID, tx.CategoryID, tx.Amount, tx.Date, tx.Description).
		Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListTransactions retrieves a user's transactions, newest first, applying
// any filters set on the filter argument
func (r *Repository) ListTransactions(userID int64, filter TransactionFilter) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, amount, date, description, created_at
		FROM transactions
		WHERE user_id = $1`
	args := []interface{}{userID}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Amount, &tx.Date,
			&tx.Description, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// DeleteTransaction deletes a transaction owned by the given user
func (r *Repository) DeleteTransaction(id, userID int64) error {
	result, err := r.db.Exec(`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return nil
}

// SumTransactionsByCategories sums the amounts of a user's transactions dated
// on or after since and belonging to any of the given categories. An empty
// category list sums to zero without touching the database.
func (r *Repository) SumTransactionsByCategories(userID int64, categoryIDs []int64, since time.Time) (decimal.Decimal, error) {
	if len(categoryIDs) == 0 {
		return decimal.Zero, nil
	}
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = ANY($2) AND date >= $3`
	var total decimal.Decimal
	err := r.db.QueryRow(query, userID, pq.Array(categoryIDs), since).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

// SummarizeTransactions computes overall income, spending and the top five
// spending categories for a user. Income is the sum of positive amounts,
// expenses the sum of negative amounts reported as a positive number.
func (r *Repository) SummarizeTransactions(userID int64) (*models.TransactionSummary, error) {
	summary := &models.TransactionSummary{}
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0),
			COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0)
		FROM transactions
		WHERE user_id = $1`
	if err := r.db.QueryRow(query, userID).Scan(&summary.Incomes, &summary.Expenses); err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}

	topQuery := `
		SELECT c.name, -SUM(t.amount) AS total_spent
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.amount < 0
		GROUP BY c.name
		ORDER BY SUM(t.amount)
		LIMIT 5`
	rows, err := r.db.Query(topQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query top categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.CategorySpend
		if err := rows.Scan(&entry.Category, &entry.TotalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan top category: %w", err)
		}
		summary.TopCategories = append(summary.TopCategories, entry)
	}
	return summary, rows.Err()
}

// MonthExpenditure sums a user's spending on expense categories within the
// calendar month containing the given date
func (r *Repository) MonthExpenditure(userID int64, month time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		  AND c.name ILIKE '%expense%'
		  AND date_trunc('month', t.date) = date_trunc('month', $2::date)`
	var total decimal.Decimal
	err := r.db.QueryRow(query, userID, month).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum month expenditure: %w", err)
	}
	return total, nil
}
