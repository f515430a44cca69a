package repository

import (
	"database/sql"
	"fmt"

	"github.com/Tau-rai/fintrekapi/internal/models"
)

// CreateInsight persists a new insight row. Insights are append-only; there
// is no corresponding update operation.
func (r *Repository) CreateInsight(insight *models.Insight) error {
	query := `
		INSERT INTO insights (user_id, title, content, is_automated, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, insight.UserID, insight.Title, insight.Content, insight.IsAutomated).
		Scan(&insight.ID, &insight.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}
	return nil
}

// ListInsights retrieves a page of a user's insights, newest first
func (r *Repository) ListInsights(userID int64, offset, limit int) ([]*models.Insight, error) {
	query := `
		SELECT id, user_id, title, content, is_automated, created_at
		FROM insights
		WHERE user_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.Query(query, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var insights []*models.Insight
	for rows.Next() {
		insight := &models.Insight{}
		if err := rows.Scan(&insight.ID, &insight.UserID, &insight.Title, &insight.Content,
			&insight.IsAutomated, &insight.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, insight)
	}
	return insights, rows.Err()
}

// CountInsights returns the number of insights a user has
func (r *Repository) CountInsights(userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM insights WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count insights: %w", err)
	}
	return count, nil
}

// LatestManualInsight retrieves the newest non-automated insight for a user
func (r *Repository) LatestManualInsight(userID int64) (*models.Insight, error) {
	insight := &models.Insight{}
	query := `
		SELECT id, user_id, title, content, is_automated, created_at
		FROM insights
		WHERE user_id = $1 AND is_automated = FALSE
		ORDER BY created_at DESC
		LIMIT 1`
	err := r.db.QueryRow(query, userID).
		Scan(&insight.ID, &insight.UserID, &insight.Title, &insight.Content,
			&insight.IsAutomated, &insight.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("insight: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest insight: %w", err)
	}
	return insight, nil
}
