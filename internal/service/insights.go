package service

import (
	"context"
	"fmt"

	"github.com/Tau-rai/fintrekapi/internal/models"
)

// insightPageSize is the fixed page size for insight listings
const insightPageSize = 6

// InsightPage is one page of a user's insights
type InsightPage struct {
	Results    []*models.Insight `json:"results"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	TotalItems int               `json:"total_items"`
}

// ListInsights retrieves one page of the user's insights, newest first,
// memoized for an hour per page
func (s *Service) ListInsights(ctx context.Context, userID int64, page int) (*InsightPage, error) {
	if page < 1 {
		page = 1
	}
	key := fmt.Sprintf("insights_%d_page_%d", userID, page)
	result := &InsightPage{}
	err := s.cache.GetOrCompute(ctx, key, cacheTTL, result, func() (interface{}, error) {
		total, err := s.repo.CountInsights(userID)
		if err != nil {
			return nil, err
		}
		results, err := s.repo.ListInsights(userID, (page-1)*insightPageSize, insightPageSize)
		if err != nil {
			return nil, err
		}
		return &InsightPage{
			Results:    results,
			Page:       page,
			TotalPages: (total + insightPageSize - 1) / insightPageSize,
			TotalItems: total,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GenerateInsightBatch runs the automated insight pipeline for all active
// users. Used by the scheduler.
func (s *Service) GenerateInsightBatch(ctx context.Context) error {
	return s.orchestrator.Run(ctx, "")
}

// GeneratePersonalInsight runs the on-demand insight pipeline for one user
// and returns their newest non-automated insight
func (s *Service) GeneratePersonalInsight(ctx context.Context, userID int64) (*models.Insight, error) {
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.orchestrator.Run(ctx, user.Username); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, fmt.Sprintf("insights_%d_page_1", userID))
	return s.repo.LatestManualInsight(userID)
}
