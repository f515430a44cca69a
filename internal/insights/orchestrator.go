// Package insights implements the insight generation pipeline: per-user
// financial metrics aggregation, best-effort external economic context,
// LLM-backed narrative generation with a static fallback, and append-only
// persistence of the result.
package insights

import (
	"context"
	"fmt"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/sirupsen/logrus"
)

// ContextFetcher retrieves external economic context. Implementations never
// fail; unavailable indicators are zero.
type ContextFetcher interface {
	FetchContext(ctx context.Context) models.ExternalContext
}

// Orchestrator runs the insight pipeline for one user or for all active
// users. Execution is strictly sequential.
type Orchestrator struct {
	store      Store
	fetcher    ContextFetcher
	aggregator *Aggregator
	generator  *Generator
	recorder   *Recorder
	log        *logrus.Logger
}

// NewOrchestrator initializes the pipeline
func NewOrchestrator(store Store, fetcher ContextFetcher, llm TextGenerator, log *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		store:      store,
		fetcher:    fetcher,
		aggregator: NewAggregator(store),
		generator:  NewGenerator(llm),
		recorder:   NewRecorder(store),
		log:        log,
	}
}

// Run generates insights. With a username it processes that single user,
// marking the insight as on-demand, and returns an error if the user does
// not exist. With an empty username it processes every active user, marking
// insights as automated; a failure for one user is logged and does not stop
// the remaining users.
//
// External context is fetched once per run and shared across the batch.
func (o *Orchestrator) Run(ctx context.Context, username string) error {
	ectx := o.fetcher.FetchContext(ctx)

	if username != "" {
		user, err := o.store.FindUserByUsername(username)
		if err != nil {
			return fmt.Errorf("failed to resolve user: %w", err)
		}
		if err := o.generateFor(ctx, user, ectx, false); err != nil {
			return err
		}
		return nil
	}

	users, err := o.store.ListActiveUsers()
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}
	for _, user := range users {
		if err := o.generateFor(ctx, user, ectx, true); err != nil {
			o.log.WithField("user", user.Username).Errorf("Failed to generate insight: %v", err)
		}
	}
	return nil
}

// generateFor runs the pipeline stages for one user. Generation failures
// downgrade to the fallback narrative; only metric aggregation and
// persistence errors propagate.
func (o *Orchestrator) generateFor(ctx context.Context, user *models.User, ectx models.ExternalContext, automated bool) error {
	metrics, err := o.aggregator.Compute(user)
	if err != nil {
		return fmt.Errorf("failed to compute metrics: %w", err)
	}

	title, content, err := o.generator.Generate(ctx, metrics, ectx)
	if err != nil {
		o.log.WithField("user", user.Username).Warnf("Using fallback insight: %v", err)
		title, content = FallbackNarrative(ectx)
	}

	if _, err := o.recorder.Record(user.ID, title, content, automated); err != nil {
		return fmt.Errorf("failed to record insight: %w", err)
	}
	o.log.WithField("user", user.Username).Infof("Generated insight (automated=%t)", automated)
	return nil
}
