package insights

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type fakeFetcher struct {
	ectx  models.ExternalContext
	calls int
}

func (f *fakeFetcher) FetchContext(ctx context.Context) models.ExternalContext {
	f.calls++
	return f.ectx
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func batchStore() *fakeStore {
	store := &fakeStore{
		users: []*models.User{
			{ID: 1, Username: "alice", IsActive: true},
			{ID: 2, Username: "bob", IsActive: true},
			{ID: 3, Username: "carol", IsActive: true},
		},
		categories:    map[int64][]*models.Category{},
		categoriesErr: map[int64]error{},
	}
	for _, user := range store.users {
		store.categories[user.ID] = []*models.Category{
			{ID: user.ID * 10, UserID: user.ID, Name: "Income"},
		}
		store.transactions = append(store.transactions, &models.Transaction{
			UserID:     user.ID,
			CategoryID: catID(user.ID * 10),
			Amount:     decimal.NewFromInt(100 * user.ID),
			Date:       time.Now().AddDate(0, 0, -1),
		})
	}
	return store
}

func TestRunBatchIsolatesPerUserFailure(t *testing.T) {
	store := batchStore()
	// The second user's transaction query raises
	store.categoriesErr[2] = fmt.Errorf("connection reset")

	fetcher := &fakeFetcher{}
	llm := &fakeLLM{response: "Title\nContent"}
	orchestrator := NewOrchestrator(store, fetcher, llm, quietLogger())

	if err := orchestrator.Run(context.Background(), ""); err != nil {
		t.Fatalf("batch run must not fail on a single user: %v", err)
	}

	if len(store.insights) != 2 {
		t.Fatalf("expected insights for users 1 and 3, got %d", len(store.insights))
	}
	for _, insight := range store.insights {
		if insight.UserID == 2 {
			t.Error("failed user must not receive an insight")
		}
		if !insight.IsAutomated {
			t.Error("batch insights must be flagged automated")
		}
	}
}

func TestRunFetchesContextOnce(t *testing.T) {
	store := batchStore()
	fetcher := &fakeFetcher{ectx: models.ExternalContext{InflationRate: 3.0, StockIndex: 4500}}
	orchestrator := NewOrchestrator(store, fetcher, &fakeLLM{response: "T\nC"}, quietLogger())

	if err := orchestrator.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("context fetched %d times, want once per run", fetcher.calls)
	}
}

func TestRunEmptyGenerationFallsBack(t *testing.T) {
	store := batchStore()
	store.users = store.users[:1]
	orchestrator := NewOrchestrator(store, &fakeFetcher{}, &fakeLLM{response: ""}, quietLogger())

	if err := orchestrator.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(store.insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(store.insights))
	}
	if store.insights[0].Title != FallbackTitle {
		t.Errorf("title = %q, want fallback title", store.insights[0].Title)
	}
}

func TestRunUpstreamFailureStillProducesInsight(t *testing.T) {
	store := batchStore()
	store.users = store.users[:1]
	// Both external indicators unavailable and generation down
	fetcher := &fakeFetcher{ectx: models.ExternalContext{}}
	llm := &fakeLLM{err: fmt.Errorf("dial tcp: connection refused")}
	orchestrator := NewOrchestrator(store, fetcher, llm, quietLogger())

	if err := orchestrator.Run(context.Background(), ""); err != nil {
		t.Fatalf("pipeline must absorb upstream failures: %v", err)
	}
	if len(store.insights) != 1 {
		t.Fatalf("expected fallback insight, got %d insights", len(store.insights))
	}
	if store.insights[0].Title != FallbackTitle {
		t.Errorf("title = %q, want fallback title", store.insights[0].Title)
	}
}

func TestRunSingleUser(t *testing.T) {
	store := batchStore()
	orchestrator := NewOrchestrator(store, &fakeFetcher{}, &fakeLLM{response: "T\nC"}, quietLogger())

	if err := orchestrator.Run(context.Background(), "bob"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(store.insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(store.insights))
	}
	insight := store.insights[0]
	if insight.UserID != 2 {
		t.Errorf("insight user = %d, want 2", insight.UserID)
	}
	if insight.IsAutomated {
		t.Error("on-demand insights must not be flagged automated")
	}
}

func TestRunUnknownUser(t *testing.T) {
	store := batchStore()
	orchestrator := NewOrchestrator(store, &fakeFetcher{}, &fakeLLM{response: "T\nC"}, quietLogger())

	if err := orchestrator.Run(context.Background(), "nobody"); err == nil {
		t.Fatal("expected an error for an unknown user")
	}
	if len(store.insights) != 0 {
		t.Errorf("no insight should be recorded for an unknown user")
	}
}
