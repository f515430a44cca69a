// Command insights runs the insight generation pipeline once and exits.
// With -user it generates an on-demand insight for that user; without it,
// an automated insight for every active user.
package main

import (
	"context"
	"flag"
	"os"

	"database/sql"

	"github.com/Tau-rai/fintrekapi/internal/config"
	"github.com/Tau-rai/fintrekapi/internal/insights"
	"github.com/Tau-rai/fintrekapi/internal/integrations/llm"
	"github.com/Tau-rai/fintrekapi/internal/integrations/markets"
	"github.com/Tau-rai/fintrekapi/internal/repository"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	username := flag.String("user", "", "generate an insight for this username only")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	repo := repository.NewRepository(db)
	marketsClient := markets.NewClient(cfg, logger)
	llmClient := llm.NewClient(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
	orchestrator := insights.NewOrchestrator(repo, marketsClient, llmClient, logger)

	if err := orchestrator.Run(context.Background(), *username); err != nil {
		logger.Fatalf("Insight generation failed: %v", err)
	}
	logger.Info("Insight generation completed")
}
