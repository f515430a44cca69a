package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/Tau-rai/fintrekapi/internal/cache"
	"github.com/Tau-rai/fintrekapi/internal/config"
	"github.com/Tau-rai/fintrekapi/internal/handler"
	"github.com/Tau-rai/fintrekapi/internal/insights"
	"github.com/Tau-rai/fintrekapi/internal/integrations/llm"
	"github.com/Tau-rai/fintrekapi/internal/integrations/markets"
	"github.com/Tau-rai/fintrekapi/internal/integrations/rates"
	"github.com/Tau-rai/fintrekapi/internal/middleware"
	"github.com/Tau-rai/fintrekapi/internal/repository"
	"github.com/Tau-rai/fintrekapi/internal/service"
	"github.com/Tau-rai/fintrekapi/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	memo := cache.New(cfg.RedisAddr, cfg.RedisPassword, logger)
	defer memo.Close()

	marketsClient := markets.NewClient(cfg, logger)
	ratesClient := rates.NewClient(cfg, logger)
	llmClient := llm.NewClient(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
	mailer := email.NewSender(cfg, logger)
	orchestrator := insights.NewOrchestrator(repo, marketsClient, llmClient, logger)

	svc := service.NewService(repo, logger, cfg, memo, orchestrator, mailer, ratesClient)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/profile", h.Profile).Methods("GET")
	authRouter.HandleFunc("/profile", h.UpdateProfile).Methods("PUT")
	authRouter.HandleFunc("/categories", h.ListCategories).Methods("GET")
	authRouter.HandleFunc("/categories", h.CreateCategory).Methods("POST")
	authRouter.HandleFunc("/categories/{id}", h.DeleteCategory).Methods("DELETE")
	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions/summary", h.TransactionSummary).Methods("GET")
	authRouter.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	authRouter.HandleFunc("/budgets", h.GetBudget).Methods("GET")
	authRouter.HandleFunc("/budgets", h.CreateBudget).Methods("POST")
	authRouter.HandleFunc("/budgets/status", h.BudgetStatus).Methods("GET")
	authRouter.HandleFunc("/savings-goal", h.GetSavingsGoal).Methods("GET")
	authRouter.HandleFunc("/savings-goal", h.SetSavingsGoal).Methods("POST")
	authRouter.HandleFunc("/savings-goal/add", h.AddSavings).Methods("POST")
	authRouter.HandleFunc("/subscriptions", h.ListSubscriptions).Methods("GET")
	authRouter.HandleFunc("/subscriptions", h.CreateSubscription).Methods("POST")
	authRouter.HandleFunc("/subscriptions/{id}/pay", h.MarkSubscriptionPaid).Methods("POST")
	authRouter.HandleFunc("/insights", h.ListInsights).Methods("GET")
	authRouter.HandleFunc("/insights/generate", h.GenerateInsight).Methods("POST")
	authRouter.HandleFunc("/exchange-rate", h.ExchangeRate).Methods("GET")

	// Schedule the daily insight batch and subscription reminders
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.InsightCron, func() {
		if err := svc.GenerateInsightBatch(context.Background()); err != nil {
			logger.Errorf("Insight batch failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Invalid INSIGHT_CRON: %v", err)
	}
	if _, err := scheduler.AddFunc(cfg.ReminderCron, func() {
		if err := svc.RemindDueSubscriptions(); err != nil {
			logger.Errorf("Subscription reminders failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Invalid REMINDER_CRON: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
