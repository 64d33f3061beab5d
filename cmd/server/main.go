// cmd/server/main.go
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"parkgov-crm/config"
	"parkgov-crm/internal/finance"
	"parkgov-crm/internal/handlers"
	"parkgov-crm/internal/middleware"
	"parkgov-crm/internal/routes"
	"parkgov-crm/internal/storage"
	"parkgov-crm/internal/workflow"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT secret is not configured (set auth.jwt_secret or JWT_SECRET)")
		os.Exit(1)
	}

	config.ConnectDB(cfg.Database.URL)
	config.ConnectRedis(cfg.Redis.Addr)

	store := storage.NewStore(config.DB)
	if err := store.Migrate(); err != nil {
		slog.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	income := finance.NewIncomeService(store)
	expense := finance.NewExpenseService(store, cfg.Policy.CountPendingExpenses)
	api := &handlers.API{
		Income:   income,
		Expense:  expense,
		Requests: workflow.NewRequestService(store, income),
		Budgets:  workflow.NewBudgetService(store, income, expense),
		Revenue:  store,
	}

	r := gin.Default()
	routes.Register(r, api, middleware.AuthMiddleware([]byte(cfg.Auth.JWTSecret), store))

	slog.Info("starting server", "addr", cfg.Server.ListenAddr)
	if err := r.Run(cfg.Server.ListenAddr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
