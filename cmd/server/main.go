package main

import (
	"context"
	"log"
	"time"

	"college-payroll/internal/cache"
	"college-payroll/internal/config"
	"college-payroll/internal/database"
	"college-payroll/internal/handlers"
	"college-payroll/internal/logger"
	"college-payroll/internal/router"
	"college-payroll/internal/services"
)

func main() {
	// Load environment variables
	cfg := config.Load()
	appLog := logger.New(logger.ParseLevel(cfg.LogLevel), "server")

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	opts := services.Options{
		Policy:        services.TransitionPolicy{AllowCancelPaid: cfg.AllowCancelPaid},
		BulkWorkers:   cfg.BulkApproveWorkers,
		StoreTimeout:  cfg.StoreTimeout,
		UpdateRetries: cfg.UpdateRetries,
		Audit:         database.NewAuditStore(db),
		Logger:        appLog.With("payroll"),
	}

	// The dashboard cache is optional; without Redis every read aggregates.
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		rdb, err := cache.Connect(ctx, cfg)
		cancel()
		if err != nil {
			appLog.Error("Dashboard cache disabled: %v", err)
		} else {
			defer rdb.Close()
			opts.Cache = cache.NewStatsCache(rdb, cfg.StatsCacheTTL)
		}
	}

	svc := services.NewPayrollService(database.NewPayrollStore(db), opts)

	// Setup and run the router
	r := router.SetupRouter(handlers.NewPayrollHandler(svc), handlers.NewAdminHandler(svc), appLog.With("http"))

	appLog.Info("Starting server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
