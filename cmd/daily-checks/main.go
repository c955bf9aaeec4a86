// Command daily-checks evaluates the notification checks (tax deadlines,
// rules due soon, budget thresholds, the daily reminder) once and exits. It
// complements the in-process scheduler for deployments where the server is
// not running continuously.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/budget"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/notificationlog"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/recurringrule"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/settings"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/transaction"
	"github.com/ovolkov/fiscus-backend/internal/adapter/push"
	"github.com/ovolkov/fiscus-backend/internal/app"
	"github.com/ovolkov/fiscus-backend/internal/config"
	budgetsvc "github.com/ovolkov/fiscus-backend/internal/service/budget"
	"github.com/ovolkov/fiscus-backend/internal/service/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	ruleRepo := recurringrule.New(pool)
	txRepo := transaction.New(pool)

	// A one-shot run never arms standing timers; the registry is closed
	// before any could fire.
	registry := push.NewRegistry(logger)
	defer registry.Close()

	svc := notify.NewService(
		logger,
		notificationlog.New(pool),
		push.NewClient(cfg.Push, logger),
		settings.New(pool),
		ruleRepo,
		budgetsvc.NewService(logger, budget.New(pool), txRepo),
		registry,
	)

	taxYear := cfg.ReportingTaxYear(time.Now())

	if err := svc.RunDailyChecks(ctx, taxYear); err != nil {
		logger.Error("daily checks had failures",
			slog.String("error", err.Error()),
			slog.Int("tax_year", taxYear),
		)
		os.Exit(1)
	}

	logger.Info("daily checks completed", slog.Int("tax_year", taxYear))
}
