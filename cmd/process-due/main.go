// Command process-due materializes every recurring occurrence due up to now
// and exits. It is intended to be invoked by an external cron job as a safety
// net alongside the in-process triggers.
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
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/recurringrule"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/transaction"
	"github.com/ovolkov/fiscus-backend/internal/app"
	"github.com/ovolkov/fiscus-backend/internal/config"
	"github.com/ovolkov/fiscus-backend/internal/service/materialize"
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

	svc := materialize.NewService(
		logger,
		recurringrule.New(pool),
		transaction.New(pool),
		postgres.NewTxManager(pool),
		cfg.Scheduler.CatchUpLimit,
	)

	result, err := svc.ProcessDue(ctx, time.Now())
	if err != nil {
		logger.Error("process due failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("process due completed",
		slog.Int("generated", len(result.Generated)),
		slog.Int("rule_failures", len(result.Errors)),
	)
	if len(result.Errors) > 0 {
		for _, ruleErr := range result.Errors {
			logger.Warn("rule failed",
				slog.String("rule_id", ruleErr.RuleID.String()),
				slog.String("error", ruleErr.Err.Error()),
			)
		}
		os.Exit(1)
	}
}
