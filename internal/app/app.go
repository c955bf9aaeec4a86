package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/budget"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/notificationlog"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/recurringrule"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/settings"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/transaction"
	"github.com/ovolkov/fiscus-backend/internal/adapter/push"
	"github.com/ovolkov/fiscus-backend/internal/config"
	budgetsvc "github.com/ovolkov/fiscus-backend/internal/service/budget"
	"github.com/ovolkov/fiscus-backend/internal/service/materialize"
	"github.com/ovolkov/fiscus-backend/internal/service/notify"
	"github.com/ovolkov/fiscus-backend/internal/service/scheduler"
	"github.com/ovolkov/fiscus-backend/internal/transport/middleware"
	"github.com/ovolkov/fiscus-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// storage, push, and service layers, arms the standing reminder timers, runs
// one scheduler pass to catch up after downtime, and serves HTTP until the
// context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	ruleRepo := recurringrule.New(pool)
	txRepo := transaction.New(pool)
	logRepo := notificationlog.New(pool)
	budgetRepo := budget.New(pool)
	settingsRepo := settings.New(pool)
	txManager := postgres.NewTxManager(pool)

	pushClient := push.NewClient(cfg.Push, logger)
	reminderRegistry := push.NewRegistry(logger)
	defer reminderRegistry.Close()

	budgetSvc := budgetsvc.NewService(logger, budgetRepo, txRepo)
	materializeSvc := materialize.NewService(logger, ruleRepo, txRepo, txManager, cfg.Scheduler.CatchUpLimit)
	notifySvc := notify.NewService(logger, logRepo, pushClient, settingsRepo, ruleRepo, budgetSvc, reminderRegistry)
	trigger := scheduler.NewTrigger(logger, materializeSvc, notifySvc, cfg.Notifications.TaxYear)

	if err := notifySvc.RescheduleDailyReminders(ctx); err != nil {
		logger.Warn("arm daily reminders failed", slog.String("error", err.Error()))
	}

	// One pass at startup covers anything missed while the process was down.
	if _, err := trigger.RunNow(ctx); err != nil {
		logger.Warn("startup scheduler run had failures", slog.String("error", err.Error()))
	}

	srv := newHTTPServer(cfg, logger, pool, trigger, logRepo, notifySvc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newHTTPServer(
	cfg *config.Config,
	logger *slog.Logger,
	pool dbPinger,
	trigger *scheduler.Trigger,
	logRepo *notificationlog.Repo,
	notifySvc *notify.Service,
) *http.Server {
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())
	schedulerHandler := rest.NewSchedulerHandler(trigger, logger)
	taxHandler := rest.NewTaxHandler(cfg.Notifications.TaxYear)
	notificationsHandler := rest.NewNotificationsHandler(logRepo, notifySvc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("POST /scheduler/refresh", schedulerHandler.Refresh)
	mux.HandleFunc("POST /scheduler/state", schedulerHandler.StateChange)
	mux.HandleFunc("GET /tax/deadlines", taxHandler.Deadlines)
	mux.HandleFunc("GET /tax/progress", taxHandler.Progress)
	mux.HandleFunc("GET /notifications", notificationsHandler.List)
	mux.HandleFunc("POST /notifications/{id}/read", notificationsHandler.MarkRead)
	mux.HandleFunc("POST /notifications/reschedule", notificationsHandler.Reschedule)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(mux)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

type dbPinger interface {
	Ping(ctx context.Context) error
}
