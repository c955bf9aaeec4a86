//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres"
	budgetrepo "github.com/ovolkov/fiscus-backend/internal/adapter/postgres/budget"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/notificationlog"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/recurringrule"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/settings"
	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/testhelper"
	txrepo "github.com/ovolkov/fiscus-backend/internal/adapter/postgres/transaction"
	"github.com/ovolkov/fiscus-backend/internal/adapter/push"
	"github.com/ovolkov/fiscus-backend/internal/config"
	budgetsvc "github.com/ovolkov/fiscus-backend/internal/service/budget"
	"github.com/ovolkov/fiscus-backend/internal/service/materialize"
	"github.com/ovolkov/fiscus-backend/internal/service/notify"
	"github.com/ovolkov/fiscus-backend/internal/service/scheduler"
	"github.com/ovolkov/fiscus-backend/internal/transport/middleware"
	"github.com/ovolkov/fiscus-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Get pool from testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	// 3. Repositories.
	ruleRepo := recurringrule.New(pool)
	transactionRepo := txrepo.New(pool)
	logRepo := notificationlog.New(pool)
	budgetRepo := budgetrepo.New(pool)
	settingsRepo := settings.New(pool)

	// 4. Push stack. An empty gateway URL keeps delivery local: notifications
	// are written to the log store without leaving the process.
	pushClient := push.NewClient(config.PushConfig{
		Topic:   "fiscus-test",
		Timeout: 5 * time.Second,
	}, logger)
	registry := push.NewRegistry(logger)
	t.Cleanup(registry.Close)

	// 5. Services.
	budgetService := budgetsvc.NewService(logger, budgetRepo, transactionRepo)
	materializeService := materialize.NewService(logger, ruleRepo, transactionRepo, txm, 365)
	notifyService := notify.NewService(logger, logRepo, pushClient, settingsRepo, ruleRepo, budgetService, registry)
	trigger := scheduler.NewTrigger(logger, materializeService, notifyService, 0)

	// 6. Handlers.
	healthHandler := rest.NewHealthHandler(pool, "test-version")
	schedulerHandler := rest.NewSchedulerHandler(trigger, logger)
	taxHandler := rest.NewTaxHandler(0)
	notificationsHandler := rest.NewNotificationsHandler(logRepo, notifyService, logger)

	// 7. Mux, same routes as the application server.
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

	// 8. Middleware chain.
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,OPTIONS",
			AllowedHeaders:   "Content-Type",
			AllowCredentials: false,
			MaxAge:           86400,
		}),
	)(mux)

	// 9. httptest server.
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
	}
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

// doJSON sends a request with an optional JSON body and decodes the JSON
// response into out (when out is non-nil). It returns the HTTP status code.
func (ts *testServer) doJSON(t *testing.T, method, path string, body, out any) int {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// ---------------------------------------------------------------------------
// Database seed helpers.
// ---------------------------------------------------------------------------

// seedRule inserts a recurring rule with its cursor offset from today by
// daysFromToday (negative values seed an overdue rule).
func seedRule(t *testing.T, pool *pgxpool.Pool, description string, amount float64, cadence string, daysFromToday int) uuid.UUID {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO recurring_rules (description, amount, category, cadence, interval, next_due_date)
		VALUES ($1, $2, 'bills', $3, 1, current_date + $4)
		RETURNING id`,
		description, amount, cadence, daysFromToday,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// countRuleTransactions returns how many transactions were materialized from
// the given rule.
func countRuleTransactions(t *testing.T, pool *pgxpool.Pool, ruleID uuid.UUID) int {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := pool.QueryRow(ctx,
		`SELECT count(*) FROM transactions WHERE recurring_rule_id = $1`, ruleID,
	).Scan(&count)
	require.NoError(t, err)
	return count
}
