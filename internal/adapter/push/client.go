// Package push delivers notifications through an ntfy-compatible push gateway
// and keeps the in-process registry of standing reminder timers.
package push

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/config"
	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// retryBackoff is how long the client waits before its single retry.
const retryBackoff = 500 * time.Millisecond

// Client publishes notifications to a push gateway topic.
type Client struct {
	gatewayURL string
	topic      string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from the push gateway config.
func NewClient(cfg config.PushConfig, logger *slog.Logger) *Client {
	return &Client{
		gatewayURL: cfg.GatewayURL,
		topic:      cfg.Topic,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "push"),
	}
}

// Send publishes a single notification. The gateway treats the request body as
// the message text; title and priority travel in headers. Without a configured
// gateway the send succeeds as a no-op, so entries still reach the log store.
func (c *Client) Send(ctx context.Context, title, body string, priority domain.NotificationPriority) error {
	if c.gatewayURL == "" {
		c.log.DebugContext(ctx, "push gateway not configured, dispatch skipped", slog.String("title", title))
		return nil
	}

	c.log.DebugContext(ctx, "push send", slog.String("title", title), slog.String("priority", string(priority)))

	resp, err := c.doWithRetry(ctx, title, body, priority)
	if err != nil {
		c.log.ErrorContext(ctx, "push send failed", slog.String("title", title), slog.String("error", err.Error()))
		return fmt.Errorf("push: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push: unexpected status %d", resp.StatusCode)
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, title, body string, priority domain.NotificationPriority) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/"+c.topic, bytes.NewReader([]byte(body)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Title", title)
	if priority == domain.PriorityHigh {
		req.Header.Set("Priority", "high")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doWithRetry executes the publish with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, title, body string, priority domain.NotificationPriority) (*http.Response, error) {
	req, err := c.newRequest(ctx, title, body, priority)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "push retry", slog.String("title", title), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	req, err = c.newRequest(ctx, title, body, priority)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}
