// Command server runs the Fiscus backend: the HTTP API, the recurring
// transaction materializer, and the notification scheduler.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ovolkov/fiscus-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
