package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// In-flight requests get this long to finish on shutdown.
// A pipeline run still going after that is cut off.
const shutdownGrace = 5 * time.Second

// Shutdown stops accepting requests, waits for the in-flight ones
// and closes the Redis connections
func (a *App) Shutdown() error {

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shut down; %w", err))
	}

	log.Println("Closing Redis connections...")
	if err := a.cleanup(); err != nil {
		errs = append(errs, fmt.Errorf("cleanup failed; %w", err))
	}

	return errors.Join(errs...)
}
