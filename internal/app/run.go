package app

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
)

// Run listens and serves until SIGINT or SIGTERM,
// then shuts the server down gracefully
func (a *App) Run() error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return errors.Join(err, a.cleanup())
	}

	log.Printf("Server running on: http://%s", ln.Addr())
	if a.domain != "" {
		log.Printf("Website available at: https://%s", a.domain)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- a.server.Serve(ln) }()

	select {
	case err := <-serveErr:
		// Serve never returns nil, ErrServerClosed only follows Shutdown
		return errors.Join(err, a.cleanup())
	case <-ctx.Done():
	}

	// A second signal kills the process
	stop()
	log.Println("Shutting down gracefully, press Ctrl+C again to force...")

	err = a.Shutdown()
	if serr := <-serveErr; !errors.Is(serr, http.ErrServerClosed) {
		err = errors.Join(err, serr)
	}

	log.Println("Graceful shutdown complete.")
	return err
}
