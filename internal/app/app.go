package app

import (
	"context"
	"encoding/gob"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/sessions"
	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/drivers/rdb"
	notesHandlers "github.com/vlatan/video-notes/internal/handlers/notes"
	"github.com/vlatan/video-notes/internal/handlers/misc"
	"github.com/vlatan/video-notes/internal/integrations/gemini"
	"github.com/vlatan/video-notes/internal/integrations/translate"
	"github.com/vlatan/video-notes/internal/integrations/yt"
	"github.com/vlatan/video-notes/internal/middlewares"
	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/internal/notes"
	redisStore "github.com/vlatan/video-notes/internal/store"
	"github.com/vlatan/video-notes/internal/ui"
)

type healthChecker interface {
	Health(ctx context.Context) rdb.HealthStatus
}

type quotaChecker interface {
	Exhausted(ctx context.Context) bool
}

type App struct {
	notes   *notesHandlers.Service
	misc    *misc.Service
	mw      *middlewares.Service
	cleanup func() error
	domain  string
	server  *http.Server
}

// New creates the app with all of its dependencies
func New() *App {

	// Register types with gob to be able to use them in sessions
	gob.Register(&models.FlashMessage{})

	cfg := config.New()

	rdb, err := rdb.New(cfg)
	if err != nil {
		log.Fatalf("couldn't create Redis service; %v", err)
	}

	store := redisStore.NewRedisStore(
		cfg,
		rdb,
		"session",
		cfg.SessionMaxAge,
		cfg.AuthKey.Bytes,
		cfg.EncryptionKey.Bytes,
	)

	ctx := context.Background()
	yt, err := yt.New(ctx, cfg)
	if err != nil {
		log.Fatalf("couldn't create YouTube service: %v", err)
	}

	limiter, err := gemini.NewLimiter(cfg, rdb)
	if err != nil {
		log.Fatalf("couldn't create Gemini limiter: %v", err)
	}

	gemini, err := gemini.New(ctx, cfg, limiter)
	if err != nil {
		log.Fatalf("couldn't create Gemini service: %v", err)
	}

	translator, err := translate.New(ctx, cfg)
	if err != nil {
		log.Fatalf("couldn't create Translation service: %v", err)
	}

	pipeline := notes.New(cfg, rdb, yt, yt, gemini, translator)

	return assemble(cfg, store, pipeline, rdb, limiter, rdb.Close)
}

// assemble creates the handlers and the HTTP server around the pipeline
func assemble(
	cfg *config.Config,
	store sessions.Store,
	pipeline *notes.Service,
	health healthChecker,
	quota quotaChecker,
	cleanup func() error,
) *App {

	ui := ui.New(cfg, store, pipeline)

	a := &App{
		notes:   notesHandlers.New(cfg, store, ui, pipeline),
		misc:    misc.New(cfg, health, quota, ui),
		mw:      middlewares.New(ui, cfg),
		cleanup: cleanup,
		domain:  cfg.Domain,
		server: &http.Server{
			Addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			IdleTimeout: time.Minute,
			ReadTimeout: 10 * time.Second,
			// The notes are written only after the whole pipeline is done
			WriteTimeout: cfg.PipelineTimeout + 30*time.Second,
		},
	}

	return a.RegisterRoutes()
}
