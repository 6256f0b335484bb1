package notes

import (
	"context"

	"github.com/gorilla/sessions"
	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/internal/ui"
)

// The notes pipeline as the handlers see it
type pipeline interface {
	Run(ctx context.Context, session *models.Session) (*models.Notes, error)
	Languages(ctx context.Context) models.Languages
	Title(ctx context.Context, videoID string) string
}

type Service struct {
	config *config.Config
	store  sessions.Store
	ui     ui.Service
	notes  pipeline
}

func New(config *config.Config, store sessions.Store, ui ui.Service, notes pipeline) *Service {
	return &Service{
		config: config,
		store:  store,
		ui:     ui,
		notes:  notes,
	}
}
