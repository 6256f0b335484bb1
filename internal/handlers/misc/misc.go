package misc

import (
	"context"

	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/drivers/rdb"
	"github.com/vlatan/video-notes/internal/ui"
)

type healthChecker interface {
	Health(ctx context.Context) rdb.HealthStatus
}

type quotaChecker interface {
	Exhausted(ctx context.Context) bool
}

type Service struct {
	config *config.Config
	rdb    healthChecker
	quota  quotaChecker
	ui     ui.Service
}

func New(config *config.Config, rdb healthChecker, quota quotaChecker, ui ui.Service) *Service {
	return &Service{
		config: config,
		rdb:    rdb,
		quota:  quota,
		ui:     ui,
	}
}
