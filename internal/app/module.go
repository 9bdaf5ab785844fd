package app

import (
	"log/slog"
	"os"

	"github.com/Lakshm1-R/placement-app/internal/placement"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.placement.enabled") {
		slog.Warn("placement module disabled")
		return
	}

	closeFn, err := placement.New(placement.Dependency{
		Config:  a.config,
		Router:  a.router,
		Context: a.ctx,
		ID:      a.uuid,
		Seq:     a.seq,
		Metrics: a.metrics,
		Hub:     a.hub,
	})
	if err != nil {
		slog.Error("failed to init module placement", "error", err)
		os.Exit(1)
	}
	if closeFn != nil {
		a.onClose("placement", closeFn)
	}
}
