package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/hyakkun/data-dashboard/internal/traffic"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.traffic.enabled") {
		closer, err := traffic.New(traffic.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.ids,
		})
		if err != nil {
			slog.Error("failed to init module traffic", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Traffic"] = closer
		}
	}
}
