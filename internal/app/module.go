package app

import (
	"github.com/wdm0006/datasweeper/internal/sweeper"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.sweeper.enabled") {
		sweeper.New(sweeper.Dependency{
			Config:  a.config,
			Router:  a.router,
			Store:   a.sessions,
			ID:      a.uuid,
			Metrics: a.metrics,
		})
	}
}
