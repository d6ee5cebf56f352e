package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/wdm0006/datasweeper/internal/pkg/pkgconfig"
	"github.com/wdm0006/datasweeper/internal/pkg/pkgmetrics"
	"github.com/wdm0006/datasweeper/internal/pkg/pkgrouter"
	"github.com/wdm0006/datasweeper/internal/pkg/pkguid"
	"github.com/wdm0006/datasweeper/internal/session"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid    pkguid.StringID
	metrics *pkgmetrics.Metrics

	// resources
	sessions *session.Store
	workers  sync.WaitGroup

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	errMu    sync.Mutex
	serveErr error

	closerFn map[string]func(context.Context) error
}

// New builds the service from the config file at path; an empty path runs
// on defaults and DATASWEEPER_* environment overrides only.
func New(path string) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	if err := app.initConfig(path); err != nil {
		cancel()
		return nil, err
	}
	app.initLogging()
	app.initLibraries()
	app.initResources()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app, nil
}

// Handler is the fully wrapped HTTP handler the server runs.
func (a *App) Handler() http.Handler { return a.httpServer.Handler }
