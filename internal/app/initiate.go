package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/cors"

	"github.com/wdm0006/datasweeper/internal/pkg/pkgconfig"
	"github.com/wdm0006/datasweeper/internal/pkg/pkglog"
	"github.com/wdm0006/datasweeper/internal/pkg/pkgmetrics"
	"github.com/wdm0006/datasweeper/internal/pkg/pkgrouter"
	"github.com/wdm0006/datasweeper/internal/pkg/pkguid"
	"github.com/wdm0006/datasweeper/internal/session"
)

// Defaults are the settings used when neither the config file nor the
// environment provides a key.
func Defaults() map[string]any {
	return map[string]any{
		"server.address":             ":8080",
		"server.read_header_timeout": "10s",
		"server.shutdown_timeout":    "15s",
		"upload.max_bytes":           32 << 20,
		"upload.null_tokens":         "",
		"session.ttl":                session.DefaultTTL.String(),
		"session.sweep_interval":     "1m",
		"preview.rows":               5,
		"preview.top_values":         5,
		"cors.allowed_origins":       "*",
		"log.level":                  "info",
		"modules.sweeper.enabled":    true,
	}
}

func (a *App) initConfig(path string) error {
	cfg, err := pkgconfig.NewViper(path, Defaults())
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}
	a.config = cfg
	return nil
}

func (a *App) initLogging() {
	pkglog.InitLogging(os.Stdout, pkglog.ParseLevel(a.config.GetString("log.level")))
}

func (a *App) initLibraries() {
	a.uuid = pkguid.NewUUID()
	a.metrics = pkgmetrics.New()
}

func (a *App) initResources() {
	a.sessions = session.NewStore(a.config.GetDuration("session.ttl"))
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)
	a.router.Use(pkgrouter.Metrics(a.metrics))

	a.router.GET("/health", func(context.Context, *http.Request) (any, error) {
		return HealthResponse{Status: "ok", Sessions: a.sessions.Len()}, nil
	})
	a.router.Handle(http.MethodGet, "/metrics", a.metrics.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("cors.allowed_origins"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", pkgrouter.HeaderCorrelationID},
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: a.config.GetDuration("server.read_header_timeout"),
	}
}

func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
