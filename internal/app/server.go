package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Start runs the HTTP server and the session sweeper. The returned channel
// is closed on SIGINT/SIGTERM or when the server fails to listen; Err tells
// the two apart.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})
	var once sync.Once
	terminate := func() {
		once.Do(func() {
			if a.cancel != nil {
				a.cancel()
			}
			close(terminateChan)
		})
	}

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			a.errMu.Lock()
			a.serveErr = fmt.Errorf("http server: %w", err)
			a.errMu.Unlock()
			terminate()
		}
	}()

	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		a.sessions.Run(a.ctx, a.config.GetDuration("session.sweep_interval"), func(evicted, remaining int) {
			a.metrics.SessionsEvicted(evicted)
			a.metrics.SessionsActive(remaining)
		})
	}()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		select {
		case <-sigint:
			slog.Info("application gracefully shutdown")
		case <-a.ctx.Done():
		}
		terminate()
	}()

	return terminateChan
}

func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for background workers to finish")
	a.workers.Wait()

	for name, closer := range a.closerFn {
		if name == "HTTP Server" {
			continue
		}
		if err := closer(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", name, "error", err)
		}
	}
}

// Err returns the error that stopped the HTTP server, nil after a signal.
func (a *App) Err() error {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return a.serveErr
}

// ShutdownTimeout bounds how long Stop may wait.
func (a *App) ShutdownTimeout() time.Duration {
	return a.config.GetDuration("server.shutdown_timeout")
}
