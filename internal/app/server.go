package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start serves HTTP in the background. The returned channel is closed when
// the process receives SIGINT, SIGTERM or SIGHUP.
func (a *App) Start() <-chan struct{} {
	go func() {
		slog.Info("http server listening",
			"address", a.httpServer.Addr,
			"metrics", a.metrics != nil,
			"websocket", a.hub != nil,
		)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	sigCtx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	terminated := make(chan struct{})
	go func() {
		defer stop()
		<-sigCtx.Done()
		slog.Info("termination signal received, shutting down")
		close(terminated)
	}()

	return terminated
}

// Stop stops accepting requests, then releases resources newest first so
// modules drain before the libraries they use.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shut down http server", "error", err)
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resource", "name", c.name, "error", err)
			continue
		}
		slog.InfoContext(ctx, "resource closed", "name", c.name)
	}

	slog.InfoContext(ctx, "application stopped")
}
