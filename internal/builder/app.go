package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type documentCloser interface {
	Close() error
}

// App represents the application with all its components
type App struct {
	server          *http.Server
	documents       documentCloser
	logger          *zap.Logger
	shutdownTimeout time.Duration
}

// Run starts the HTTP server and blocks until a shutdown signal or a server error
func (a *App) Run() error {
	// Start HTTP server in goroutine
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		a.releaseDocuments()
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	// Graceful shutdown
	return a.shutdown()
}

// shutdown stops accepting requests, then removes uploaded documents
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	err := a.server.Shutdown(ctx)
	if err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
	}

	a.releaseDocuments()

	a.logger.Info("Application stopped")
	_ = a.logger.Sync()
	return err
}

func (a *App) releaseDocuments() {
	a.logger.Info("Cleaning up uploaded documents")
	if err := a.documents.Close(); err != nil {
		a.logger.Error("Upload cleanup error", zap.Error(err))
	}
}
