package appbuilder

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rabbitmq"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	Logger         *logger.Logger
	Addr           string
	WorkerServices []rabbitmq.WorkerService
	Engine         *gin.Engine
	Closers        []io.Closer
}

type ApplicationInterface interface {
	Start()
}

// Start blocks until SIGINT/SIGTERM, then shuts everything down.
func (a *Application) Start() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Logger.Fatal(err, "Application stopped with error")
	}
}

func (a *Application) Run(ctx context.Context) error {
	a.Logger.Info("Starting Application runtime...")

	for _, ws := range a.WorkerServices {
		a.Logger.Infof("Starting %s WorkerService", ws.GetServiceName())
		ws.StartService()
	}

	server := &http.Server{
		Addr:              a.Addr,
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.Logger.Infof("REST API is now listening on: %s", a.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown signal received")
	case runErr = <-serveErr:
	}

	a.shutdown(server)
	return runErr
}

func (a *Application) shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		a.Logger.Error(err, "HTTP server shutdown failed")
	}

	for _, ws := range a.WorkerServices {
		a.Logger.Infof("Stopping %s WorkerService", ws.GetServiceName())
		ws.StopService()
	}

	for i := len(a.Closers) - 1; i >= 0; i-- {
		if err := a.Closers[i].Close(); err != nil {
			a.Logger.Error(err, "Failed to close resource")
		}
	}
	a.Logger.Info("Application stopped")
}
