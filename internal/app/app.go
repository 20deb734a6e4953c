package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/DaySince/internal/config"
)

type App struct {
	Config  *config.Config
	logger  *slog.Logger
	db      io.Closer
	handler http.Handler
}

func NewApp(cfg *config.Config, logger *slog.Logger, db io.Closer, handler http.Handler) *App {
	return &App{
		Config:  cfg,
		logger:  logger,
		db:      db,
		handler: handler,
	}
}

// LoggerIns отдаёт основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run поднимает HTTP сервер и блокируется до SIGINT/SIGTERM или отмены ctx.
func (a *App) Run(ctx context.Context) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%s", a.Config.ServerPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	a.logger.Info("starting http server", "addr", addr)
	runErr := runServer(ctx, ln, a.handler, a.logger)

	// аккуратно закрываем ресурсы даже если сервер упал
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("failed to release resources", "error", closeErr)
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("application stopped")
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}
