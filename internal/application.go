package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-table/internal/config"
	"github.com/rocketscienceinc/tictactoe-table/internal/repository"
	"github.com/rocketscienceinc/tictactoe-table/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
	redistransport "github.com/rocketscienceinc/tictactoe-table/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-table/transport/rest"
	"github.com/rocketscienceinc/tictactoe-table/transport/websocket"
)

const shutdownTimeout = 5 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT/SIGTERM or a server failure.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	hub := websocket.NewHub(logger)
	notifiers := tictactoe.Notifiers{hub}

	var sessionRepo repository.SessionRepository

	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		sessionRepo = repository.NewSessionRepository(redisStorage, conf.Redis.KeyPrefix)

		// the table never survives a restart, so drop whatever the last process left
		if err = sessionRepo.Delete(ctx); err != nil {
			return fmt.Errorf("could not clear stale session: %w", err)
		}

		notifiers = append(notifiers, redistransport.New(logger, redisStorage, conf.Redis.KeyPrefix))
		log.Info("Mirroring session to redis", "addr", redisAddrString)
	}

	coordinator := tictactoe.NewCoordinator(logger, notifiers, sessionRepo)

	wsServer := websocket.New(logger, hub, coordinator)
	httpServer := rest.New(logger, conf.HTTPPort, conf.StaticDir, wsServer, coordinator)

	httpErrCh := make(chan error, 1)
	go func() {
		if httpErr := httpServer.Start(); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	hub.CloseAll()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}
