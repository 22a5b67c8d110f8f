package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"undercover/internal/app"
	"undercover/internal/config"
	"undercover/internal/domain"
	"undercover/internal/store"
	httpTransport "undercover/internal/transport/http"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Set up logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	var logger *slog.Logger
	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting undercover lobby server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Backend,
		"vocabulary", cfg.Game.Vocabulary,
	)

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	feed := app.NewFeed(logger)
	defer feed.Close()

	manager := app.NewManager(st, app.DefaultCatalog(), logger,
		app.WithFeed(feed),
		app.WithVocabulary(domain.LookupVocabulary(cfg.Game.Vocabulary)),
	)

	server := httpTransport.NewServer(cfg, manager, feed, map[string]httpTransport.Checker{
		cfg.Store.Backend: httpTransport.CheckerFunc(st.Ping),
	}, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	g.Go(func() error {
		return manager.RunPresence(gctx, cfg.Presence.PruneInterval, cfg.Presence.HeartbeatTimeout)
	})

	g.Go(func() error {
		<-gctx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

// openStore connects the configured lobby backend
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		rdb, err := store.OpenRedis(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("connected to redis", "prefix", cfg.Store.RedisKeyPrefix, "ttl", cfg.Store.LobbyTTL)
		return store.NewRedisStore(rdb, cfg.Store.RedisKeyPrefix, cfg.Store.LobbyTTL), func() { rdb.Close() }, nil

	case "postgres":
		pool, err := store.OpenPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		logger.Info("connected to postgres")
		return store.NewPostgresStore(pool), pool.Close, nil
	}

	return store.NewMemoryStore(), func() {}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
