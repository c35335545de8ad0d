// Command catalog-api serves the product catalog over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/catalog-api/pkg/cache"
	"github.com/Sternrassler/catalog-api/pkg/catalog"
	"github.com/Sternrassler/catalog-api/pkg/httpapi"
	"github.com/Sternrassler/catalog-api/pkg/logging"
	"github.com/Sternrassler/catalog-api/pkg/source"
)

const (
	shutdownTimeout = 10 * time.Second
	pingTimeout     = 5 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(newViper())
}

func newRootCmdWith(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "catalog-api",
		Short:        "Product catalog API with a TTL cache in front of Firestore",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.Int("port", 3000, "HTTP port")
	flags.String("log-level", string(logging.LevelInfo), "log level (debug, info, warn, error)")
	flags.String("groups", "", "YAML group configuration file")
	flags.String("cache-backend", backendMemory, "cache backend (memory, redis)")

	for key, name := range map[string]string{
		keyPort:         "port",
		keyLogLevel:     "log-level",
		keyGroupsFile:   "groups",
		keyCacheBackend: "cache-backend",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	return cmd
}

// run wires the application and blocks until ctx ends or the server fails.
func run(ctx context.Context, cfg config) error {
	logging.Setup(logging.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Output:  os.Stderr,
		Service: "catalog-api",
	})
	logger := logging.NewLogger("main")

	groups, err := loadGroups(cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	src, closeSource, err := newSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	svc, err := catalog.NewService(catalog.Config{
		Store:  store,
		Source: src,
		Groups: groups,
		TTL:    cfg.CacheTTL,
	})
	if err != nil {
		return fmt.Errorf("create catalog service: %w", err)
	}

	janitor := cache.NewJanitor(store, cfg.SweepInterval)
	if err := janitor.Start(); err != nil {
		return fmt.Errorf("start cache janitor: %w", err)
	}
	defer janitor.Stop()

	server := httpapi.New(svc, store, httpapi.Config{AllowedOrigins: cfg.AllowedOrigins})

	logger.Info().
		Int("port", cfg.Port).
		Str("cache_backend", cfg.CacheBackend).
		Dur("cache_ttl", cfg.CacheTTL).
		Dur("sweep_interval", cfg.SweepInterval).
		Int("groups", groups.Len()).
		Msg("Starting catalog API")

	return serve(ctx, server, cfg.addr(), logger)
}

type httpServer interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

// serve runs the server until ctx ends, then shuts it down gracefully.
func serve(ctx context.Context, server httpServer, addr string, logger zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func loadGroups(cfg config) (*catalog.Groups, error) {
	if cfg.GroupsFile == "" {
		return catalog.DefaultGroups(), nil
	}
	groups, err := catalog.LoadGroupsFile(cfg.GroupsFile)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	return groups, nil
}

// newStore creates the configured cache backend and its release function.
func newStore(ctx context.Context, cfg config) (cache.Store, func(), error) {
	if cfg.CacheBackend != backendRedis {
		return cache.NewManager(cache.WithDefaultTTL(cfg.CacheTTL)), func() {}, nil
	}

	opts, err := redisOptions(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger := logging.NewLogger("main")
			logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	return cache.NewRedisStore(client, cache.WithDefaultTTL(cfg.CacheTTL)), closeFn, nil
}

// redisOptions accepts a redis:// or rediss:// URL or a plain host:port.
func redisOptions(raw string) (*redis.Options, error) {
	if strings.HasPrefix(raw, "redis://") || strings.HasPrefix(raw, "rediss://") {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", keyRedisURL, err)
		}
		return opts, nil
	}
	if raw == "" {
		return nil, fmt.Errorf("%s is required for the redis cache backend", keyRedisURL)
	}
	return &redis.Options{Addr: raw}, nil
}

// newSource creates the fixture source when configured, Firestore otherwise.
func newSource(ctx context.Context, cfg config) (catalog.Source, func(), error) {
	if cfg.FixturesFile != "" {
		mem, err := source.LoadFixtures(cfg.FixturesFile)
		if err != nil {
			return nil, nil, err
		}
		return mem, func() {}, nil
	}

	fs, err := source.NewFirestore(ctx, source.FirestoreConfig{
		ProjectID:       cfg.ProjectID,
		DatabaseID:      cfg.DatabaseID,
		CredentialsJSON: []byte(cfg.ServiceAccountKey),
		CredentialsFile: cfg.ServiceAccountPath,
	})
	if err != nil {
		return nil, nil, err
	}
	return fs, closer(fs), nil
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger := logging.NewLogger("main")
			logger.Warn().Err(err).Msg("Failed to close document source")
		}
	}
}
