// Package main is the entry point of the civic site worker.
//
// The worker owns the background side of the site:
//   - keeps the schema of the content database current
//   - records every published domain event in the outbox and relays it
//   - refreshes cached listings (featured items and statistics)
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civic-hub/civic-site/config"
	"github.com/civic-hub/civic-site/internal/application/query"
	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/infrastructure/messaging"
	"github.com/civic-hub/civic-site/internal/infrastructure/persistence/memory"
	"github.com/civic-hub/civic-site/internal/infrastructure/persistence/postgres"
	"github.com/civic-hub/civic-site/internal/infrastructure/persistence/redis"
	"github.com/civic-hub/civic-site/internal/infrastructure/scheduler"
	"github.com/civic-hub/civic-site/internal/infrastructure/scheduler/jobs"
	"github.com/civic-hub/civic-site/pkg/circuitbreaker"
	"github.com/civic-hub/civic-site/pkg/logger"
	"github.com/civic-hub/civic-site/pkg/retry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

// repositories groups the content stores the worker reads and writes.
type repositories struct {
	projects project.Repository
	events   event.Repository
	news     news.Repository
	outbox   messaging.OutboxStore
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION & LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:   cfg.Observability.LogLevel,
		Format:  logger.Format(cfg.Observability.LogFormat),
		Output:  os.Stdout,
		Service: cfg.App.Name,
	})
	slog.SetDefault(log)
	ctx = logger.WithContext(ctx, log)

	log.Info("starting civic site worker",
		slog.String("env", string(cfg.App.Environment)),
		slog.String("version", cfg.App.Version),
		slog.Bool("postgres", cfg.UsePostgres()),
		slog.Bool("redis", cfg.Redis.Enabled))

	// ─────────────────────────────────────────────────────────────────────────
	// 2. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	repos, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	// ─────────────────────────────────────────────────────────────────────────
	// 3. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log
	busConfig.Middlewares = []messaging.Middleware{
		messaging.RecoveryMiddleware(log),
		messaging.LoggingMiddleware(log),
	}
	bus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		_ = bus.Close()
	}()

	if err := bus.SubscribeAll(messaging.OutboxHandler(repos.outbox)); err != nil {
		return fmt.Errorf("subscribe outbox: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. LISTING CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	cacheOpts := query.CacheOptions{TTL: cfg.Listings.CacheTTL}
	if cfg.Redis.Enabled {
		listings, closeCache, err := openListingCache(ctx, cfg, log)
		if err != nil {
			log.Warn("redis unavailable, listing cache disabled", logger.Err(err))
		} else {
			defer closeCache()
			cacheOpts.Cache = listings
			if err := bus.SubscribeAll(redis.InvalidationHandler(listings, log)); err != nil {
				return fmt.Errorf("subscribe cache invalidation: %w", err)
			}
		}
	}

	if cfg.App.SeedDemo && !cfg.UsePostgres() {
		if err := seedDemoContent(ctx, repos.projects, bus, log); err != nil {
			return fmt.Errorf("seed demo content: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	refresher := query.NewListingRefresher(repos.projects, repos.events, repos.news,
		cacheOpts, cfg.Listings.FeaturedLimit, log)

	sched := scheduler.New(scheduler.Config{Logger: log, RunOnStart: true})
	if err := sched.Register(
		jobs.NewRefreshListingsJob(refresher, time.Minute, log),
		scheduler.Every(cfg.Listings.RefreshInterval),
	); err != nil {
		return err
	}
	if err := sched.Register(
		jobs.NewRelayOutboxJob(repos.outbox, jobs.LogSink(log), cfg.Outbox.BatchSize, log),
		scheduler.Every(cfg.Outbox.RelayInterval),
	); err != nil {
		return err
	}
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	log.Info("civic site worker is running")

	// ─────────────────────────────────────────────────────────────────────────
	// 6. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info("received shutdown signal", slog.Duration("timeout", cfg.App.ShutdownTimeout))

	done := make(chan error, 1)
	go func() { done <- sched.Stop() }()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, scheduler.ErrSchedulerNotRunning) {
			log.Error("scheduler stop failed", logger.Err(err))
		}
	case <-time.After(cfg.App.ShutdownTimeout):
		log.Warn("shutdown timed out, abandoning running jobs")
	}

	if m := bus.Metrics(); m != nil {
		s := m.Snapshot()
		log.Info("event bus totals",
			slog.Int64("published", s.TotalPublished),
			slog.Int64("handler_failures", s.HandlerFailures))
	}

	log.Info("shutdown completed successfully")
	return nil
}

// openStorage connects to postgres when DATABASE_URL is set and otherwise
// falls back to in-memory repositories. Events are always kept in memory.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (repositories, func(), error) {
	if !cfg.UsePostgres() {
		log.Warn("DATABASE_URL not set, using in-memory repositories")
		return repositories{
			projects: memory.NewProjectRepository(),
			events:   memory.NewEventRepository(),
			news:     memory.NewNewsRepository(),
			outbox:   messaging.NewMemoryOutbox(),
		}, func() {}, nil
	}

	opts := postgres.DefaultOptions()
	opts.MaxConns = cfg.Database.MaxConns
	opts.MinConns = cfg.Database.MinConns
	opts.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	opts.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	connector := retry.ConnectRetrier(func(attempt int, err error, delay time.Duration) {
		log.Warn("database not ready, retrying",
			slog.Int("attempt", attempt), slog.Duration("delay", delay), logger.Err(err))
	})
	var conn *postgres.Connection
	err := connector.Do(ctx, func(ctx context.Context) error {
		var err error
		conn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL, opts)
		return err
	})
	if err != nil {
		return repositories{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established")

	if cfg.Database.AutoMigrate {
		applied, err := postgres.NewMigrator(conn).Migrate(ctx)
		if err != nil {
			conn.Close()
			return repositories{}, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database schema is up to date", slog.Int("applied", applied))
	}

	return repositories{
		projects: postgres.NewProjectRepository(conn),
		events:   memory.NewEventRepository(),
		news:     postgres.NewNewsRepository(conn),
		outbox:   postgres.NewOutboxRepository(conn),
	}, conn.Close, nil
}

func openListingCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (*redis.ListingCache, func(), error) {
	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.Namespace = cfg.Redis.Namespace
	redisCfg.PoolSize = cfg.Redis.PoolSize

	cache, err := redis.NewCache(ctx, redisCfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("redis connection established", slog.String("addr", redisCfg.Addr()))
	breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state changed",
			slog.String("breaker", name), slog.String("from", from.String()), slog.String("to", to.String()))
	})
	return redis.NewListingCache(cache, breaker), func() { _ = cache.Close() }, nil
}
