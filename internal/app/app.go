package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bugtrack/internal/bugs"
	"github.com/MrSnakeDoc/bugtrack/internal/config"
	"github.com/MrSnakeDoc/bugtrack/internal/events"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
	"github.com/MrSnakeDoc/bugtrack/internal/redis"
	"github.com/MrSnakeDoc/bugtrack/internal/scheduler"
	"github.com/MrSnakeDoc/bugtrack/internal/seed"
	"github.com/MrSnakeDoc/bugtrack/internal/store/memory"
	"github.com/MrSnakeDoc/bugtrack/internal/utils"
	"github.com/MrSnakeDoc/bugtrack/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	resetter    *scheduler.SeedResetter
}

// New wires the store, service, event sinks and HTTP server from cfg.
// Redis is only dialled when an address is configured.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	notifiers := events.Fanout{events.LogNotifier{Logger: log.With(logger.String("component", "events"))}}

	var redisClient *goredis.Client
	if cfg.RedisEnabled() {
		client, err := redis.Connect(context.Background(), redis.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client
		notifiers = append(notifiers, events.NewRedisPublisher(client, cfg.RedisChannel))
		log.Info("publishing bug events to redis", logger.String("channel", cfg.RedisChannel))
	} else {
		log.Info("redis not configured, bug events are only logged")
	}

	store := memory.New(nil, memory.Options{
		Latency: memory.Latency{
			List:   cfg.LatencyList,
			Create: cfg.LatencyCreate,
			Update: cfg.LatencyUpdate,
			Delete: cfg.LatencyDelete,
		},
		Notifier: notifiers,
		Logger:   log.With(logger.String("component", "store")),
	})

	resetTrigger := make(chan struct{}, 1)
	resetter := scheduler.NewSeedResetter(
		seed.NewLoader(cfg.SeedFile),
		store,
		log.With(logger.String("component", "seed")),
		cfg.ResetInterval,
		resetTrigger,
	)

	d := deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		Build:           version.Get(),
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Bugs:            bugs.NewService(store),
		Store:           store,
		RedisClient:     redisClient,
		EventsChannel:   cfg.RedisChannel,
		ResetTrigger:    resetTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      log,
		server:      httpserver.New(cfg, d),
		redisClient: redisClient,
		resetter:    resetter,
	}, nil
}

func (a *App) Run() error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting bugtrack %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.Get().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.resetter.Start(ctx); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}
	a.logger.Info("seed resetter started", logger.Duration("interval", a.cfg.ResetInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.resetter.Stop()
		return err
	}

	a.resetter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, "redis client", a.logger)
	}

	a.logger.Info("✅ bugtrack stopped cleanly")
	return nil
}
