package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/guildworks/pulse-bot/api"
	"github.com/guildworks/pulse-bot/app/adapters/discordgateway"
	"github.com/guildworks/pulse-bot/app/eventbus"
	"github.com/guildworks/pulse-bot/app/modules/engagement"
	"github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/notifications"
	"github.com/guildworks/pulse-bot/app/modules/leaderboard"
	"github.com/guildworks/pulse-bot/app/shared/observability"
	"github.com/guildworks/pulse-bot/config"
)

// App aggregates the wired modules and their shared infrastructure.
type App struct {
	Config        *config.Config
	Observability *observability.Observability

	DB       *bun.DB
	NatsConn *nats.Conn
	EventBus eventbus.EventBus
	Router   *message.Router

	Engagement  *engagement.Module
	Leaderboard *leaderboard.Module

	httpServer *http.Server
}

// NewApp initializes the application with the necessary services and
// configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.Init(observability.Config{
		Environment: cfg.Observability.Environment,
		LogLevel:    cfg.Observability.LogLevel,
	})
	logger := obs.Provider.Logger

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())

	nc, err := nats.Connect(cfg.NATS.URL,
		nats.RetryOnFailedConnect(true),
		nats.Timeout(30*time.Second),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	wmLogger := watermill.NewSlogLogger(logger)
	bus, err := eventbus.NewNatsEventBus(cfg.NATS.URL, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}

	gateway := discordgateway.NewClient(nc)
	notifier := notifications.NewBusNotifier(bus)

	engagementModule, err := engagement.NewModule(ctx, cfg, obs, db, bus, wmRouter, gateway, gateway, notifier)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engagement module: %w", err)
	}

	leaderboardModule := leaderboard.NewModule(ctx, obs, db)

	httpRouter := api.NewRouter(
		engagementModule.Service,
		leaderboardModule.Service,
		obs.Registry.Prometheus,
		cfg.JWT.Secret,
	)

	logger.InfoContext(ctx, "Application wired", "environment", cfg.Observability.Environment)

	return &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		NatsConn:      nc,
		EventBus:      bus,
		Router:        wmRouter,
		Engagement:    engagementModule,
		Leaderboard:   leaderboardModule,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           httpRouter,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run starts the Watermill router, the engagement module, and the HTTP
// server, then blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Provider.Logger

	var wg sync.WaitGroup

	wg.Add(1)
	go a.Engagement.Run(ctx, &wg)

	go func() {
		logger.Info("HTTP API listening", "address", a.Config.HTTP.Address)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	// Run blocks until the context is canceled.
	if err := a.Router.Run(ctx); err != nil {
		return fmt.Errorf("watermill router stopped: %w", err)
	}

	wg.Wait()
	return nil
}

// Close shuts everything down in reverse dependency order.
func (a *App) Close() error {
	logger := a.Observability.Provider.Logger

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if err := a.Engagement.Close(); err != nil {
		logger.Error("Engagement module shutdown failed", "error", err)
	}

	if err := a.EventBus.Close(); err != nil {
		logger.Error("Event bus shutdown failed", "error", err)
	}

	a.NatsConn.Close()

	if err := a.DB.Close(); err != nil {
		logger.Error("Database shutdown failed", "error", err)
	}
	return nil
}
