package engagement

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	"github.com/guildworks/pulse-bot/app/eventbus"
	engagementservice "github.com/guildworks/pulse-bot/app/modules/engagement/application"
	engagementhandlers "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/handlers"
	engagementdb "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/repositories"
	engagementrouter "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/router"
	voicescheduler "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/scheduler"
	"github.com/guildworks/pulse-bot/app/shared/observability"
	"github.com/guildworks/pulse-bot/config"
)

// Module represents the engagement module: the scoring service, its inbound
// event router, and the voice tally scheduler.
type Module struct {
	Service    engagementservice.Service
	Router     *engagementrouter.EngagementRouter
	VoiceTally *voicescheduler.VoiceTally

	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// NewModule creates a new instance of the engagement module.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	directory engagementservice.GuildDirectory,
	roles engagementservice.RoleManager,
	notifier engagementservice.Notifier,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.Metrics
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "Initializing engagement module")

	repo := engagementdb.NewRepository()
	service := engagementservice.NewEngagementService(repo, db, roles, notifier, logger, metrics, tracer)

	handlers := engagementhandlers.NewEngagementHandlers(service, logger, tracer, metrics)

	engRouter := engagementrouter.NewEngagementRouter(logger, router, eventBus, obs.Registry.Prometheus)
	if err := engRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure engagement router: %w", err)
	}

	voiceTally := voicescheduler.NewVoiceTally(
		service,
		directory,
		cfg.Engagement.VoiceTallyInterval,
		cfg.Engagement.VoiceTallyWorkers,
		logger,
		metrics,
	)

	return &Module{
		Service:       service,
		Router:        engRouter,
		VoiceTally:    voiceTally,
		observability: obs,
	}, nil
}

// Run starts the voice tally and keeps the module alive until the context is
// canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting engagement module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	m.VoiceTally.Start(ctx)

	<-ctx.Done()
	logger.Info("Engagement module goroutine stopped")
}

// Close stops the scheduler and cancels the module context.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping engagement module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.VoiceTally.Stop()

	logger.Info("Engagement module stopped")
	return nil
}
