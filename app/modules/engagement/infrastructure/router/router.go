package engagementrouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/guildworks/pulse-bot/app/eventbus"
	engagementevents "github.com/guildworks/pulse-bot/app/modules/engagement/domain/events"
	engagementhandlers "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/handlers"
	"github.com/guildworks/pulse-bot/app/shared/attr"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// EngagementRouter wires the engagement handlers onto the Watermill router.
type EngagementRouter struct {
	logger             *slog.Logger
	Router             *message.Router
	subscriber         eventbus.EventBus
	metricsBuilder     *metrics.PrometheusMetricsBuilder
	prometheusRegistry *prometheus.Registry
	metricsEnabled     bool
}

// NewEngagementRouter creates a new EngagementRouter.
func NewEngagementRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	prometheusRegistry *prometheus.Registry,
) *EngagementRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &EngagementRouter{
		logger:             logger,
		Router:             router,
		subscriber:         subscriber,
		metricsBuilder:     metricsBuilder,
		prometheusRegistry: prometheusRegistry,
		metricsEnabled:     prometheusRegistry != nil && !inTestEnv,
	}
}

// Configure adds middleware and registers the engagement handlers.
func (r *EngagementRouter) Configure(ctx context.Context, handlers engagementhandlers.Handlers) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	if err := r.RegisterHandlers(ctx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// RegisterHandlers registers the inbound event handlers.
func (r *EngagementRouter) RegisterHandlers(ctx context.Context, handlers engagementhandlers.Handlers) error {
	eventsToHandlers := map[string]message.HandlerFunc{
		engagementevents.GuildMessageCreatedV1: handlers.HandleGuildMessageCreated,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("engagement.%s", topic)
		r.Router.AddNoPublisherHandler(
			handlerName,
			topic,
			r.subscriber,
			func(msg *message.Message) error {
				_, err := handlerFunc(msg)
				if err != nil {
					r.logger.ErrorContext(ctx, "Error processing message",
						attr.String("message_id", msg.UUID),
						attr.Error(err),
					)
				}
				return err
			},
		)
	}
	return nil
}
