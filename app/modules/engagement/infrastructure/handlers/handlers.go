package engagementhandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"

	engagementservice "github.com/guildworks/pulse-bot/app/modules/engagement/application"
	"github.com/guildworks/pulse-bot/app/shared/attr"
	"github.com/guildworks/pulse-bot/app/shared/observability"
)

// Handlers is the set of inbound event handlers the engagement router
// registers.
type Handlers interface {
	HandleGuildMessageCreated(msg *message.Message) ([]*message.Message, error)
}

// EngagementHandlers handles engagement-related inbound events.
type EngagementHandlers struct {
	service engagementservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics observability.EngagementMetrics
}

// NewEngagementHandlers creates a new EngagementHandlers.
func NewEngagementHandlers(
	service engagementservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics observability.EngagementMetrics,
) Handlers {
	return &EngagementHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
	}
}

// wrapHandler handles common tracing, logging, and payload unmarshalling for
// event handlers.
func wrapHandler[T any](
	h *EngagementHandlers,
	handlerName string,
	handlerFunc func(ctx context.Context, msg *message.Message, payload T) ([]*message.Message, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := h.tracer.Start(msg.Context(), handlerName)
		defer span.End()

		ctx = attr.WithCorrelationID(ctx, middleware.MessageCorrelationID(msg))

		h.metrics.RecordOperationAttempt(ctx, handlerName)
		startTime := time.Now()
		defer func() {
			h.metrics.RecordOperationDuration(ctx, handlerName, time.Since(startTime))
		}()

		h.logger.InfoContext(ctx, handlerName+" triggered",
			attr.CorrelationIDFromMsg(msg),
			attr.String("message_id", msg.UUID),
		)

		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.metrics.RecordOperationFailure(ctx, handlerName)
			h.logger.ErrorContext(ctx, "Failed to unmarshal payload",
				attr.CorrelationIDFromMsg(msg),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			return nil, fmt.Errorf("%s: failed to unmarshal payload: %w", handlerName, err)
		}

		result, err := handlerFunc(ctx, msg, payload)
		if err != nil {
			h.metrics.RecordOperationFailure(ctx, handlerName)
			span.RecordError(err)
			return nil, err
		}

		h.metrics.RecordOperationSuccess(ctx, handlerName)
		return result, nil
	}
}
