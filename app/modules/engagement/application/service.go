package engagementservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	engagementdomain "github.com/guildworks/pulse-bot/app/modules/engagement/domain"
	engagementdb "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/repositories"
	"github.com/guildworks/pulse-bot/app/shared/attr"
	"github.com/guildworks/pulse-bot/app/shared/observability"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// EngagementService implements the Service interface.
type EngagementService struct {
	repo     engagementdb.Repository
	db       *bun.DB
	locks    *engagementdb.KeyLockArena
	roles    RoleManager
	notifier Notifier
	logger   *slog.Logger
	metrics  observability.EngagementMetrics
	tracer   trace.Tracer

	// now is swapped out by tests to pin the calendar day.
	now func() time.Time
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(
	repo engagementdb.Repository,
	db *bun.DB,
	roles RoleManager,
	notifier Notifier,
	logger *slog.Logger,
	metrics observability.EngagementMetrics,
	tracer trace.Tracer,
) *EngagementService {
	return &EngagementService{
		repo:     repo,
		db:       db,
		locks:    engagementdb.NewKeyLockArena(),
		roles:    roles,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		now:      time.Now,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func withTelemetry[T any](
	s *EngagementService,
	ctx context.Context,
	operationName string,
	guildID sharedtypes.GuildID,
	memberID sharedtypes.MemberID,
	op operationFunc[T],
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("guild_id", guildID.String()),
		attribute.String("member_id", memberID.String()),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.GuildID("guild_id", guildID),
				attr.MemberID("member_id", memberID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.GuildID("guild_id", guildID),
			attr.MemberID("member_id", memberID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// guildSettings loads the guild's scoring configuration, falling back to the
// engine defaults when none is stored. Store failures other than not-found
// propagate as transient errors.
func (s *EngagementService) guildSettings(ctx context.Context, guildID sharedtypes.GuildID) (engagementdomain.Settings, error) {
	config, err := s.repo.GetGuildConfig(ctx, s.db, guildID)
	if err != nil {
		if errors.Is(err, engagementdb.ErrNotFound) {
			return engagementdomain.DefaultSettings(), nil
		}
		return engagementdomain.Settings{}, fmt.Errorf("failed to load guild config: %w", err)
	}
	return config.Settings(), nil
}
