package leaderboardservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	leaderboarddb "github.com/guildworks/pulse-bot/app/modules/leaderboard/infrastructure/repositories"
	"github.com/guildworks/pulse-bot/app/shared/attr"
	"github.com/guildworks/pulse-bot/app/shared/observability"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

const (
	// DefaultPageSize matches the original leaderboard view.
	DefaultPageSize = 10
	// MaxPageSize bounds a single page request.
	MaxPageSize = 100
)

// Service is the read-only leaderboard surface.
type Service interface {
	// GetStandings returns one ranked page plus the total member count.
	// Offset and limit are clamped to sane bounds.
	GetStandings(ctx context.Context, guildID sharedtypes.GuildID, offset, limit int) (StandingsPage, error)

	// ExportStandings renders the full guild leaderboard as an xlsx
	// workbook.
	ExportStandings(ctx context.Context, guildID sharedtypes.GuildID) ([]byte, error)
}

// StandingsPage is one page of ranked entries.
type StandingsPage struct {
	Entries    []Entry `json:"entries"`
	TotalCount int     `json:"total_count"`
	Offset     int     `json:"offset"`
	Limit      int     `json:"limit"`
}

// Entry is one ranked leaderboard entry. Rank is 1-based and absolute across
// pages.
type Entry struct {
	Rank     int                  `json:"rank"`
	MemberID sharedtypes.MemberID `json:"member_id"`
	Level    sharedtypes.Level    `json:"level"`
	XP       sharedtypes.XP       `json:"xp"`
}

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo    leaderboarddb.Repository
	db      *bun.DB
	logger  *slog.Logger
	metrics observability.EngagementMetrics
	tracer  trace.Tracer
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	db *bun.DB,
	logger *slog.Logger,
	metrics observability.EngagementMetrics,
	tracer trace.Tracer,
) *LeaderboardService {
	return &LeaderboardService{
		repo:    repo,
		db:      db,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// GetStandings returns the requested ranked page.
func (s *LeaderboardService) GetStandings(ctx context.Context, guildID sharedtypes.GuildID, offset, limit int) (StandingsPage, error) {
	ctx, span := s.tracer.Start(ctx, "GetStandings", trace.WithAttributes(
		attribute.String("guild_id", guildID.String()),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, "GetStandings")
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, "GetStandings", time.Since(startTime))
	}()

	offset, limit = clampPage(offset, limit)

	standings, total, err := s.repo.RankedPage(ctx, s.db, guildID, offset, limit)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "GetStandings")
		s.logger.ErrorContext(ctx, "Failed to fetch leaderboard page",
			attr.GuildID("guild_id", guildID),
			attr.Error(err),
		)
		return StandingsPage{}, fmt.Errorf("GetStandings: %w", err)
	}

	if offset > total {
		offset = total
	}

	entries := make([]Entry, 0, len(standings))
	for i, st := range standings {
		entries = append(entries, Entry{
			Rank:     offset + i + 1,
			MemberID: st.MemberID,
			Level:    st.Level,
			XP:       st.XP,
		})
	}

	s.metrics.RecordOperationSuccess(ctx, "GetStandings")
	return StandingsPage{
		Entries:    entries,
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}, nil
}

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return offset, limit
}
