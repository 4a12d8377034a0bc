// Package voicescheduler runs the recurring voice presence tally: one
// process-scoped timer that, each interval, awards one voice minute to every
// eligible member currently in a voice session.
package voicescheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	engagementservice "github.com/guildworks/pulse-bot/app/modules/engagement/application"
	"github.com/guildworks/pulse-bot/app/shared/attr"
	"github.com/guildworks/pulse-bot/app/shared/observability"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

const defaultWorkers = 8

// VoiceTally is the single recurring voice tally timer. Ticks never overlap:
// a tick that outruns the interval simply delays the next one.
type VoiceTally struct {
	service   engagementservice.Service
	directory engagementservice.GuildDirectory
	interval  time.Duration
	workers   int
	logger    *slog.Logger
	metrics   observability.EngagementMetrics

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// NewVoiceTally creates the scheduler. It does not start ticking until Start
// is called.
func NewVoiceTally(
	service engagementservice.Service,
	directory engagementservice.GuildDirectory,
	interval time.Duration,
	workers int,
	logger *slog.Logger,
	metrics observability.EngagementMetrics,
) *VoiceTally {
	if interval <= 0 {
		interval = time.Minute
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &VoiceTally{
		service:   service,
		directory: directory,
		interval:  interval,
		workers:   workers,
		logger:    logger,
		metrics:   metrics,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the tick loop. Subsequent calls are no-ops.
func (t *VoiceTally) Start(ctx context.Context) {
	t.startOnce.Do(func() {
		t.started.Store(true)
		go t.run(ctx)
	})
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (t *VoiceTally) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	if t.started.Load() {
		<-t.done
	}
}

func (t *VoiceTally) run(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.InfoContext(ctx, "Voice tally scheduler started",
		attr.Duration("interval", t.interval),
		attr.Int("workers", t.workers),
	)

	for {
		select {
		case <-ctx.Done():
			t.logger.InfoContext(ctx, "Voice tally scheduler stopped", attr.Error(ctx.Err()))
			return
		case <-t.stop:
			t.logger.InfoContext(ctx, "Voice tally scheduler stopped")
			return
		case <-ticker.C:
			// RunTick executes synchronously in the loop goroutine, so a
			// slow enumeration drops ticker ticks instead of overlapping.
			t.RunTick(ctx)
		}
	}
}

// RunTick enumerates every guild's active voice members and submits one
// voice-minute update per eligible member. A failure for one member never
// aborts the rest of the tick.
func (t *VoiceTally) RunTick(ctx context.Context) {
	start := time.Now()

	guilds, err := t.directory.ListActiveGuilds(ctx)
	if err != nil {
		t.logger.ErrorContext(ctx, "Voice tally tick failed to list guilds", attr.Error(err))
		return
	}

	var (
		mu        sync.Mutex
		processed int
		skipped   int
		failed    int
	)

	sem := make(chan struct{}, t.workers)
	var wg sync.WaitGroup

	for _, guildID := range guilds {
		members, err := t.directory.ListActiveVoiceMembers(ctx, guildID)
		if err != nil {
			t.logger.WarnContext(ctx, "Skipping guild in voice tally tick",
				attr.GuildID("guild_id", guildID),
				attr.Error(err),
			)
			continue
		}

		for _, memberID := range members {
			wg.Add(1)
			sem <- struct{}{}
			go func(guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) {
				defer wg.Done()
				defer func() { <-sem }()

				outcome := t.tallyMember(ctx, guildID, memberID)

				mu.Lock()
				switch outcome {
				case tallyProcessed:
					processed++
				case tallySkipped:
					skipped++
				default:
					failed++
				}
				mu.Unlock()
			}(guildID, memberID)
		}
	}

	wg.Wait()

	elapsed := time.Since(start)
	t.metrics.RecordTickDuration(ctx, elapsed)
	t.metrics.RecordTickMembers(ctx, processed, skipped, failed)
	t.logger.InfoContext(ctx, "Voice tally tick finished",
		attr.Int("guilds", len(guilds)),
		attr.Int("processed", processed),
		attr.Int("skipped", skipped),
		attr.Int("failed", failed),
		attr.Duration("elapsed", elapsed),
	)
}

type tallyOutcome int

const (
	tallyProcessed tallyOutcome = iota
	tallySkipped
	tallyFailed
)

func (t *VoiceTally) tallyMember(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) tallyOutcome {
	excluded, err := t.directory.IsMemberExcluded(ctx, guildID, memberID)
	if err != nil {
		t.logger.WarnContext(ctx, "Could not read member presence state, skipping",
			attr.GuildID("guild_id", guildID),
			attr.MemberID("member_id", memberID),
			attr.Error(err),
		)
		return tallyFailed
	}
	if excluded {
		return tallySkipped
	}

	if _, err := t.service.ProcessActivity(ctx, guildID, memberID, sharedtypes.ActivityVoiceMinute, 1); err != nil {
		t.logger.WarnContext(ctx, "Voice minute update failed",
			attr.GuildID("guild_id", guildID),
			attr.MemberID("member_id", memberID),
			attr.Error(err),
		)
		return tallyFailed
	}
	return tallyProcessed
}
