package engagementservice

import (
	"context"
	"errors"
	"fmt"

	engagementdomain "github.com/guildworks/pulse-bot/app/modules/engagement/domain"
	engagementdb "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/repositories"
	"github.com/guildworks/pulse-bot/app/shared/attr"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// ProcessActivity applies one activity update as a single logically atomic
// step per (guild, member) key. The per-key lock covers the read-modify-write;
// tier and notification side effects run after the row has committed, off the
// lock.
func (s *EngagementService) ProcessActivity(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, kind sharedtypes.ActivityKind, amount int) (ActivityResult, error) {
	return withTelemetry(s, ctx, "ProcessActivity", guildID, memberID, func(ctx context.Context) (ActivityResult, error) {
		if amount <= 0 {
			return ActivityResult{}, ErrInvalidAmount
		}
		if kind != sharedtypes.ActivityMessage && kind != sharedtypes.ActivityVoiceMinute {
			return ActivityResult{}, fmt.Errorf("%w: %q", ErrInvalidActivityKind, kind)
		}

		settings, err := s.guildSettings(ctx, guildID)
		if err != nil {
			return ActivityResult{}, err
		}

		result, err := func() (ActivityResult, error) {
			mu := s.locks.Lock(guildID, memberID)
			// Unlock via defer so a panicking repository (recovered further
			// up) cannot leave the member's key lock held.
			defer mu.Unlock()
			return s.applyLocked(ctx, settings, guildID, memberID, kind, amount)
		}()
		if err != nil {
			return ActivityResult{}, err
		}

		s.dispatchSideEffects(ctx, settings, guildID, memberID, result)

		if result.CapReached {
			s.metrics.RecordActivityCapped(ctx, kind.String())
		} else {
			s.metrics.RecordActivityProcessed(ctx, kind.String())
		}
		return result, nil
	})
}

// applyLocked runs the scoring algorithm while holding the member's key lock.
// On any persistence failure the in-memory computation is discarded and the
// caller sees a transient error; no partial counters become visible.
func (s *EngagementService) applyLocked(ctx context.Context, settings engagementdomain.Settings, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, kind sharedtypes.ActivityKind, amount int) (ActivityResult, error) {
	now := s.now()
	today := engagementdomain.Day(now)
	yesterday := engagementdomain.PreviousDay(now)

	progress, err := s.repo.GetOrCreateProgress(ctx, s.db, engagementdb.NewMemberProgress(guildID, memberID, now))
	if err != nil {
		return ActivityResult{}, err
	}

	dayReset := false
	if progress.LastUpdateDay != today {
		progress.DailyMessages = 0
		progress.DailyVoiceMinutes = 0
		progress.LastUpdateDay = today
		dayReset = true
	}

	result := ActivityResult{
		NewLevel:      progress.Level,
		CurrentStreak: progress.CurrentStreak,
	}

	capped := progress.DailyMessages >= settings.DailyCap(kind)
	if kind == sharedtypes.ActivityVoiceMinute {
		capped = progress.DailyVoiceMinutes >= settings.DailyCap(kind)
	}
	if capped {
		result.CapReached = true
		if dayReset {
			if err := s.repo.UpdateProgress(ctx, s.db, progress); err != nil {
				return ActivityResult{}, err
			}
		}
		return result, nil
	}

	streakBonus := 0
	if kind == sharedtypes.ActivityMessage && progress.DailyMessages == 0 {
		progress.CurrentStreak = engagementdomain.ContinueStreak(progress.CurrentStreak, progress.LastStreakDay, today, yesterday)
		progress.LastStreakDay = today
		result.CurrentStreak = progress.CurrentStreak
		if progress.CurrentStreak > 1 {
			result.StreakExtended = true
			streakBonus = progress.CurrentStreak * settings.StreakBonusMultiplier
		}
	}

	multiplier := engagementdomain.XPMultiplier(now, settings.WeekendBoostEnabled)
	xpToAdd := sharedtypes.XP(settings.BaseUnitXP(kind)*amount*multiplier + streakBonus)

	if kind == sharedtypes.ActivityMessage {
		progress.DailyMessages += amount
	} else {
		progress.DailyVoiceMinutes += amount
	}

	progress.XP, progress.Level, result.LeveledUp = engagementdomain.Normalize(progress.XP+xpToAdd, progress.Level)
	result.NewLevel = progress.Level
	result.XPAwarded = xpToAdd

	if err := s.repo.UpdateProgress(ctx, s.db, progress); err != nil {
		return ActivityResult{}, err
	}
	return result, nil
}

// dispatchSideEffects delivers the best-effort follow-ups of a committed
// update. Nothing here can fail the scoring call.
func (s *EngagementService) dispatchSideEffects(ctx context.Context, settings engagementdomain.Settings, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, result ActivityResult) {
	if result.StreakExtended {
		s.metrics.RecordStreakExtended(ctx)
		if err := s.notifier.NotifyStreakExtended(ctx, guildID, memberID, result.CurrentStreak); err != nil {
			s.logger.WarnContext(ctx, "Failed to send streak notification",
				attr.GuildID("guild_id", guildID),
				attr.MemberID("member_id", memberID),
				attr.Int("streak", result.CurrentStreak),
				attr.Error(err),
			)
		}
	}

	if !result.LeveledUp {
		return
	}

	s.metrics.RecordLevelUp(ctx)
	if err := s.notifier.NotifyLevelUp(ctx, guildID, memberID, result.NewLevel); err != nil {
		if !errors.Is(err, ErrUnknownMember) {
			s.logger.WarnContext(ctx, "Failed to send level-up notification",
				attr.GuildID("guild_id", guildID),
				attr.MemberID("member_id", memberID),
				attr.Int("new_level", int(result.NewLevel)),
				attr.Error(err),
			)
		}
	}

	s.assignTierRoles(ctx, settings, guildID, memberID, result.NewLevel)
}

// GetProgress serves the read-only progress view. When the stored day is
// stale the daily counters are presented as already reset; the engine remains
// the sole writer, so nothing is persisted here.
func (s *EngagementService) GetProgress(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (ProgressSnapshot, error) {
	return withTelemetry(s, ctx, "GetProgress", guildID, memberID, func(ctx context.Context) (ProgressSnapshot, error) {
		snapshot := ProgressSnapshot{
			GuildID:  guildID,
			MemberID: memberID,
			XPNeeded: engagementdomain.XPNeededForLevel(0),
		}

		progress, err := s.repo.GetProgress(ctx, s.db, guildID, memberID)
		if err != nil {
			if errors.Is(err, engagementdb.ErrNotFound) {
				// Lazily-created members look like a fresh row until their
				// first event actually creates one.
				return snapshot, nil
			}
			return ProgressSnapshot{}, err
		}

		snapshot.XP = progress.XP
		snapshot.Level = progress.Level
		snapshot.XPNeeded = engagementdomain.XPNeededForLevel(progress.Level)
		snapshot.CurrentStreak = progress.CurrentStreak

		if progress.LastUpdateDay == engagementdomain.Day(s.now()) {
			snapshot.DailyMessages = progress.DailyMessages
			snapshot.DailyVoiceMinutes = progress.DailyVoiceMinutes
		}
		return snapshot, nil
	})
}
