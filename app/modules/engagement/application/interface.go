package engagementservice

import (
	"context"

	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// Service is the scoring engine's public surface.
type Service interface {
	// ProcessActivity applies one activity update to one member's state:
	// daily-window reset, cap enforcement, streak continuation, XP award,
	// level roll-over, and (on level-up) tier reassignment plus
	// notifications. Updates to the same (guild, member) key are serialized;
	// different keys proceed in parallel.
	ProcessActivity(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, kind sharedtypes.ActivityKind, amount int) (ActivityResult, error)

	// GetProgress returns a member's current progress without mutating it.
	GetProgress(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (ProgressSnapshot, error)
}

// GuildDirectory is the narrow view of the hosting platform the engine needs.
type GuildDirectory interface {
	ListActiveGuilds(ctx context.Context) ([]sharedtypes.GuildID, error)

	// ListActiveVoiceMembers returns members currently in an active voice
	// session in the guild.
	ListActiveVoiceMembers(ctx context.Context, guildID sharedtypes.GuildID) ([]sharedtypes.MemberID, error)

	// IsMemberExcluded reports whether a member must not earn voice XP
	// (bot account or self-muted).
	IsMemberExcluded(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (bool, error)
}

// RoleManager mutates tier roles on the hosting platform. Implementations
// return ErrRolePermissionDenied when the bot lacks the manage-roles
// permission and ErrUnknownMember when the member has left the guild.
type RoleManager interface {
	AddTierRole(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error
	RemoveTierRole(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error
}

// Notifier delivers best-effort member notifications. Failures are logged by
// the caller and never propagated.
type Notifier interface {
	NotifyLevelUp(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, newLevel sharedtypes.Level) error
	NotifyStreakExtended(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, streakLength int) error
}

// ActivityResult reports what one ProcessActivity call did.
type ActivityResult struct {
	NewLevel       sharedtypes.Level
	LeveledUp      bool
	StreakExtended bool

	CurrentStreak int
	XPAwarded     sharedtypes.XP

	// CapReached is true when the relevant daily cap rejected the update.
	// No XP was awarded, but a pending daily reset may still have committed.
	CapReached bool
}

// ProgressSnapshot is the read-only view served to presentation layers.
// Daily counters are presented as already reset when the stored day is stale;
// nothing is written.
type ProgressSnapshot struct {
	GuildID  sharedtypes.GuildID  `json:"guild_id"`
	MemberID sharedtypes.MemberID `json:"member_id"`

	XP       sharedtypes.XP    `json:"xp"`
	XPNeeded sharedtypes.XP    `json:"xp_needed"`
	Level    sharedtypes.Level `json:"level"`

	DailyMessages     int `json:"daily_messages"`
	DailyVoiceMinutes int `json:"daily_voice_minutes"`

	CurrentStreak int `json:"current_streak"`
}
