package engagementdb

import (
	"time"

	"github.com/uptrace/bun"

	engagementdomain "github.com/guildworks/pulse-bot/app/modules/engagement/domain"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// MemberProgress is one member's engagement state within one guild.
// The scoring engine is its sole writer.
type MemberProgress struct {
	bun.BaseModel `bun:"table:member_progress,alias:mp"`

	GuildID  sharedtypes.GuildID  `bun:"guild_id,pk"`
	MemberID sharedtypes.MemberID `bun:"member_id,pk"`

	XP    sharedtypes.XP    `bun:"xp,notnull,default:0"`
	Level sharedtypes.Level `bun:"level,notnull,default:0"`

	DailyMessages     int    `bun:"daily_messages,notnull,default:0"`
	DailyVoiceMinutes int    `bun:"daily_voice_minutes,notnull,default:0"`
	LastUpdateDay     string `bun:"last_update_date"`

	CurrentStreak int    `bun:"current_streak,notnull,default:0"`
	LastStreakDay string `bun:"last_streak_date"`

	// Version guards against a concurrent writer outside this process;
	// in-process serialization is the per-key lock arena.
	Version int64 `bun:"version,notnull,default:0"`

	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// NewMemberProgress seeds a fresh row at the moment of a member's first event.
// LastStreakDay starts at yesterday so the first message begins a 1-day streak
// without firing a streak notification.
func NewMemberProgress(guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, now time.Time) *MemberProgress {
	return &MemberProgress{
		GuildID:       guildID,
		MemberID:      memberID,
		LastUpdateDay: engagementdomain.Day(now),
		LastStreakDay: engagementdomain.PreviousDay(now),
	}
}

// GuildEngagementConfig stores a guild's scoring configuration.
type GuildEngagementConfig struct {
	bun.BaseModel `bun:"table:guild_engagement_config,alias:gec"`

	GuildID sharedtypes.GuildID `bun:"guild_id,pk"`

	MessageXP             int  `bun:"message_xp,notnull,default:1"`
	VoiceXPPerMinute      int  `bun:"voice_xp_per_minute,notnull,default:2"`
	MaxMessagesPerDay     int  `bun:"max_messages_per_day,notnull,default:200"`
	MaxVoiceMinutesPerDay int  `bun:"max_voice_minutes_per_day,notnull,default:180"`
	StreakBonusMultiplier int  `bun:"streak_bonus_multiplier,notnull,default:10"`
	WeekendBoostEnabled   bool `bun:"weekend_boost_enabled,notnull,default:true"`

	TierRoles []engagementdomain.TierThreshold `bun:"tier_roles,type:jsonb"`

	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Settings converts a stored config row into domain settings.
func (c *GuildEngagementConfig) Settings() engagementdomain.Settings {
	return engagementdomain.Settings{
		MessageXP:             c.MessageXP,
		VoiceXPPerMinute:      c.VoiceXPPerMinute,
		MaxMessagesPerDay:     c.MaxMessagesPerDay,
		MaxVoiceMinutesPerDay: c.MaxVoiceMinutesPerDay,
		StreakBonusMultiplier: c.StreakBonusMultiplier,
		WeekendBoostEnabled:   c.WeekendBoostEnabled,
		TierRoles:             c.TierRoles,
	}
}
