package engagementdomain

import (
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// TierThreshold maps a level threshold to the Discord role granted for it.
type TierThreshold struct {
	Level  sharedtypes.Level      `json:"level"`
	RoleID sharedtypes.TierRoleID `json:"role_id"`
}

// Settings is a guild's scoring configuration, immutable for the duration of
// one scoring operation.
type Settings struct {
	MessageXP             int
	VoiceXPPerMinute      int
	MaxMessagesPerDay     int
	MaxVoiceMinutesPerDay int
	StreakBonusMultiplier int
	WeekendBoostEnabled   bool

	// TierRoles holds the configured tier thresholds. Empty means tier
	// assignment is skipped entirely for the guild.
	TierRoles []TierThreshold
}

// DefaultSettings are the engine defaults applied when a guild has no stored
// configuration.
func DefaultSettings() Settings {
	return Settings{
		MessageXP:             1,
		VoiceXPPerMinute:      2,
		MaxMessagesPerDay:     200,
		MaxVoiceMinutesPerDay: 180,
		StreakBonusMultiplier: 10,
		WeekendBoostEnabled:   true,
	}
}

// BaseUnitXP returns the XP one unit of the given activity kind is worth.
func (s Settings) BaseUnitXP(kind sharedtypes.ActivityKind) int {
	if kind == sharedtypes.ActivityVoiceMinute {
		return s.VoiceXPPerMinute
	}
	return s.MessageXP
}

// DailyCap returns the daily unit cap for the given activity kind.
func (s Settings) DailyCap(kind sharedtypes.ActivityKind) int {
	if kind == sharedtypes.ActivityVoiceMinute {
		return s.MaxVoiceMinutesPerDay
	}
	return s.MaxMessagesPerDay
}
