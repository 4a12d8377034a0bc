// Package engagementevents defines the versioned topics and payloads the
// engagement module consumes and emits.
package engagementevents

import (
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

const (
	// GuildMessageCreatedV1 is published by the Discord gateway for every
	// guild message; it drives Message activity scoring.
	GuildMessageCreatedV1 = "guild.message.created.v1"

	// MemberLevelUpV1 announces a level-up. The gateway renders the
	// congratulation embed from it. Best-effort.
	MemberLevelUpV1 = "engagement.member.level_up.v1"

	// MemberStreakExtendedV1 announces a streak extension past one day.
	// Best-effort.
	MemberStreakExtendedV1 = "engagement.member.streak_extended.v1"
)

// GuildMessageCreatedPayloadV1 is the inbound message-activity event.
type GuildMessageCreatedPayloadV1 struct {
	GuildID     sharedtypes.GuildID  `json:"guild_id"`
	MemberID    sharedtypes.MemberID `json:"member_id"`
	MessageID   string               `json:"message_id"`
	ChannelID   string               `json:"channel_id"`
	AuthorIsBot bool                 `json:"author_is_bot"`
}

// MemberLevelUpPayloadV1 names the new level reached.
type MemberLevelUpPayloadV1 struct {
	GuildID  sharedtypes.GuildID  `json:"guild_id"`
	MemberID sharedtypes.MemberID `json:"member_id"`
	NewLevel sharedtypes.Level    `json:"new_level"`
}

// MemberStreakExtendedPayloadV1 carries the new streak length.
type MemberStreakExtendedPayloadV1 struct {
	GuildID      sharedtypes.GuildID  `json:"guild_id"`
	MemberID     sharedtypes.MemberID `json:"member_id"`
	StreakLength int                  `json:"streak_length"`
}
