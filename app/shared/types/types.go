package sharedtypes

// GuildID identifies a Discord guild (one isolated community with its own
// members, config, and leaderboard).
type GuildID string

func (g GuildID) String() string {
	return string(g)
}

// MemberID is a Discord user snowflake scoped to one guild's progress state.
type MemberID string

func (m MemberID) String() string {
	return string(m)
}

// XP is an experience point quantity.
type XP int

// Level is a member's engagement level, starting at 0.
type Level int

// TierRoleID identifies the Discord role granted for a level tier.
type TierRoleID string

// ActivityKind distinguishes the two XP-earning activity paths.
type ActivityKind string

const (
	// ActivityMessage is a discrete message event, one unit per message.
	ActivityMessage ActivityKind = "message"
	// ActivityVoiceMinute is one sampled minute of active voice presence.
	ActivityVoiceMinute ActivityKind = "voice_minute"
)

func (k ActivityKind) String() string {
	return string(k)
}
