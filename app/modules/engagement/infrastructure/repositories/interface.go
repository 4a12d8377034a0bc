package engagementdb

import (
	"context"

	"github.com/uptrace/bun"

	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// Repository defines the contract for member progress persistence.
//
// Error semantics:
//   - ErrNotFound: record does not exist
//   - ErrVersionConflict: conditional update lost a version race
//   - Other errors: infrastructure failures (connection, query errors)
type Repository interface {
	// GetProgress retrieves one member's progress row.
	// Returns ErrNotFound when the member has no row yet.
	GetProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (*MemberProgress, error)

	// GetOrCreateProgress retrieves the row, lazily inserting the given seed
	// when none exists. The returned row is the persisted state either way.
	GetOrCreateProgress(ctx context.Context, db bun.IDB, seed *MemberProgress) (*MemberProgress, error)

	// UpdateProgress writes the row conditionally on its Version column and
	// bumps the version. Returns ErrVersionConflict when the stored version
	// no longer matches.
	UpdateProgress(ctx context.Context, db bun.IDB, progress *MemberProgress) error

	// GetGuildConfig retrieves a guild's scoring configuration.
	// Returns ErrNotFound when the guild has none.
	GetGuildConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*GuildEngagementConfig, error)
}
