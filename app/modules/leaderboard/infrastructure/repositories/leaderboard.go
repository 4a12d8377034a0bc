// Package leaderboarddb provides the read-only ranked view over member
// progress. It never mutates state; the engagement module owns all writes.
package leaderboarddb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	engagementdb "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/repositories"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// Standing is one ranked leaderboard row.
type Standing struct {
	MemberID sharedtypes.MemberID `json:"member_id"`
	Level    sharedtypes.Level    `json:"level"`
	XP       sharedtypes.XP       `json:"xp"`
}

// Repository defines the ranked range query contract.
type Repository interface {
	// RankedPage returns one page of standings ordered by level descending,
	// then xp descending, plus the guild's total member count. Ties on
	// (level, xp) may come back in either order across queries.
	RankedPage(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, offset, limit int) ([]Standing, int, error)
}

// LeaderboardDBImpl is the bun-backed Repository implementation.
type LeaderboardDBImpl struct{}

// NewRepository returns the bun-backed repository.
func NewRepository() Repository {
	return &LeaderboardDBImpl{}
}

func (r *LeaderboardDBImpl) RankedPage(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, offset, limit int) ([]Standing, int, error) {
	total, err := db.NewSelect().
		Model((*engagementdb.MemberProgress)(nil)).
		Where("guild_id = ?", guildID).
		Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count members for guild %s: %w", guildID, err)
	}

	standings := make([]Standing, 0, limit)
	err = db.NewSelect().
		Model((*engagementdb.MemberProgress)(nil)).
		Column("member_id", "level", "xp").
		Where("guild_id = ?", guildID).
		OrderExpr("level DESC, xp DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx, &standings)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch leaderboard page for guild %s: %w", guildID, err)
	}

	return standings, total, nil
}
