package leaderboardservice

import (
	"context"
	"sort"

	"github.com/uptrace/bun"

	leaderboarddb "github.com/guildworks/pulse-bot/app/modules/leaderboard/infrastructure/repositories"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// FakeLeaderboardRepo serves ranked pages from an in-memory slice, sorted the
// way the real query orders rows. Override RankedPageFunc to inject failures.
type FakeLeaderboardRepo struct {
	standings map[sharedtypes.GuildID][]leaderboarddb.Standing

	RankedPageFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, offset, limit int) ([]leaderboarddb.Standing, int, error)
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{
		standings: make(map[sharedtypes.GuildID][]leaderboarddb.Standing),
	}
}

// Seed stores a guild's standings, unordered.
func (f *FakeLeaderboardRepo) Seed(guildID sharedtypes.GuildID, standings []leaderboarddb.Standing) {
	f.standings[guildID] = standings
}

func (f *FakeLeaderboardRepo) RankedPage(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, offset, limit int) ([]leaderboarddb.Standing, int, error) {
	if f.RankedPageFunc != nil {
		return f.RankedPageFunc(ctx, db, guildID, offset, limit)
	}

	all := make([]leaderboarddb.Standing, len(f.standings[guildID]))
	copy(all, f.standings[guildID])
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Level != all[j].Level {
			return all[i].Level > all[j].Level
		}
		return all[i].XP > all[j].XP
	})

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}
