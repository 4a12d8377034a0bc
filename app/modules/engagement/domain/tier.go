package engagementdomain

import (
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// ResolveTier selects the single tier role a member at the given level should
// hold: the role whose threshold is the highest one still satisfied. The
// second return is false when no threshold is met or none are configured.
func ResolveTier(level sharedtypes.Level, thresholds []TierThreshold) (sharedtypes.TierRoleID, bool) {
	var (
		best      sharedtypes.TierRoleID
		bestLevel sharedtypes.Level = -1
	)
	for _, t := range thresholds {
		if t.RoleID == "" {
			continue
		}
		if level >= t.Level && t.Level > bestLevel {
			best = t.RoleID
			bestLevel = t.Level
		}
	}
	return best, bestLevel >= 0
}
