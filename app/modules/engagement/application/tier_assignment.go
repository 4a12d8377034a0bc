package engagementservice

import (
	"context"
	"errors"

	engagementdomain "github.com/guildworks/pulse-bot/app/modules/engagement/domain"
	"github.com/guildworks/pulse-bot/app/shared/attr"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// assignTierRoles brings the member's tier roles in line with the new level:
// every configured tier role other than the resolved one is removed, then the
// resolved one is added. Removing a role the member does not hold is a no-op
// at the gateway, so repeated calls with the same level change nothing.
//
// Failures here never affect scoring, which has already committed:
// permission denials are logged, a vanished member is skipped silently.
func (s *EngagementService) assignTierRoles(ctx context.Context, settings engagementdomain.Settings, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, newLevel sharedtypes.Level) {
	if len(settings.TierRoles) == 0 {
		return
	}

	target, ok := engagementdomain.ResolveTier(newLevel, settings.TierRoles)

	for _, threshold := range settings.TierRoles {
		if threshold.RoleID == "" || (ok && threshold.RoleID == target) {
			continue
		}
		if err := s.roles.RemoveTierRole(ctx, guildID, memberID, threshold.RoleID); err != nil {
			if s.logTierRoleError(ctx, "remove", guildID, memberID, threshold.RoleID, err) {
				return
			}
		}
	}

	if !ok {
		return
	}

	if err := s.roles.AddTierRole(ctx, guildID, memberID, target); err != nil {
		s.logTierRoleError(ctx, "add", guildID, memberID, target, err)
	}
}

// logTierRoleError reports a role mutation failure and returns true when the
// member is gone and the whole reassignment should stop.
func (s *EngagementService) logTierRoleError(ctx context.Context, action string, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID, err error) bool {
	if errors.Is(err, ErrUnknownMember) {
		return true
	}
	if errors.Is(err, ErrRolePermissionDenied) {
		s.logger.WarnContext(ctx, "Tier role update denied",
			attr.String("action", action),
			attr.GuildID("guild_id", guildID),
			attr.MemberID("member_id", memberID),
			attr.String("role_id", string(roleID)),
		)
		return false
	}
	s.logger.ErrorContext(ctx, "Tier role update failed",
		attr.String("action", action),
		attr.GuildID("guild_id", guildID),
		attr.MemberID("member_id", memberID),
		attr.String("role_id", string(roleID)),
		attr.Error(err),
	)
	return false
}
