package engagementservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	engagementdomain "github.com/guildworks/pulse-bot/app/modules/engagement/domain"
	engagementdb "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/repositories"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

func tierSettings() engagementdomain.Settings {
	settings := engagementdomain.DefaultSettings()
	settings.TierRoles = []engagementdomain.TierThreshold{
		{Level: 10, RoleID: "role-bronze"},
		{Level: 25, RoleID: "role-silver"},
		{Level: 50, RoleID: "role-gold"},
		{Level: 100, RoleID: "role-legend"},
	}
	return settings
}

func TestAssignTierRoles(t *testing.T) {
	tests := []struct {
		name        string
		level       sharedtypes.Level
		settings    engagementdomain.Settings
		wantAdded   []sharedtypes.TierRoleID
		wantRemoved []sharedtypes.TierRoleID
	}{
		{
			name:        "level between thresholds gets the highest satisfied badge",
			level:       37,
			settings:    tierSettings(),
			wantAdded:   []sharedtypes.TierRoleID{"role-silver"},
			wantRemoved: []sharedtypes.TierRoleID{"role-bronze", "role-gold", "role-legend"},
		},
		{
			name:        "below all thresholds removes everything and adds nothing",
			level:       5,
			settings:    tierSettings(),
			wantRemoved: []sharedtypes.TierRoleID{"role-bronze", "role-silver", "role-gold", "role-legend"},
		},
		{
			name:        "top tier keeps only the top badge",
			level:       120,
			settings:    tierSettings(),
			wantAdded:   []sharedtypes.TierRoleID{"role-legend"},
			wantRemoved: []sharedtypes.TierRoleID{"role-bronze", "role-silver", "role-gold"},
		},
		{
			name:     "no configured tiers is a no-op",
			level:    37,
			settings: engagementdomain.DefaultSettings(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := NewFakeRoleManager()
			svc := newTestService(NewFakeRepository(), roles, NewFakeNotifier(), testMonday)

			svc.assignTierRoles(context.Background(), tt.settings, testGuild, testMember, tt.level)

			assert.Equal(t, tt.wantAdded, roles.Added)
			assert.Equal(t, tt.wantRemoved, roles.Removed)
		})
	}
}

func TestAssignTierRoles_Idempotent(t *testing.T) {
	roles := NewFakeRoleManager()
	svc := newTestService(NewFakeRepository(), roles, NewFakeNotifier(), testMonday)

	svc.assignTierRoles(context.Background(), tierSettings(), testGuild, testMember, 37)
	svc.assignTierRoles(context.Background(), tierSettings(), testGuild, testMember, 37)

	// Repeating the same level issues the same mutations again; removing an
	// unheld role and re-adding a held one are no-ops at the gateway.
	assert.Equal(t, []sharedtypes.TierRoleID{"role-silver", "role-silver"}, roles.Added)
}

func TestAssignTierRoles_PermissionDeniedContinues(t *testing.T) {
	roles := NewFakeRoleManager()
	roles.RemoveTierRoleFunc = func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error {
		if roleID == "role-bronze" {
			return ErrRolePermissionDenied
		}
		return nil
	}
	svc := newTestService(NewFakeRepository(), roles, NewFakeNotifier(), testMonday)

	svc.assignTierRoles(context.Background(), tierSettings(), testGuild, testMember, 37)

	// One removal failed but the rest of the reassignment proceeded.
	assert.Equal(t, []sharedtypes.TierRoleID{"role-gold", "role-legend"}, roles.Removed)
	assert.Equal(t, []sharedtypes.TierRoleID{"role-silver"}, roles.Added)
}

func TestAssignTierRoles_UnknownMemberStops(t *testing.T) {
	roles := NewFakeRoleManager()
	roles.RemoveTierRoleFunc = func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error {
		return ErrUnknownMember
	}
	svc := newTestService(NewFakeRepository(), roles, NewFakeNotifier(), testMonday)

	svc.assignTierRoles(context.Background(), tierSettings(), testGuild, testMember, 37)

	assert.Empty(t, roles.Removed)
	assert.Empty(t, roles.Added, "a vanished member gets no further mutations")
}

func TestProcessActivity_LevelUpAssignsTierRole(t *testing.T) {
	repo := NewFakeRepository()
	repo.SeedConfig(&engagementdb.GuildEngagementConfig{
		GuildID:               testGuild,
		MessageXP:             1,
		VoiceXPPerMinute:      2,
		MaxMessagesPerDay:     200,
		MaxVoiceMinutesPerDay: 180,
		StreakBonusMultiplier: 10,
		WeekendBoostEnabled:   true,
		TierRoles:             tierSettings().TierRoles,
	})
	// Level 9 needs 955 XP to advance; two voice XP tips it over.
	repo.SeedRow(seedRow(testMonday, func(row *engagementdb.MemberProgress) {
		row.Level = 9
		row.XP = 954
	}))
	roles := NewFakeRoleManager()
	svc := newTestService(repo, roles, NewFakeNotifier(), testMonday)

	result, err := svc.ProcessActivity(context.Background(), testGuild, testMember, sharedtypes.ActivityVoiceMinute, 1)

	assert.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, sharedtypes.Level(10), result.NewLevel)
	assert.Equal(t, []sharedtypes.TierRoleID{"role-bronze"}, roles.Added)
	assert.Equal(t, []sharedtypes.TierRoleID{"role-silver", "role-gold", "role-legend"}, roles.Removed)
}
