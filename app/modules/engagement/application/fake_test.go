package engagementservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/uptrace/bun"

	engagementdb "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/repositories"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// ------------------------
// Fake progress repository
// ------------------------

// FakeRepository provides a programmable stub for the engagementdb.Repository
// interface backed by an in-memory store. Override the Func fields to inject
// failures; unset fields fall through to the store.
type FakeRepository struct {
	mu    sync.Mutex
	trace []string

	rows    map[string]engagementdb.MemberProgress
	configs map[sharedtypes.GuildID]engagementdb.GuildEngagementConfig

	GetProgressFunc         func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (*engagementdb.MemberProgress, error)
	GetOrCreateProgressFunc func(ctx context.Context, db bun.IDB, seed *engagementdb.MemberProgress) (*engagementdb.MemberProgress, error)
	UpdateProgressFunc      func(ctx context.Context, db bun.IDB, progress *engagementdb.MemberProgress) error
	GetGuildConfigFunc      func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*engagementdb.GuildEngagementConfig, error)
}

// NewFakeRepository initializes an empty FakeRepository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		rows:    make(map[string]engagementdb.MemberProgress),
		configs: make(map[sharedtypes.GuildID]engagementdb.GuildEngagementConfig),
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func rowKey(guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) string {
	return fmt.Sprintf("%s/%s", guildID, memberID)
}

// SeedRow stores a progress row directly, bypassing the trace.
func (f *FakeRepository) SeedRow(row *engagementdb.MemberProgress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[rowKey(row.GuildID, row.MemberID)] = *row
}

// SeedConfig stores a guild config directly, bypassing the trace.
func (f *FakeRepository) SeedConfig(config *engagementdb.GuildEngagementConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[config.GuildID] = *config
}

// StoredRow returns a copy of the stored row, or nil when absent.
func (f *FakeRepository) StoredRow(guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) *engagementdb.MemberProgress {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[rowKey(guildID, memberID)]
	if !ok {
		return nil
	}
	return &row
}

func (f *FakeRepository) GetProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (*engagementdb.MemberProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetProgress")
	if f.GetProgressFunc != nil {
		return f.GetProgressFunc(ctx, db, guildID, memberID)
	}
	row, ok := f.rows[rowKey(guildID, memberID)]
	if !ok {
		return nil, engagementdb.ErrNotFound
	}
	return &row, nil
}

func (f *FakeRepository) GetOrCreateProgress(ctx context.Context, db bun.IDB, seed *engagementdb.MemberProgress) (*engagementdb.MemberProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetOrCreateProgress")
	if f.GetOrCreateProgressFunc != nil {
		return f.GetOrCreateProgressFunc(ctx, db, seed)
	}
	key := rowKey(seed.GuildID, seed.MemberID)
	if row, ok := f.rows[key]; ok {
		return &row, nil
	}
	f.rows[key] = *seed
	row := *seed
	return &row, nil
}

func (f *FakeRepository) UpdateProgress(ctx context.Context, db bun.IDB, progress *engagementdb.MemberProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateProgress")
	if f.UpdateProgressFunc != nil {
		return f.UpdateProgressFunc(ctx, db, progress)
	}
	progress.Version++
	f.rows[rowKey(progress.GuildID, progress.MemberID)] = *progress
	return nil
}

func (f *FakeRepository) GetGuildConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*engagementdb.GuildEngagementConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetGuildConfig")
	if f.GetGuildConfigFunc != nil {
		return f.GetGuildConfigFunc(ctx, db, guildID)
	}
	config, ok := f.configs[guildID]
	if !ok {
		return nil, engagementdb.ErrNotFound
	}
	return &config, nil
}

// ------------------------
// Fake role manager
// ------------------------

// FakeRoleManager records role mutations and can be programmed to fail.
type FakeRoleManager struct {
	mu      sync.Mutex
	Added   []sharedtypes.TierRoleID
	Removed []sharedtypes.TierRoleID

	AddTierRoleFunc    func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error
	RemoveTierRoleFunc func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error
}

func NewFakeRoleManager() *FakeRoleManager {
	return &FakeRoleManager{}
}

func (f *FakeRoleManager) AddTierRole(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddTierRoleFunc != nil {
		if err := f.AddTierRoleFunc(ctx, guildID, memberID, roleID); err != nil {
			return err
		}
	}
	f.Added = append(f.Added, roleID)
	return nil
}

func (f *FakeRoleManager) RemoveTierRole(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RemoveTierRoleFunc != nil {
		if err := f.RemoveTierRoleFunc(ctx, guildID, memberID, roleID); err != nil {
			return err
		}
	}
	f.Removed = append(f.Removed, roleID)
	return nil
}

// ------------------------
// Fake notifier
// ------------------------

// FakeNotifier records notifications and can be programmed to fail.
type FakeNotifier struct {
	mu       sync.Mutex
	LevelUps []sharedtypes.Level
	Streaks  []int

	NotifyLevelUpFunc        func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, newLevel sharedtypes.Level) error
	NotifyStreakExtendedFunc func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, streakLength int) error
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (f *FakeNotifier) NotifyLevelUp(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, newLevel sharedtypes.Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NotifyLevelUpFunc != nil {
		if err := f.NotifyLevelUpFunc(ctx, guildID, memberID, newLevel); err != nil {
			return err
		}
	}
	f.LevelUps = append(f.LevelUps, newLevel)
	return nil
}

func (f *FakeNotifier) NotifyStreakExtended(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, streakLength int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NotifyStreakExtendedFunc != nil {
		if err := f.NotifyStreakExtendedFunc(ctx, guildID, memberID, streakLength); err != nil {
			return err
		}
	}
	f.Streaks = append(f.Streaks, streakLength)
	return nil
}
