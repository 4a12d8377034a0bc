package engagementhandlers

import (
	"context"
	"sync"

	engagementservice "github.com/guildworks/pulse-bot/app/modules/engagement/application"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// FakeService is a programmable stub for the engagement Service interface.
type FakeService struct {
	mu    sync.Mutex
	trace []string

	ProcessActivityFunc func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, kind sharedtypes.ActivityKind, amount int) (engagementservice.ActivityResult, error)
	GetProgressFunc     func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (engagementservice.ProgressSnapshot, error)
}

func NewFakeService() *FakeService {
	return &FakeService{}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeService) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

func (f *FakeService) ProcessActivity(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, kind sharedtypes.ActivityKind, amount int) (engagementservice.ActivityResult, error) {
	f.record("ProcessActivity")
	if f.ProcessActivityFunc != nil {
		return f.ProcessActivityFunc(ctx, guildID, memberID, kind, amount)
	}
	return engagementservice.ActivityResult{}, nil
}

func (f *FakeService) GetProgress(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (engagementservice.ProgressSnapshot, error) {
	f.record("GetProgress")
	if f.GetProgressFunc != nil {
		return f.GetProgressFunc(ctx, guildID, memberID)
	}
	return engagementservice.ProgressSnapshot{}, nil
}
