package engagementdb

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// KeyLockArena hands out one mutex per (guild, member) key so updates to a
// single progress row are serialized while different rows proceed in
// parallel. Mutexes are created on first use and reused for the process
// lifetime; the arena itself is never locked as a whole.
type KeyLockArena struct {
	locks *xsync.MapOf[string, *sync.Mutex]
}

// NewKeyLockArena creates an empty arena.
func NewKeyLockArena() *KeyLockArena {
	return &KeyLockArena{
		locks: xsync.NewMapOf[string, *sync.Mutex](),
	}
}

// Lock acquires the mutex for the given key and returns it for unlocking.
func (a *KeyLockArena) Lock(guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) *sync.Mutex {
	key := string(guildID) + "/" + string(memberID)
	mu, _ := a.locks.LoadOrCompute(key, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	mu.Lock()
	return mu
}
