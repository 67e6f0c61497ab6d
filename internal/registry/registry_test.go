package registry

import (
	"sync"
	"testing"

	"prophex/internal/actor"
	"prophex/internal/common"
	"prophex/internal/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SpawnsOnFirstTouch(t *testing.T) {
	r := New(8)
	defer r.Shutdown()

	_, ok := r.Get(1)
	assert.False(t, ok)

	h := r.Resolve(1)
	require.NotNil(t, h)

	_, ok = r.Get(1)
	assert.True(t, ok)
}

func TestResolve_ConcurrentFirstTouchSpawnsExactlyOneActor(t *testing.T) {
	r := New(8)
	defer r.Shutdown()

	const n = 50
	var wg sync.WaitGroup
	handles := make([]*Handle, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = r.Resolve(common.MarketId(7))
		}(i)
	}
	wg.Wait()

	first := handles[0]
	for _, h := range handles {
		assert.Same(t, first, h, "every caller must observe the same actor handle")
	}
	assert.Len(t, r.Markets(), 1)
}

func TestResolve_ActorProcessesCommandsAfterSpawn(t *testing.T) {
	r := New(8)
	defer r.Shutdown()

	h := r.Resolve(1)
	reply := make(chan market.Snapshot, 1)
	h.Inbox <- actor.SnapshotCmd{Reply: reply}

	snap := <-reply
	assert.Empty(t, snap.Yes.Bids)
	assert.Empty(t, snap.No.Bids)
}
