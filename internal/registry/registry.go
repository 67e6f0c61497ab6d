// Package registry maps a MarketId to its running actor, spawning one the
// first time a market is touched. Readers take the read lock for the common
// case, and only the rare first-touch path pays for the write lock, with a
// double check to avoid spawning twice under a race.
package registry

import (
	"sync"

	"prophex/internal/actor"
	"prophex/internal/common"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// Handle is what callers outside this package hold onto for a running
// market actor: the inbox to send commands on, and the tomb supervising it.
type Handle struct {
	Inbox chan<- any
	tomb  *tomb.Tomb
}

// Kill asks the actor to stop and waits for it to exit.
func (h *Handle) Kill() error {
	h.tomb.Kill(nil)
	return h.tomb.Wait()
}

// Registry is the process-wide table of live market actors.
type Registry struct {
	mu           sync.RWMutex
	markets      map[common.MarketId]*Handle
	inboxCapacity int
}

// New constructs an empty registry. inboxCapacity is passed through to every
// actor spawned; values below actor.DefaultInboxCapacity are raised to it.
func New(inboxCapacity int) *Registry {
	return &Registry{
		markets:       make(map[common.MarketId]*Handle),
		inboxCapacity: inboxCapacity,
	}
}

// Resolve returns the handle for id, spawning a fresh actor on first touch.
// Concurrent first touches of the same id never spawn more than one actor.
func (r *Registry) Resolve(id common.MarketId) *Handle {
	r.mu.RLock()
	h, ok := r.markets[id]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok = r.markets[id]; ok {
		return h
	}

	h = r.spawn(id)
	r.markets[id] = h
	return h
}

// Get returns the handle for id without spawning one, reporting whether it
// exists.
func (r *Registry) Get(id common.MarketId) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.markets[id]
	return h, ok
}

// Markets returns the ids of every market touched so far.
func (r *Registry) Markets() []common.MarketId {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]common.MarketId, 0, len(r.markets))
	for id := range r.markets {
		out = append(out, id)
	}
	return out
}

func (r *Registry) spawn(id common.MarketId) *Handle {
	a := actor.New(id, r.inboxCapacity)
	var t tomb.Tomb
	t.Go(func() error { return a.Run(&t) })
	log.Info().Uint64("market", uint64(id)).Msg("spawned market actor")
	return &Handle{Inbox: a.Inbox(), tomb: &t}
}

// Shutdown kills every live actor and waits for them all to exit.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	handles := make([]*Handle, 0, len(r.markets))
	for _, h := range r.markets {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	for _, h := range handles {
		if err := h.Kill(); err != nil {
			log.Error().Err(err).Msg("market actor shutdown error")
		}
	}
}
