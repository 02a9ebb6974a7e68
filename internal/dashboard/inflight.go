package dashboard

import (
	"context"
	"sync"
)

// registry tracks cancellable requests keyed by account and operation.
// Starting a request under a busy key cancels the previous one.
type registry struct {
	mu      sync.Mutex
	seq     uint64
	entries map[string]registryEntry
}

type registryEntry struct {
	id     uint64
	cancel context.CancelFunc
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]registryEntry)}
}

func requestKey(username string, op string) string {
	return username + "/" + op
}

// start derives a cancellable context for key. done must be called when the
// request finishes; it releases the key unless a newer request took it.
func (r *registry) start(parent context.Context, key string) (ctx context.Context, done func()) {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	r.seq++
	id := r.seq
	if prev, ok := r.entries[key]; ok {
		prev.cancel()
	}
	r.entries[key] = registryEntry{id: id, cancel: cancel}
	r.mu.Unlock()

	return ctx, func() {
		cancel()

		r.mu.Lock()
		defer r.mu.Unlock()
		if e, ok := r.entries[key]; ok && e.id == id {
			delete(r.entries, key)
		}
	}
}

func (r *registry) cancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, e := range r.entries {
		e.cancel()
		delete(r.entries, key)
	}
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
