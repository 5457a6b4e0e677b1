package pager

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bilgisen/breakdown/internal/logger"
)

// DefaultTTL is how long an untouched feed is kept.
const DefaultTTL = 30 * time.Minute

// Registry keeps the feeds of remote readers keyed by an opaque id. Feeds
// are independent of each other; each one guards its own state.
type Registry struct {
	lister Lister
	limit  int
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	feeds map[string]*entry
}

type entry struct {
	pager    *Pager
	lastUsed time.Time
}

func NewRegistry(l Lister, limit int, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		lister: l,
		limit:  limit,
		ttl:    ttl,
		now:    time.Now,
		feeds:  make(map[string]*entry),
	}
}

// Create registers an empty feed with the given filters. The caller loads
// the first page with Reset.
func (r *Registry) Create(f Filters) (string, *Pager) {
	id := uuid.NewString()
	p := New(r.lister, r.limit, f)

	r.mu.Lock()
	r.feeds[id] = &entry{pager: p, lastUsed: r.now()}
	r.mu.Unlock()
	return id, p
}

// Get returns the feed and marks it used.
func (r *Registry) Get(id string) (*Pager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.feeds[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.pager, true
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.feeds[id]
	delete(r.feeds, id)
	r.mu.Unlock()

	if ok {
		e.pager.Close()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.feeds)
}

// Sweep drops feeds idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Pager
	for id, e := range r.feeds {
		if e.lastUsed.Before(cutoff) {
			expired = append(expired, e.pager)
			delete(r.feeds, id)
		}
	}
	r.mu.Unlock()

	for _, p := range expired {
		p.Close()
	}
	return len(expired)
}

// Run sweeps expired feeds until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	log := logger.Component("pager")
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Debug().Int("expired", n).Int("active", r.Len()).Msg("Swept idle feeds")
			}
		}
	}
}
