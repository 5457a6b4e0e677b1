// Package pager drives "load more" feeds: an offset cursor over a sorted
// article query whose pages accumulate into one growing list.
package pager

import (
	"context"
	"errors"
	"sync"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
)

// ErrSuperseded is returned for a page whose response arrived after the feed
// was reset. The page is dropped.
var ErrSuperseded = errors.New("pager: request superseded by a newer reset")

// Lister fetches one window of articles.
type Lister interface {
	ListArticles(ctx context.Context, opts query.Options) ([]models.Article, error)
}

// Filters is the part of a feed the reader can change.
type Filters struct {
	Category    string `json:"category,omitempty"`
	OpinionType string `json:"opinion_type,omitempty"`
	Search      string `json:"search,omitempty"`
}

// State is a snapshot of a feed.
type State struct {
	Filters    Filters          `json:"filters"`
	Items      []models.Article `json:"items"`
	Offset     int              `json:"offset"`
	Limit      int              `json:"limit"`
	Exhausted  bool             `json:"exhausted"`
	Fetching   bool             `json:"fetching"`
	Generation uint64           `json:"generation"`
}

// Pager holds one feed. At most one page request is in flight at a time;
// a reset supersedes whatever was in flight.
type Pager struct {
	lister Lister
	limit  int

	mu        sync.Mutex
	filters   Filters
	items     []models.Article
	seen      map[string]struct{}
	offset    int
	exhausted bool
	fetching  bool
	gen       uint64
	cancel    context.CancelFunc
}

// ticket identifies one page request.
type ticket struct {
	gen    uint64
	reset  bool
	opts   query.Options
	ctx    context.Context
	cancel context.CancelFunc
}

func New(l Lister, limit int, f Filters) *Pager {
	if limit <= 0 {
		limit = query.DefaultLimit
	}
	return &Pager{
		lister:  l,
		limit:   limit,
		filters: f,
		seen:    map[string]struct{}{},
	}
}

// Reset clears the feed, applies f and loads the first page. Any request
// still in flight is cancelled and its response discarded.
func (p *Pager) Reset(ctx context.Context, f Filters) error {
	t := p.beginReset(ctx, f)
	return p.run(t)
}

// LoadMore requests the next page. It reports false without touching the
// store when the feed is exhausted or a request is already in flight.
func (p *Pager) LoadMore(ctx context.Context) (bool, error) {
	t, ok := p.beginMore(ctx)
	if !ok {
		return false, nil
	}
	return true, p.run(t)
}

// Reload re-runs the first page with the current filters.
func (p *Pager) Reload(ctx context.Context) error {
	return p.Reset(ctx, p.Filters())
}

func (p *Pager) Filters() Filters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters
}

// State returns a copy of the feed that is safe to keep.
func (p *Pager) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]models.Article, len(p.items))
	copy(items, p.items)
	return State{
		Filters:    p.filters,
		Items:      items,
		Offset:     p.offset,
		Limit:      p.limit,
		Exhausted:  p.exhausted,
		Fetching:   p.fetching,
		Generation: p.gen,
	}
}

// Close cancels any request in flight.
func (p *Pager) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.fetching = false
}

func (p *Pager) beginReset(ctx context.Context, f Filters) ticket {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	p.filters = f
	p.items = nil
	p.seen = map[string]struct{}{}
	p.offset = 0
	p.exhausted = false
	p.fetching = true

	return p.ticketLocked(ctx, true)
}

func (p *Pager) beginMore(ctx context.Context) (ticket, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.exhausted || p.fetching {
		return ticket{}, false
	}
	p.fetching = true
	return p.ticketLocked(ctx, false), true
}

func (p *Pager) ticketLocked(ctx context.Context, reset bool) ticket {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	return ticket{
		gen:   p.gen,
		reset: reset,
		opts: query.Options{
			Category:    p.filters.Category,
			OpinionType: p.filters.OpinionType,
			Search:      p.filters.Search,
			Limit:       p.limit,
			Offset:      p.offset,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

func (p *Pager) run(t ticket) error {
	defer t.cancel()
	page, err := p.lister.ListArticles(t.ctx, t.opts)
	return p.apply(t, page, err)
}

func (p *Pager) apply(t ticket, page []models.Article, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t.gen != p.gen {
		return ErrSuperseded
	}
	p.fetching = false
	p.cancel = nil
	if err != nil {
		return err
	}

	if t.reset {
		p.items = p.items[:0]
	}
	for _, a := range page {
		if _, dup := p.seen[a.ID]; dup {
			continue
		}
		p.seen[a.ID] = struct{}{}
		p.items = append(p.items, a)
	}
	p.offset += p.limit
	p.exhausted = len(page) < p.limit
	return nil
}
