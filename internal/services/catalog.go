package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync/atomic"
	"time"

	"policymap/internal/cache"
	"policymap/internal/core"
	"policymap/internal/metrics"
	"policymap/internal/sources"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNotLoaded is returned by queries issued before the first successful reload.
	ErrNotLoaded = errors.New("catalog not loaded")
	// ErrNotFound is returned when a state is absent from the current snapshot.
	ErrNotFound = errors.New("state not found")
)

// DefaultReloadTimeout bounds a source read when no WithReloadTimeout option is given.
const DefaultReloadTimeout = 30 * time.Second

// Snapshot is one immutable aggregation result. Callers must not modify it.
type Snapshot struct {
	ID        string            `json:"id"`
	LoadedAt  time.Time         `json:"loadedAt"`
	Source    string            `json:"source"`
	Summaries core.Summaries    `json:"-"`
	Dropped   []core.Diagnostic `json:"dropped"`
	TotalRows int               `json:"totalRows"`
	BillsKept int               `json:"billsKept"`
}

// Notifier is told about every snapshot that replaces the current one.
type Notifier interface {
	CatalogReloaded(ctx context.Context, snap *Snapshot) error
}

// Catalog owns the current snapshot and answers queries against it.
type Catalog struct {
	source   sources.BillReader
	ref      *core.Reference
	cache    cache.Cache[[]string]
	metrics  *metrics.Metrics
	notifier Notifier
	now      func() time.Time

	reloadTimeout time.Duration

	group   singleflight.Group
	current atomic.Pointer[Snapshot]
}

type CatalogOption func(*Catalog)

func WithSearchCache(c cache.Cache[[]string]) CatalogOption {
	return func(cat *Catalog) { cat.cache = c }
}

func WithMetrics(m *metrics.Metrics) CatalogOption {
	return func(cat *Catalog) { cat.metrics = m }
}

func WithNotifier(n Notifier) CatalogOption {
	return func(cat *Catalog) { cat.notifier = n }
}

func WithReference(r *core.Reference) CatalogOption {
	return func(cat *Catalog) { cat.ref = r }
}

// WithReloadTimeout bounds each source read. Values of zero or less keep the default.
func WithReloadTimeout(d time.Duration) CatalogOption {
	return func(cat *Catalog) {
		if d > 0 {
			cat.reloadTimeout = d
		}
	}
}

func NewCatalog(source sources.BillReader, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		source:        source,
		ref:           core.DefaultReference(),
		now:           time.Now,
		reloadTimeout: DefaultReloadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reload reads the source and swaps in a new snapshot. Concurrent callers share one
// read, which runs detached from any single caller's cancellation and is bounded by the
// catalog's reload timeout. A caller whose ctx ends first gets ctx.Err() while the shared
// read carries on. On failure the previous snapshot stays in place.
func (c *Catalog) Reload(ctx context.Context) (*Snapshot, error) {
	ch := c.group.DoChan("reload", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.reloadTimeout)
		defer cancel()
		return c.reload(rctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "Joined in-flight catalog reload")
		}
		return res.Val.(*Snapshot), nil
	}
}

func (c *Catalog) reload(ctx context.Context) (*Snapshot, error) {
	start := c.now()
	source := sources.Describe(c.source)

	bills, err := c.source.ReadBills(ctx)
	if err != nil {
		c.metrics.ObserveReload(err, c.now().Sub(start))
		slog.ErrorContext(ctx, "Failed to read bill source", "source", source, "error", err)
		return nil, fmt.Errorf("read bills from %s: %w", source, err)
	}

	var dropped []core.Diagnostic
	summaries := c.ref.Aggregate(bills, func(d core.Diagnostic) {
		slog.WarnContext(ctx, "Dropped bill row", "state", d.State, "row", d.Index, "reason", d.Reason)
		dropped = append(dropped, d)
	})
	if dropped == nil {
		dropped = []core.Diagnostic{}
	}

	snap := &Snapshot{
		ID:        uuid.NewString(),
		LoadedAt:  c.now(),
		Source:    source,
		Summaries: summaries,
		Dropped:   dropped,
		TotalRows: len(bills),
		BillsKept: len(bills) - len(dropped),
	}
	c.current.Store(snap)
	if c.cache != nil {
		c.cache.Purge()
	}

	c.metrics.ObserveReload(nil, c.now().Sub(start))
	c.metrics.SetSnapshot(len(summaries), snap.BillsKept, len(dropped))

	slog.InfoContext(ctx, "Catalog loaded",
		"snapshot_id", snap.ID,
		"source", source,
		"rows", snap.TotalRows,
		"states", len(summaries),
		"dropped", len(dropped),
		"duration", c.now().Sub(start))

	if c.notifier != nil {
		if err := c.notifier.CatalogReloaded(ctx, snap); err != nil {
			slog.ErrorContext(ctx, "Failed to announce catalog reload", "snapshot_id", snap.ID, "error", err)
		}
	}
	return snap, nil
}

// Snapshot returns the current snapshot, or nil before the first successful reload.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

func (c *Catalog) Ready() bool {
	return c.current.Load() != nil
}

func (c *Catalog) summaries() (*Snapshot, error) {
	snap := c.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

func (c *Catalog) Lookup(code string) (core.StateSummary, error) {
	snap, err := c.summaries()
	if err != nil {
		return core.StateSummary{}, err
	}
	s, ok := core.Lookup(code, snap.Summaries)
	if !ok {
		return core.StateSummary{}, fmt.Errorf("lookup %q: %w", code, ErrNotFound)
	}
	return s, nil
}

// LookupFIPS resolves a map geography id to a state summary.
func (c *Catalog) LookupFIPS(id string) (core.StateSummary, error) {
	code, ok := c.ref.CodeForFIPS(id)
	if !ok {
		if _, err := c.summaries(); err != nil {
			return core.StateSummary{}, err
		}
		return core.StateSummary{}, fmt.Errorf("lookup fips %q: %w", id, ErrNotFound)
	}
	return c.Lookup(code)
}

// LookupName resolves an exact display name, as shown by Suggest, to its summary.
func (c *Catalog) LookupName(name string) (core.StateSummary, error) {
	snap, err := c.summaries()
	if err != nil {
		return core.StateSummary{}, err
	}
	code, ok := core.CodeForName(name, snap.Summaries)
	if !ok {
		return core.StateSummary{}, fmt.Errorf("lookup name %q: %w", name, ErrNotFound)
	}
	return snap.Summaries[code], nil
}

// Search returns the matching codes in ascending order.
func (c *Catalog) Search(query string) ([]string, error) {
	snap, err := c.summaries()
	if err != nil {
		return nil, err
	}
	return c.search(snap, query), nil
}

func (c *Catalog) search(snap *Snapshot, query string) []string {
	key := snap.ID + "\x00" + query
	if c.cache != nil {
		if codes, ok := c.cache.Get(key); ok {
			c.metrics.CacheHit()
			return slices.Clone(codes)
		}
		c.metrics.CacheMiss()
	}

	codes := core.Search(query, snap.Summaries)
	sort.Strings(codes)
	if c.cache != nil {
		c.cache.Set(key, slices.Clone(codes))
	}
	return codes
}

// States returns the summaries matching query ordered by display name.
func (c *Catalog) States(query string) ([]core.StateSummary, error) {
	snap, err := c.summaries()
	if err != nil {
		return nil, err
	}
	codes := c.search(snap, query)
	out := make([]core.StateSummary, 0, len(codes))
	for _, code := range codes {
		out = append(out, snap.Summaries[code])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *Catalog) Suggest(query string, limit int) ([]string, error) {
	snap, err := c.summaries()
	if err != nil {
		return nil, err
	}
	return core.Suggest(query, snap.Summaries, limit), nil
}
