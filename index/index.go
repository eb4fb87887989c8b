package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/cooltech/fridgebot/ai"
	"github.com/cooltech/fridgebot/core"
	"github.com/panjf2000/ants/v2"
)

// entry pairs a catalog record with its embedding vector. Entries are kept
// sorted by record ID so every scan is deterministic.
type entry struct {
	record core.CatalogRecord
	vector []float32
}

// Index is an immutable in-memory vector index snapshot over catalog
// records. A snapshot is never mutated after construction: Add returns a new
// snapshot, and concurrent Search calls need no locking.
type Index struct {
	entries []entry
	dim     int
	metric  Metric
}

// Option configures index construction.
type Option func(*buildConfig)

type buildConfig struct {
	poolSize int
	metric   Metric
	logger   *slog.Logger
}

// WithPoolSize sets the worker pool size for concurrent embedding during
// Build. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *buildConfig) {
		if size < 1 {
			size = 1
		}
		c.poolSize = size
	}
}

// WithMetric sets the similarity metric. Default is Cosine.
func WithMetric(metric Metric) Option {
	return func(c *buildConfig) {
		if metric != nil {
			c.metric = metric
		}
	}
}

// WithLogger sets a custom logger for Build.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *buildConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newBuildConfig(opts []Option) *buildConfig {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	c := &buildConfig{
		poolSize: poolSize,
		metric:   Cosine,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Build embeds every record and constructs a new index snapshot. The build
// is all-or-nothing: if any embedding fails, no index is returned and no
// partially-built state is observable to callers. Records are embedded
// concurrently on a worker pool; the first failure cancels the remaining
// work.
func Build(ctx context.Context, records []core.CatalogRecord, embedder ai.Embedder, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder required", ErrBuildFailed)
	}
	if err := core.ValidateRecords(records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	cfg := newBuildConfig(opts)
	cfg.logger.Info("building index", "records", len(records), "workers", cfg.poolSize)

	idx := &Index{metric: cfg.metric}
	if len(records) == 0 {
		return idx, nil
	}

	pool, err := ants.NewPool(cfg.poolSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	defer pool.Release()

	embedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	vectors := make([][]float32, len(records))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for i := range records {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			vec, embedErr := embedder.EmbedText(embedCtx, records[i].Text)
			if embedErr != nil {
				errOnce.Do(func() {
					firstErr = embedErr
					cancel()
				})
				return
			}
			vectors[i] = vec
		})
		if submitErr != nil {
			wg.Done()
			errOnce.Do(func() {
				firstErr = submitErr
				cancel()
			})
		}
	}
	wg.Wait()

	if firstErr != nil {
		cfg.logger.Error("index build failed", "err", firstErr)
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, firstErr)
	}

	// The dimension of the first vector fixes the index dimension for its
	// whole lifetime.
	idx.dim = len(vectors[0])
	if idx.dim == 0 {
		return nil, fmt.Errorf("%w: embedder produced an empty vector", ErrBuildFailed)
	}

	idx.entries = make([]entry, len(records))
	for i := range records {
		if len(vectors[i]) != idx.dim {
			return nil, fmt.Errorf("%w: %w: record %q has dimension %d, index has %d",
				ErrBuildFailed, ErrDimensionMismatch, records[i].ID, len(vectors[i]), idx.dim)
		}
		idx.entries[i] = entry{record: records[i], vector: vectors[i]}
	}
	sort.Slice(idx.entries, func(a, b int) bool {
		return idx.entries[a].record.ID < idx.entries[b].record.ID
	})

	cfg.logger.Info("index built", "entries", len(idx.entries), "dimension", idx.dim)
	return idx, nil
}

// Add embeds one record and returns a new snapshot containing it. The
// receiver is never mutated: on any failure the existing snapshot is
// unchanged and remains valid (atomic insert).
func (idx *Index) Add(ctx context.Context, record core.CatalogRecord, embedder ai.Embedder) (*Index, error) {
	if err := core.ValidateRecord(&record); err != nil {
		return nil, err
	}
	if _, ok := idx.lookup(record.ID); ok {
		return nil, fmt.Errorf("%w: %q", core.ErrDuplicateRecord, record.ID)
	}

	vec, err := embedder.EmbedText(ctx, record.Text)
	if err != nil {
		return nil, err
	}
	if idx.dim != 0 && len(vec) != idx.dim {
		return nil, fmt.Errorf("%w: record %q has dimension %d, index has %d",
			ErrDimensionMismatch, record.ID, len(vec), idx.dim)
	}

	next := &Index{
		dim:    idx.dim,
		metric: idx.metric,
	}
	if next.dim == 0 {
		next.dim = len(vec)
	}
	pos, _ := slices.BinarySearchFunc(idx.entries, record.ID, func(e entry, id string) int {
		return strings.Compare(e.record.ID, id)
	})
	next.entries = make([]entry, 0, len(idx.entries)+1)
	next.entries = append(next.entries, idx.entries[:pos]...)
	next.entries = append(next.entries, entry{record: record, vector: vec})
	next.entries = append(next.entries, idx.entries[pos:]...)
	return next, nil
}

// Search returns up to k entries nearest to the query vector by the
// configured similarity metric, ordered by descending score. Equal scores
// are ordered by ascending record ID, so a fixed snapshot and query always
// produce the same result.
func (idx *Index) Search(queryVector []float32, k int) ([]core.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidLimit, k)
	}
	if len(idx.entries) == 0 {
		return nil, ErrEmptyIndex
	}
	if len(queryVector) != idx.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			ErrDimensionMismatch, len(queryVector), idx.dim)
	}

	metric := idx.metric
	if metric == nil {
		metric = Cosine
	}

	results := make([]core.SearchResult, len(idx.entries))
	for i := range idx.entries {
		results[i] = core.SearchResult{
			Record: &idx.entries[i].record,
			Score:  metric(queryVector, idx.entries[i].vector),
		}
	}

	// Entries are ID-sorted, so a stable sort by score leaves ties in
	// ascending ID order.
	slices.SortStableFunc(results, func(a, b core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Len returns the number of entries in the snapshot.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Dimension returns the fixed embedding dimension, or 0 for an empty index.
func (idx *Index) Dimension() int {
	return idx.dim
}

// IDs returns every record ID in the snapshot, in ascending order.
func (idx *Index) IDs() []string {
	ids := make([]string, len(idx.entries))
	for i := range idx.entries {
		ids[i] = idx.entries[i].record.ID
	}
	return ids
}

func (idx *Index) lookup(id string) (*entry, bool) {
	pos, ok := slices.BinarySearchFunc(idx.entries, id, func(e entry, want string) int {
		return strings.Compare(e.record.ID, want)
	})
	if !ok {
		return nil, false
	}
	return &idx.entries[pos], true
}
