package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cooltech/fridgebot/ai"
	"github.com/cooltech/fridgebot/core"
	"github.com/cooltech/fridgebot/index"
)

const (
	// DefaultTopK is the number of records retrieved per query.
	DefaultTopK = 3

	// DefaultMinSimilarity is the floor below which a match is discarded.
	// A query whose best match falls under the floor yields an empty
	// result, which downstream layers treat as out-of-scope.
	DefaultMinSimilarity = 0.60
)

// Retriever answers a text query with the catalog records most similar to
// it. It reads whatever index snapshot the handle currently holds, so a
// rebuild swap takes effect on the next query without coordination.
type Retriever struct {
	handle        *index.Handle
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithMinSimilarity sets the similarity floor.
// Default is DefaultMinSimilarity.
func WithMinSimilarity(floor float32) Option {
	return func(r *Retriever) error {
		if floor < -1 || floor > 1 {
			return fmt.Errorf("similarity floor %v out of range [-1, 1]", floor)
		}
		r.minSimilarity = floor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "retrieval")
		return nil
	}
}

// NewRetriever creates a new retriever over the given index handle.
func NewRetriever(handle *index.Handle, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if handle == nil {
		return nil, ErrIndexHandleRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		handle:        handle,
		embedder:      embedder,
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default().With("component", "retrieval"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Retrieve embeds the query and returns up to k catalog records at or above
// the similarity floor, ranked by descending score. An empty result means
// no catalog entry is relevant to the query. Embedding failures surface as
// ErrQueryEmbedding with the provider error as cause; an empty index yields
// an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", index.ErrInvalidLimit, k)
	}

	vec, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("query embedding failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrQueryEmbedding, err)
	}

	matches, err := r.handle.Load().Search(vec, k)
	if err != nil {
		if errors.Is(err, index.ErrEmptyIndex) {
			return []core.SearchResult{}, nil
		}
		return nil, err
	}

	results := make([]core.SearchResult, 0, len(matches))
	for _, match := range matches {
		if match.Score < r.minSimilarity {
			// Matches are score-ordered, everything after is weaker.
			break
		}
		results = append(results, match)
	}

	r.logger.Debug("retrieved", "candidates", len(matches), "kept", len(results))
	return results, nil
}
