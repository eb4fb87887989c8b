package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/cooltech/fridgebot/ai/mock"
	"github.com/cooltech/fridgebot/core"
	"github.com/cooltech/fridgebot/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHandle(t *testing.T, records []core.CatalogRecord) *index.Handle {
	t.Helper()
	idx, err := index.Build(context.Background(), records, mock.NewMockEmbedder())
	require.NoError(t, err)
	return index.NewHandle(idx)
}

func TestRetrieve_ExactTextRanksFirst(t *testing.T) {
	records := []core.CatalogRecord{
		{ID: "R1", Text: "RF100, 300L, $499"},
		{ID: "R2", Text: "RF200, 500L, $899"},
	}
	handle := buildHandle(t, records)

	r, err := NewRetriever(handle, mock.NewMockEmbedder())
	require.NoError(t, err)

	// The mock embedder maps identical text to identical vectors, so the
	// record's own text is a perfect-similarity query.
	results, err := r.Retrieve(context.Background(), "RF100, 300L, $499", 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "R1", results[0].Record.ID)
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-4)
}

func TestRetrieve_FloorFiltersWeakMatches(t *testing.T) {
	handle := buildHandle(t, []core.CatalogRecord{
		{ID: "R1", Text: "RF100, 300L, $499"},
	})

	r, err := NewRetriever(handle, mock.NewMockEmbedder(), WithMinSimilarity(0.999))
	require.NoError(t, err)

	// Unrelated text scores below the floor, so nothing comes back.
	results, err := r.Retrieve(context.Background(), "how do I file my taxes", 3)
	require.NoError(t, err)
	assert.Empty(t, results)

	// The record's own text still clears any floor.
	results, err = r.Retrieve(context.Background(), "RF100, 300L, $499", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "R1", results[0].Record.ID)
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	handle := buildHandle(t, nil)

	r, err := NewRetriever(handle, mock.NewMockEmbedder())
	require.NoError(t, err)

	results, err := r.Retrieve(context.Background(), "any fridge", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieve_EmbeddingFailure(t *testing.T) {
	handle := buildHandle(t, []core.CatalogRecord{{ID: "R1", Text: "RF100"}})

	providerDown := errors.New("provider down")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, providerDown
	}

	r, err := NewRetriever(handle, embedder)
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "any fridge", 3)
	require.ErrorIs(t, err, ErrQueryEmbedding)
	assert.ErrorIs(t, err, providerDown)
}

func TestRetrieve_InvalidArguments(t *testing.T) {
	handle := buildHandle(t, []core.CatalogRecord{{ID: "R1", Text: "RF100"}})
	r, err := NewRetriever(handle, mock.NewMockEmbedder())
	require.NoError(t, err)

	t.Run("blank query", func(t *testing.T) {
		_, err := r.Retrieve(context.Background(), "   ", 3)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("bad k", func(t *testing.T) {
		_, err := r.Retrieve(context.Background(), "fridge", 0)
		assert.ErrorIs(t, err, index.ErrInvalidLimit)
	})
}

func TestRetrieve_SeesSwappedSnapshot(t *testing.T) {
	handle := buildHandle(t, []core.CatalogRecord{{ID: "OLD-1", Text: "old lineup"}})
	r, err := NewRetriever(handle, mock.NewMockEmbedder(), WithMinSimilarity(0))
	require.NoError(t, err)

	results, err := r.Retrieve(context.Background(), "old lineup", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "OLD-1", results[0].Record.ID)

	rebuilt, err := index.Build(context.Background(),
		[]core.CatalogRecord{{ID: "NEW-1", Text: "new lineup"}}, mock.NewMockEmbedder())
	require.NoError(t, err)
	handle.Swap(rebuilt)

	results, err = r.Retrieve(context.Background(), "new lineup", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "NEW-1", results[0].Record.ID)
}

func TestNewRetriever_RequiredArguments(t *testing.T) {
	handle := buildHandle(t, nil)

	_, err := NewRetriever(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrIndexHandleRequired)

	_, err = NewRetriever(handle, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewRetriever(handle, mock.NewMockEmbedder(), WithMinSimilarity(2))
	assert.Error(t, err)
}
