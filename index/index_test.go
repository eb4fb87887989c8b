package index

import (
	"context"
	"errors"
	"testing"

	"github.com/cooltech/fridgebot/ai/mock"
	"github.com/cooltech/fridgebot/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoRecords() []core.CatalogRecord {
	return []core.CatalogRecord{
		{ID: "CM-250-SD", Text: "ChillMaster 250L Single Door, $399, direct cool"},
		{ID: "CP-340-DD", Text: "CoolPro 340L Double Door, $649, frost-free inverter"},
		{ID: "FF-150-2024", Text: "FrostFree Compact 150, $279, 150L, Energy Star"},
		{ID: "IC-450-FD", Text: "IceCool 450L French Door, $999, ice maker"},
	}
}

func TestBuild_Search_StoredVectorRanksFirst(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	records := demoRecords()

	idx, err := Build(context.Background(), records, embedder)
	require.NoError(t, err)
	require.Equal(t, len(records), idx.Len())

	// Querying with a stored record's own vector must return that record
	// first with the maximum similarity score.
	for _, record := range records {
		query := mock.DeterministicVector(record.Text, mock.DefaultDimension)
		results, err := idx.Search(query, 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		assert.Equal(t, record.ID, results[0].Record.ID)
		assert.InDelta(t, 1.0, float64(results[0].Score), 1e-4)
		for _, r := range results[1:] {
			assert.LessOrEqual(t, r.Score, results[0].Score)
		}
	}
}

func TestSearch_Deterministic(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	idx, err := Build(context.Background(), demoRecords(), embedder)
	require.NoError(t, err)

	query := mock.DeterministicVector("fridge for a small family", mock.DefaultDimension)

	first, err := idx.Search(query, 4)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := idx.Search(query, 4)
		require.NoError(t, err)
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].Record.ID, again[j].Record.ID, "run %d position %d", i, j)
			assert.Equal(t, first[j].Score, again[j].Score)
		}
	}
}

func TestSearch_TieBreakByAscendingID(t *testing.T) {
	// Every record embeds to the same vector, so all scores tie.
	same := []float32{1, 0, 0}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return same, nil
	}

	records := []core.CatalogRecord{
		{ID: "R3", Text: "third"},
		{ID: "R1", Text: "first"},
		{ID: "R2", Text: "second"},
	}
	idx, err := Build(context.Background(), records, embedder)
	require.NoError(t, err)

	results, err := idx.Search([]float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "R1", results[0].Record.ID)
	assert.Equal(t, "R2", results[1].Record.ID)
	assert.Equal(t, "R3", results[2].Record.ID)
}

func TestSearch_InvalidArguments(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	idx, err := Build(context.Background(), demoRecords(), embedder)
	require.NoError(t, err)

	query := mock.DeterministicVector("anything", mock.DefaultDimension)

	t.Run("zero k", func(t *testing.T) {
		_, err := idx.Search(query, 0)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("negative k", func(t *testing.T) {
		_, err := idx.Search(query, -5)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := idx.Search([]float32{0.1, 0.2}, 3)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestSearch_EmptyIndex(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	idx, err := Build(context.Background(), nil, embedder)
	require.NoError(t, err)

	_, err = idx.Search([]float32{0.1}, 3)
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestBuild_AllOrNothing(t *testing.T) {
	providerDown := errors.New("provider down")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if text == "CoolPro 340L Double Door, $649, frost-free inverter" {
			return nil, providerDown
		}
		return mock.DeterministicVector(text, 8), nil
	}

	idx, err := Build(context.Background(), demoRecords(), embedder)
	require.ErrorIs(t, err, ErrBuildFailed)
	require.ErrorIs(t, err, providerDown)
	assert.Nil(t, idx)
}

func TestBuild_DuplicateIDs(t *testing.T) {
	records := []core.CatalogRecord{
		{ID: "R1", Text: "first"},
		{ID: "R1", Text: "second with same id"},
	}

	_, err := Build(context.Background(), records, mock.NewMockEmbedder())
	require.ErrorIs(t, err, ErrBuildFailed)
	assert.ErrorIs(t, err, core.ErrDuplicateRecord)
}

func TestAdd_AtomicInsert(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	idx, err := Build(context.Background(), demoRecords(), embedder)
	require.NoError(t, err)
	before := idx.Len()

	t.Run("successful add returns new snapshot", func(t *testing.T) {
		next, err := idx.Add(context.Background(), core.CatalogRecord{
			ID:   "AR-550-SBS",
			Text: "Arctic 550L Side-by-Side, $1299",
		}, embedder)
		require.NoError(t, err)

		assert.Equal(t, before+1, next.Len())
		assert.Equal(t, before, idx.Len(), "existing snapshot must be unchanged")
		assert.Contains(t, next.IDs(), "AR-550-SBS")
	})

	t.Run("failed embedding leaves index unchanged", func(t *testing.T) {
		failing := mock.NewMockEmbedder()
		failing.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("timeout")
		}

		next, err := idx.Add(context.Background(), core.CatalogRecord{ID: "X1", Text: "broken"}, failing)
		require.Error(t, err)
		assert.Nil(t, next)
		assert.Equal(t, before, idx.Len())
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := idx.Add(context.Background(), core.CatalogRecord{
			ID:   "CM-250-SD",
			Text: "same id again",
		}, embedder)
		assert.ErrorIs(t, err, core.ErrDuplicateRecord)
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		short := mock.NewMockEmbedder()
		short.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 2}, nil
		}

		_, err := idx.Add(context.Background(), core.CatalogRecord{ID: "X2", Text: "short vector"}, short)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestHandle_SwapDoesNotDisturbReaders(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	first, err := Build(context.Background(), demoRecords()[:2], embedder)
	require.NoError(t, err)
	second, err := Build(context.Background(), demoRecords(), embedder)
	require.NoError(t, err)

	handle := NewHandle(first)
	snapshot := handle.Load()

	old := handle.Swap(second)
	assert.Same(t, first, old)
	assert.Same(t, second, handle.Load())

	// A reader holding the old snapshot still sees a consistent index.
	query := mock.DeterministicVector(demoRecords()[0].Text, mock.DefaultDimension)
	results, err := snapshot.Search(query, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Len())
	assert.NotEmpty(t, results)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, float64(tt.want), float64(Cosine(tt.a, tt.b)), 1e-6)
		})
	}
}
