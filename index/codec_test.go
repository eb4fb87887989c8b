package index

import (
	"context"
	"testing"

	"github.com/cooltech/fridgebot/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	idx, err := Build(context.Background(), demoRecords(), embedder)
	require.NoError(t, err)

	bs, err := Save(idx)
	require.NoError(t, err)
	require.NotEmpty(t, bs)

	loaded, err := Load(bs)
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), loaded.Len())
	assert.Equal(t, idx.Dimension(), loaded.Dimension())
	assert.Equal(t, idx.IDs(), loaded.IDs())

	// A restored snapshot must answer queries exactly like the original.
	query := mock.DeterministicVector("energy efficient double door", mock.DefaultDimension)
	want, err := idx.Search(query, 4)
	require.NoError(t, err)
	got, err := loaded.Search(query, 4)
	require.NoError(t, err)

	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].Record.ID, got[i].Record.ID)
		assert.Equal(t, want[i].Record.Text, got[i].Record.Text)
		assert.Equal(t, want[i].Score, got[i].Score)
	}
}

func TestSaveLoad_EmptyIndex(t *testing.T) {
	idx, err := Build(context.Background(), nil, mock.NewMockEmbedder())
	require.NoError(t, err)

	bs, err := Save(idx)
	require.NoError(t, err)

	loaded, err := Load(bs)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestLoad_RejectsCorruptData(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	idx, err := Build(context.Background(), demoRecords(), embedder)
	require.NoError(t, err)

	bs, err := Save(idx)
	require.NoError(t, err)

	t.Run("too short", func(t *testing.T) {
		_, err := Load(bs[:8])
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("bad magic", func(t *testing.T) {
		corrupt := append([]byte(nil), bs...)
		corrupt[0] ^= 0xff
		_, err := Load(corrupt)
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("flipped payload byte breaks fingerprint", func(t *testing.T) {
		corrupt := append([]byte(nil), bs...)
		corrupt[len(corrupt)/2] ^= 0xff
		_, err := Load(corrupt)
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("truncated trailer", func(t *testing.T) {
		_, err := Load(bs[:len(bs)-3])
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("trailing garbage", func(t *testing.T) {
		corrupt := append(append([]byte(nil), bs...), 0x00, 0x01)
		_, err := Load(corrupt)
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})
}
