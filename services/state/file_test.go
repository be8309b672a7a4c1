package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/Matheuslarroque/pesquisador-junior/pkg/errors"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	st := SelectionState{
		DayIndex:           4,
		UsedProductIDs:     []string{"https://shopee.com.br/product/1/100"},
		UsedSimilarityKeys: []string{"Pets:caminha-pets-lavável"},
	}
	require.NoError(t, store.Save(st))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, st, loaded)

	// Save replaces the whole document, it never merges
	st.DayIndex = 5
	st.UsedProductIDs = append(st.UsedProductIDs, "https://shopee.com.br/product/2/200")
	require.NoError(t, store.Save(st))

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.DayIndex)
	assert.Len(t, loaded.UsedProductIDs, 2)
}

func TestFileStoreFirstRun(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, SelectionState{}, st)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)
	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeState))
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "state.json"))
	require.NoError(t, store.Save(SelectionState{DayIndex: 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestSets(t *testing.T) {
	st := SelectionState{
		UsedProductIDs:     []string{"a", "b"},
		UsedSimilarityKeys: []string{"k1"},
	}
	assert.True(t, st.IDSet()["a"])
	assert.False(t, st.IDSet()["c"])
	assert.True(t, st.KeySet()["k1"])
}
