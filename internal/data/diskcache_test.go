package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-sim/internal/model"
)

func TestDiskCache_RoundTrip(t *testing.T) {
	d := NewDiskCache(filepath.Join(t.TempDir(), "bond_data"))

	in := model.SeriesResponse{
		ID: "DGS10",
		Data: []model.SeriesPoint{
			{Date: "2024-01-02", Value: 4.1},
			{Date: "2024-01-03", Value: 4.15},
		},
	}
	require.NoError(t, d.Store("DGS10_2024-01-01_2024-02-01", in))

	var out model.SeriesResponse
	require.True(t, d.Load("DGS10_2024-01-01_2024-02-01", &out))
	assert.Equal(t, in, out)
}

func TestDiskCache_MissOnAbsentFile(t *testing.T) {
	d := NewDiskCache(t.TempDir())
	var out model.SeriesResponse
	assert.False(t, d.Load("nope", &out))
}

func TestDiskCache_CorruptFileIsPurged(t *testing.T) {
	dir := t.TempDir()
	d := NewDiskCache(dir)

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var out model.SeriesResponse
	assert.False(t, d.Load("broken", &out), "corrupt file reads as a miss")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt file is deleted so the refetch can overwrite it")
}

func TestDiskCache_Purge(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stock_data")
	d := NewDiskCache(dir)
	require.NoError(t, d.Store("AAPL_a_b", model.SeriesResponse{ID: "AAPL"}))

	require.NoError(t, d.Purge())
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestDiskCache_NilAndUnconfiguredAreMisses(t *testing.T) {
	var d *DiskCache
	assert.False(t, d.Load("x", nil))
	assert.NoError(t, d.Store("x", 1))
	assert.NoError(t, d.Purge())

	empty := &DiskCache{}
	assert.False(t, empty.Load("x", nil))
	assert.NoError(t, empty.Store("x", 1))
}
