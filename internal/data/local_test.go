package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-sim/internal/model"
)

func TestLocalQuoteSource(t *testing.T) {
	src := NewLocalQuoteSource()
	src.AddSeries("AAPL", "Apple Inc.", []model.SeriesPoint{
		{Date: "2024-01-02", Value: 185},
		{Date: "2024-02-15", Value: 190},
		{Date: "2024-03-20", Value: 195},
	})

	points, err := src.DailyCloses("AAPL", mustDate(t, "2024-01-15"), mustDate(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, []model.SeriesPoint{{Date: "2024-02-15", Value: 190}}, points,
		"only points inside the requested range")

	assert.Equal(t, "Apple Inc.", src.ResolveName("AAPL"))
	assert.Equal(t, UnknownCompany, src.ResolveName("MSFT"))

	_, err = src.DailyCloses("MSFT", mustDate(t, "2024-01-01"), mustDate(t, "2024-03-01"))
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "DATA_UNAVAILABLE", fe.Code)
}

func TestLocalRateSource(t *testing.T) {
	src := &LocalRateSource{Points: []model.SeriesPoint{
		{Date: "2024-01-02", Value: 4.1},
		{Date: "2024-06-03", Value: 4.4},
	}}

	points, err := src.DailyRates(mustDate(t, "2024-01-01"), mustDate(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, []model.SeriesPoint{{Date: "2024-01-02", Value: 4.1}}, points)
}

func TestLoadSeriesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AAPL.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"id":"AAPL","data":[{"date":"2024-01-02","value":185.64}]}`), 0o644))

	resp, err := LoadSeriesJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", resp.ID)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 185.64, resp.Data[0].Value)

	_, err = LoadSeriesJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
