package data

import (
	"encoding/json"
	"os"

	"portfolio-sim/internal/model"
)

// LoadSeriesJSON reads a saved series file (same shape the disk cache writes),
// used by the demo and CLI for offline runs.
func LoadSeriesJSON(path string) (*model.SeriesResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp model.SeriesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
