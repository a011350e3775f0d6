package models

import (
	"portfolio-sim/internal/analysis"
	"portfolio-sim/internal/data"
	"portfolio-sim/internal/simulation"
)

// SimulateResponse is the full result of one orchestrated run. Results always
// contain one entry per requested simulation, either accounts or an error
// descriptor; consumers must check which.
type SimulateResponse struct {
	ID       string                       `json:"id"`
	Status   string                       `json:"status"`
	Params   simulation.Params            `json:"params"`
	Results  map[string]simulation.Result `json:"results"`
	Rankings []analysis.GrowthSummary     `json:"rankings"`
}

// SimulationInfo describes one registered strategy.
type SimulationInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SearchResponse is the ticker search result list.
type SearchResponse struct {
	Results []data.TickerMatch `json:"results"`
}

// RankResponse is the strategy comparison ranking.
type RankResponse struct {
	ID       string                   `json:"id"`
	Rankings []analysis.GrowthSummary `json:"rankings"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
