package models

// SimulateRequest carries the simulation parameter bag as query parameters.
// Money amounts stay strings here so "$1,000" style input survives binding;
// parsing and validation happen in the simulation package.
type SimulateRequest struct {
	StartDate         string `form:"start_date" binding:"required"`
	EndDate           string `form:"end_date" binding:"required"`
	InitialInvestment string `form:"initial_investment,omitempty"`
	MonthlyInvestment string `form:"monthly_investment,omitempty"`
	Tickers           string `form:"tickers,omitempty"`
	// Simulations optionally restricts the run to a comma-separated subset of
	// registered strategy names. Empty means all.
	Simulations string `form:"simulations,omitempty"`
}

// SearchRequest is the ticker search query.
type SearchRequest struct {
	Query string `form:"query,omitempty"`
}
