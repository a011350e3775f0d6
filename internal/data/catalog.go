package data

// RateSeries describes one FRED rate series the simulators can be pointed at.
type RateSeries struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// KnownRateSeries is the static catalog of Treasury constant-maturity series
// exposed by the API for configuration pickers.
func KnownRateSeries() []RateSeries {
	return []RateSeries{
		{ID: "DGS3MO", Name: "3-Month Treasury Constant Maturity Rate"},
		{ID: "DGS1", Name: "1-Year Treasury Constant Maturity Rate"},
		{ID: "DGS5", Name: "5-Year Treasury Constant Maturity Rate"},
		{ID: "DGS10", Name: "10-Year Treasury Constant Maturity Rate"},
	}
}

// PopularTickers is the fallback list returned for an empty search query.
func PopularTickers() []TickerMatch {
	return []TickerMatch{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
		{Symbol: "TSLA", Name: "Tesla, Inc."},
		{Symbol: "AMZN", Name: "Amazon.com, Inc."},
		{Symbol: "GOOGL", Name: "Alphabet Inc."},
		{Symbol: "SPY", Name: "SPDR S&P 500 ETF Trust"},
	}
}
