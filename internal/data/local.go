package data

import (
	"fmt"
	"time"

	"portfolio-sim/internal/model"
)

// LocalQuoteSource serves close prices from series loaded off disk, for demo
// and offline CLI runs where no quotes API is reachable.
type LocalQuoteSource struct {
	Series map[string][]model.SeriesPoint
	Names  map[string]string
}

func NewLocalQuoteSource() *LocalQuoteSource {
	return &LocalQuoteSource{
		Series: make(map[string][]model.SeriesPoint),
		Names:  make(map[string]string),
	}
}

// AddSeries registers a ticker's series, e.g. one loaded via LoadSeriesJSON.
func (s *LocalQuoteSource) AddSeries(ticker, companyName string, points []model.SeriesPoint) {
	s.Series[ticker] = points
	if companyName != "" {
		s.Names[ticker] = companyName
	}
}

func (s *LocalQuoteSource) DailyCloses(ticker string, start, end time.Time) ([]model.SeriesPoint, error) {
	points, ok := s.Series[ticker]
	if !ok {
		return nil, &FetchError{
			Code:    "DATA_UNAVAILABLE",
			Message: fmt.Sprintf("no local series for ticker %q", ticker),
		}
	}
	return clipRange(points, start, end), nil
}

func (s *LocalQuoteSource) ResolveName(ticker string) string {
	if name, ok := s.Names[ticker]; ok {
		return name
	}
	return UnknownCompany
}

// LocalRateSource serves a fixed rate series, for demo and offline runs.
type LocalRateSource struct {
	Points []model.SeriesPoint
}

func (s *LocalRateSource) DailyRates(start, end time.Time) ([]model.SeriesPoint, error) {
	return clipRange(s.Points, start, end), nil
}

// clipRange keeps the points whose date falls inside [start, end]. String
// comparison is enough because the dates are ISO formatted.
func clipRange(points []model.SeriesPoint, start, end time.Time) []model.SeriesPoint {
	lo := start.Format(model.DateLayout)
	hi := end.Format(model.DateLayout)
	out := make([]model.SeriesPoint, 0, len(points))
	for _, p := range points {
		if p.Date >= lo && p.Date <= hi {
			out = append(out, p)
		}
	}
	return out
}
