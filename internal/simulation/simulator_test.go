package simulation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-sim/internal/model"
)

// stubQuotes serves constant or preloaded series for the strategy tests.
type stubQuotes struct {
	series map[string][]model.SeriesPoint
	err    error
}

func (s *stubQuotes) DailyCloses(ticker string, start, end time.Time) ([]model.SeriesPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.series[ticker], nil
}

func (s *stubQuotes) ResolveName(ticker string) string { return "Demo Co" }

type stubRates struct {
	points []model.SeriesPoint
	err    error
}

func (s *stubRates) DailyRates(start, end time.Time) ([]model.SeriesPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.points, nil
}

// constSeries emits one point per calendar day at a fixed value.
func constSeries(start, end string, value float64) []model.SeriesPoint {
	s, _ := model.ParseDate(start)
	e, _ := model.ParseDate(end)
	var out []model.SeriesPoint
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		out = append(out, model.SeriesPoint{Date: d.Format(model.DateLayout), Value: value})
	}
	return out
}

func testParams(tickers ...string) Params {
	return Params{
		StartDate:         "2024-01-01",
		EndDate:           "2024-04-01",
		InitialInvestment: 1000,
		MonthlyInvestment: 100,
		Tickers:           tickers,
	}
}

type fakeSim struct {
	name string
	run  func(Params) ([]*model.Account, error)
}

func (f *fakeSim) Name() string                          { return f.name }
func (f *fakeSim) Run(p Params) ([]*model.Account, error) { return f.run(p) }

func TestOrchestrator_RunAllIsolatesFailures(t *testing.T) {
	okAcct := model.NewAccount(time.Now(), 100, "ok")
	orch := NewOrchestrator(
		&fakeSim{name: "ok", run: func(Params) ([]*model.Account, error) {
			return []*model.Account{okAcct}, nil
		}},
		&fakeSim{name: "boom", run: func(Params) ([]*model.Account, error) {
			return nil, errors.New("upstream down")
		}},
		&fakeSim{name: "panics", run: func(Params) ([]*model.Account, error) {
			panic("index out of range")
		}},
	)

	results := orch.RunAll(testParams())
	require.Len(t, results, 3)

	assert.False(t, results["ok"].Failed())
	assert.Equal(t, []*model.Account{okAcct}, results["ok"].Accounts)

	assert.True(t, results["boom"].Failed())
	assert.Equal(t, "upstream down", results["boom"].Err)

	assert.True(t, results["panics"].Failed())
	assert.Contains(t, results["panics"].Err, "panic: index out of range")
}

func TestOrchestrator_RunSelected(t *testing.T) {
	calls := 0
	orch := NewOrchestrator(
		&fakeSim{name: "a", run: func(Params) ([]*model.Account, error) { calls++; return nil, nil }},
		&fakeSim{name: "b", run: func(Params) ([]*model.Account, error) { calls++; return nil, nil }},
	)

	results := orch.RunSelected([]string{"a", "missing"}, testParams())
	require.Len(t, results, 2)
	assert.Equal(t, 1, calls, "only the named simulator ran")
	assert.False(t, results["a"].Failed())
	assert.True(t, results["missing"].Failed())
	assert.Contains(t, results["missing"].Err, "unknown simulation")

	// An empty selection means everything.
	calls = 0
	results = orch.RunSelected(nil, testParams())
	assert.Len(t, results, 2)
	assert.Equal(t, 2, calls)
}

func TestOrchestrator_NamesKeepRegistrationOrder(t *testing.T) {
	orch := NewOrchestrator(
		&fakeSim{name: "z", run: nil},
		&fakeSim{name: "a", run: nil},
	)
	orch.Register(&fakeSim{name: "z", run: nil}) // replacement keeps position
	assert.Equal(t, []string{"z", "a"}, orch.Names())
}
