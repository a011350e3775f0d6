package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	p, err := ParseParams(map[string]string{
		"start_date":         "2024-01-01",
		"end_date":           "2024-06-01",
		"initial_investment": "$1,000",
		"monthly_investment": "100",
		"tickers":            "AAPL, msft ,,TSLA",
	})
	require.NoError(t, err)

	assert.Equal(t, 1000, p.InitialInvestment)
	assert.Equal(t, 100, p.MonthlyInvestment)
	assert.Equal(t, []string{"AAPL", "msft", "TSLA"}, p.Tickers)

	start, end, err := p.Dates()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", start.Format("2006-01-02"))
	assert.Equal(t, "2024-06-01", end.Format("2006-01-02"))
}

func TestParseParams_Errors(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{
			"start_date":         "2024-01-01",
			"end_date":           "2024-06-01",
			"initial_investment": "1000",
			"monthly_investment": "100",
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]string)
		msg    string
	}{
		{"missing start", func(m map[string]string) { m["start_date"] = "" }, "start_date"},
		{"bad end format", func(m map[string]string) { m["end_date"] = "06/01/2024" }, "end_date"},
		{"inverted range", func(m map[string]string) { m["end_date"] = "2023-01-01" }, "before start_date"},
		{"empty initial", func(m map[string]string) { m["initial_investment"] = "" }, "initial_investment"},
		{"non-numeric monthly", func(m map[string]string) { m["monthly_investment"] = "ten" }, "monthly_investment"},
		{"fractional amount", func(m map[string]string) { m["initial_investment"] = "10.50" }, "invalid amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base()
			tt.mutate(raw)
			_, err := ParseParams(raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSplitTickers(t *testing.T) {
	assert.Empty(t, SplitTickers(""))
	assert.Empty(t, SplitTickers(" , ,"))
	assert.Equal(t, []string{"AAPL"}, SplitTickers("AAPL"))
	assert.Equal(t, []string{"AAPL", "MSFT"}, SplitTickers(" AAPL , MSFT "))
}
