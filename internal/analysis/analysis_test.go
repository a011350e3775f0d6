package analysis

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-sim/internal/model"
	"portfolio-sim/internal/simulation"
)

func accountWithHistory(name string, invested float64, snaps ...model.Snapshot) *model.Account {
	acct := &model.Account{Name: name, TotalInvested: invested, BalanceHistory: snaps}
	if n := len(snaps); n > 0 {
		acct.Balance = snaps[n-1].AccountBalance
	}
	return acct
}

func snap(date string, balance float64) model.Snapshot {
	d, _ := model.ParseDate(date)
	return model.NewSnapshot(d, balance)
}

func TestSummarize(t *testing.T) {
	acct := accountWithHistory("Saving", 1400,
		snap("2023-01-01", 1000),
		snap("2024-01-01", 1540),
	)

	s := Summarize("savings_simulation", acct)
	assert.Equal(t, "savings_simulation", s.Strategy)
	assert.Equal(t, 1540.0, s.FinalBalance)
	assert.Equal(t, 140.0, s.Gain)
	assert.Equal(t, 10.0, s.GainPct)
	assert.Equal(t, 2, s.Snapshots)
	// 1400 -> 1540 over one year is 10% annualized.
	assert.InDelta(t, 0.10, s.CAGR, 0.001)
}

func TestSummarize_EmptyHistory(t *testing.T) {
	s := Summarize("x", &model.Account{Name: "empty"})
	assert.Zero(t, s.FinalBalance)
	assert.Zero(t, s.CAGR)
}

func TestRank(t *testing.T) {
	results := map[string]simulation.Result{
		"savings_simulation": {Accounts: []*model.Account{
			accountWithHistory("Saving", 1400, snap("2024-01-01", 1000), snap("2024-04-01", 1400)),
		}},
		"dca_simulation": {Accounts: []*model.Account{
			accountWithHistory("(DCA) AAPL", 1400, snap("2024-01-01", 1000), snap("2024-04-01", 1610)),
			accountWithHistory("(DCA) MSFT", 1400, snap("2024-01-01", 1000), snap("2024-04-01", 1380)),
		}},
		"bond_simulation": {Err: "FRED unreachable"},
	}

	ranked := Rank(results)
	require.Len(t, ranked, 3, "failed strategies are excluded")
	assert.Equal(t, "(DCA) AAPL", ranked[0].AccountName)
	assert.Equal(t, "Saving", ranked[1].AccountName)
	assert.Equal(t, "(DCA) MSFT", ranked[2].AccountName)
}

func TestWriteHistoryCSV(t *testing.T) {
	d, _ := model.ParseDate("2024-01-01")
	first := model.NewSnapshot(d, 1100)
	first.Set("cash", 0)
	first.Set("bonds", 1100)

	second := model.NewSnapshot(d.AddDate(0, 1, 0), 1211)
	second.Set("cash", 11)
	second.Set("bonds", 1200)
	second.Set("interest_rate", 4.25) // appears in later snapshots only

	acct := &model.Account{Name: "Bond Account", BalanceHistory: []model.Snapshot{first, second}}

	path := filepath.Join(t.TempDir(), "bond.csv")
	require.NoError(t, WriteHistoryCSV(path, acct))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"date", "account_balance", "cash", "bonds", "interest_rate"}, rows[0])
	assert.Equal(t, []string{"2024-01-01", "1100.00", "0.00", "1100.00", ""}, rows[1])
	assert.Equal(t, []string{"2024-02-01", "1211.00", "11.00", "1200.00", "4.25"}, rows[2])
}

func TestSummarize_ShortWindowHasNoCAGR(t *testing.T) {
	now := time.Now().Format(model.DateLayout)
	acct := accountWithHistory("a", 100, snap(now, 100))
	s := Summarize("x", acct)
	assert.Zero(t, s.CAGR, "a single-day history cannot be annualized")
}
