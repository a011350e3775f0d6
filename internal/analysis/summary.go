package analysis

import (
	"math"

	"portfolio-sim/internal/model"
)

// GrowthSummary aggregates one simulated account into the numbers a
// comparison table cares about.
type GrowthSummary struct {
	Strategy      string  `json:"strategy"`
	AccountName   string  `json:"account_name"`
	FinalBalance  float64 `json:"final_balance"`
	TotalInvested float64 `json:"total_invested"`
	Gain          float64 `json:"gain"`
	GainPct       float64 `json:"gain_pct"`
	CAGR          float64 `json:"cagr"` // annualized, fraction (0.07 = 7%/yr)
	Snapshots     int     `json:"snapshots"`
}

// Summarize computes the growth summary for one account. The final balance is
// the last history snapshot; duration for CAGR spans the first to the last
// snapshot date.
func Summarize(strategy string, acct *model.Account) GrowthSummary {
	s := GrowthSummary{
		Strategy:      strategy,
		AccountName:   acct.Name,
		TotalInvested: model.Round2(acct.TotalInvested),
		Snapshots:     len(acct.BalanceHistory),
	}
	if len(acct.BalanceHistory) == 0 {
		return s
	}

	first := acct.BalanceHistory[0]
	last := acct.BalanceHistory[len(acct.BalanceHistory)-1]
	s.FinalBalance = model.Round2(last.AccountBalance)
	s.Gain = model.Round2(s.FinalBalance - s.TotalInvested)
	if s.TotalInvested > 0 {
		s.GainPct = model.Round2(s.Gain / s.TotalInvested * 100)
	}
	s.CAGR = cagr(first, last, s.TotalInvested)
	return s
}

// cagr annualizes growth of the invested total into the final balance.
// Deposits arrive over time, so this overstates true money-weighted return;
// it is a comparison number, not a performance report.
func cagr(first, last model.Snapshot, invested float64) float64 {
	if invested <= 0 || last.AccountBalance <= 0 {
		return 0
	}
	start, err1 := model.ParseDate(first.Date)
	end, err2 := model.ParseDate(last.Date)
	if err1 != nil || err2 != nil {
		return 0
	}
	years := end.Sub(start).Hours() / 24 / 365.25
	if years <= 0 {
		return 0
	}
	return math.Pow(last.AccountBalance/invested, 1/years) - 1
}
