package analysis

import (
	"sort"

	"portfolio-sim/internal/simulation"
)

// Rank summarizes every successful account across a result map and sorts
// descending by final balance. Failed strategies contribute nothing.
func Rank(results map[string]simulation.Result) []GrowthSummary {
	out := make([]GrowthSummary, 0, len(results))
	for strategy, res := range results {
		if res.Failed() {
			continue
		}
		for _, acct := range res.Accounts {
			out = append(out, Summarize(strategy, acct))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinalBalance != out[j].FinalBalance {
			return out[i].FinalBalance > out[j].FinalBalance
		}
		return out[i].AccountName < out[j].AccountName
	})
	return out
}
