package analysis

import (
	"encoding/csv"
	"os"
	"strconv"

	"portfolio-sim/internal/model"
)

// WriteHistoryCSV writes an account's balance history. Columns are date,
// account_balance, then whatever extra fields the strategy attached, in
// first-seen order across the whole history.
func WriteHistoryCSV(path string, acct *model.Account) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	extras := extraColumns(acct.BalanceHistory)
	header := append([]string{"date", "account_balance"}, extras...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, snap := range acct.BalanceHistory {
		row := make([]string, 0, len(header))
		row = append(row, snap.Date, fmtFloat(snap.AccountBalance))
		for _, key := range extras {
			if v, ok := snap.Get(key); ok {
				row = append(row, fmtFloat(v))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func extraColumns(history []model.Snapshot) []string {
	var cols []string
	seen := map[string]bool{}
	for _, snap := range history {
		for _, key := range snap.ExtraKeys() {
			if !seen[key] {
				seen[key] = true
				cols = append(cols, key)
			}
		}
	}
	return cols
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
