package simulation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"portfolio-sim/internal/model"
)

// DCASimulator implements dollar-cost averaging into a single equity: the
// monthly contribution lands in a cash bucket, and whole shares are bought
// whenever idle cash covers at least one at the day's close. Each ticker runs
// as an independent state machine; a ticker whose price series cannot be
// fetched is skipped without failing the rest.
type DCASimulator struct {
	Quotes QuoteSource
	Cache  AccountCache // optional memoization per (ticker, params) fingerprint
}

func NewDCASimulator(quotes QuoteSource, cache AccountCache) *DCASimulator {
	return &DCASimulator{Quotes: quotes, Cache: cache}
}

func (s *DCASimulator) Name() string { return "dca_simulation" }

func (s *DCASimulator) Run(p Params) ([]*model.Account, error) {
	start, end, err := p.Dates()
	if err != nil {
		return nil, err
	}
	if len(p.Tickers) == 0 {
		return nil, fmt.Errorf("at least one ticker is required")
	}

	accounts := make([]*model.Account, 0, len(p.Tickers))
	for _, ticker := range p.Tickers {
		key := dcaFingerprint(ticker, p)
		if s.Cache != nil {
			if cached, ok := s.Cache.GetAccount(key); ok {
				accounts = append(accounts, cached)
				continue
			}
		}

		closes, err := s.Quotes.DailyCloses(ticker, start, end)
		if err != nil {
			// Missing price data aborts only this ticker.
			log.Printf("[DCA] skipping %s: %v", ticker, err)
			continue
		}

		acct := s.runTicker(ticker, closes, p, start, end)
		accounts = append(accounts, acct)

		if s.Cache != nil {
			s.Cache.SetAccount(key, acct)
		}
	}

	return accounts, nil
}

// runTicker walks the calendar once for one ticker. The cash and investment
// accounts are strategy-internal scratch state; only the snapshot account is
// returned.
func (s *DCASimulator) runTicker(ticker string, closes []model.SeriesPoint, p Params, start, end time.Time) *model.Account {
	priceByDate := model.SeriesByDate(closes)

	name := fmt.Sprintf("(DCA) %s - %s", ticker, s.Quotes.ResolveName(ticker))
	acct := model.NewAccount(start, float64(p.InitialInvestment), name)

	cash := model.NewAccount(start, float64(p.InitialInvestment), "Cash Account - "+ticker)
	invested := model.NewAccount(start, 0, "Investment Account - "+ticker)

	shares := 0
	lastPrice := 0.0 // most recent non-zero close seen so far

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		// Monthly contribution lands before anything else that day, so the
		// snapshot below reflects the post-deposit state.
		if day.Day() == 1 {
			cash.Balance += float64(p.MonthlyInvestment)
			acct.TotalInvested += float64(p.MonthlyInvestment)
		}

		price, priced := priceByDate[day.Format(model.DateLayout)]
		if priced && price > 0 {
			lastPrice = price
			if cash.Balance > 0 {
				if n := int(cash.Balance / price); n > 0 {
					shares += n
					cash.DeductFunds(float64(n) * price)
					invested.Balance = float64(shares) * price
				}
			}
		}

		if day.Day() == 1 {
			snap := model.NewSnapshot(day, model.Round2(invested.Balance+cash.Balance))
			snap.Set("shares", float64(shares))
			snap.Set("price", lastPrice)
			snap.Set("cash", model.Round2(cash.Balance))
			snap.Set("investment_value", model.Round2(invested.Balance))
			acct.AppendSnapshot(snap)
		}
	}

	acct.Assets = float64(shares)
	acct.Balance = model.Round2(invested.Balance + cash.Balance)
	return acct
}

// dcaFingerprint is the memoization key for one ticker's run, hashed to keep
// it a reasonable size.
func dcaFingerprint(ticker string, p Params) string {
	keyStr := fmt.Sprintf("dca:%s:%s:%s:%d:%d",
		ticker, p.StartDate, p.EndDate, p.InitialInvestment, p.MonthlyInvestment)
	sum := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(sum[:])
}
