package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"portfolio-sim/internal/model"
)

// Strike draw bounds for the synthetic option overlay: the hypothetical strike
// is the day's price times a uniform factor in [StrikeFactorMin, StrikeFactorMax].
const (
	DefaultStrikeFactorMin = 1.05
	DefaultStrikeFactorMax = 1.15
)

// HybridSimulator layers a synthetic out-of-the-money call overlay on top of
// the bond ladder. Once a month it writes a hypothetical strike above the
// day's price and realizes a synthetic profit into a separate option ledger;
// the option budget is funded purely by the interest recovered from bonds
// maturing that same day, never by principal.
//
// The strike draw is random, so outputs are non-reproducible unless the
// caller injects a seeded source.
type HybridSimulator struct {
	Quotes QuoteSource
	Rates  RateSource
	Rand   *rand.Rand // injected so tests can pin the strike draw

	PurchaseIncrement float64
	TermMonths        int
	StrikeFactorMin   float64
	StrikeFactorMax   float64
}

func NewHybridSimulator(quotes QuoteSource, rates RateSource, rng *rand.Rand) *HybridSimulator {
	return &HybridSimulator{Quotes: quotes, Rates: rates, Rand: rng}
}

func (s *HybridSimulator) Name() string { return "hybrid_simulation" }

func (s *HybridSimulator) Run(p Params) ([]*model.Account, error) {
	start, end, err := p.Dates()
	if err != nil {
		return nil, err
	}
	if len(p.Tickers) == 0 {
		return nil, fmt.Errorf("at least one ticker is required")
	}

	rates, err := s.Rates.DailyRates(start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	rateByDate := model.SeriesByDate(model.PadDaily(rates, start, end))

	accounts := make([]*model.Account, 0, len(p.Tickers))
	for _, ticker := range p.Tickers {
		closes, err := s.Quotes.DailyCloses(ticker, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetch closes for %s: %w", ticker, err)
		}
		accounts = append(accounts, s.runTicker(ticker, closes, rateByDate, p, start, end))
	}
	return accounts, nil
}

func (s *HybridSimulator) runTicker(ticker string, closes []model.SeriesPoint, rateByDate map[string]float64, p Params, start, end time.Time) *model.Account {
	priceByDate := model.SeriesByDate(closes)

	name := fmt.Sprintf("(Hybrid) %s - %s", ticker, s.Quotes.ResolveName(ticker))
	acct := model.NewAccount(start, float64(p.InitialInvestment), name)

	cash := float64(p.InitialInvestment)
	optionValue := 0.0
	var pool []*model.Bond

	inception := model.NewSnapshot(start, cash)
	inception.Set("cash", cash)
	inception.Set("bonds", 0)
	inception.Set("options", 0)
	inception.Set("bond_count", 0)
	acct.BalanceHistory = []model.Snapshot{inception}

	increment := s.PurchaseIncrement
	if increment <= 0 {
		increment = DefaultPurchaseIncrement
	}
	term := s.TermMonths
	if term <= 0 {
		term = DefaultTermMonths
	}
	strikeMin, strikeMax := s.StrikeFactorMin, s.StrikeFactorMax
	if strikeMin <= 0 || strikeMax < strikeMin {
		strikeMin, strikeMax = DefaultStrikeFactorMin, DefaultStrikeFactorMax
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		ds := day.Format(model.DateLayout)
		rate := rateByDate[ds]

		// Mature bonds; track the interest portion separately because it is
		// the only money the option overlay is allowed to spend.
		interestAccrued := 0.0
		remaining := pool[:0]
		for _, b := range pool {
			if b.IsMatured(day) {
				matured := b.MaturedValue()
				interestAccrued += matured - b.Value()
				cash = model.FloorCents(cash + matured)
				continue
			}
			remaining = append(remaining, b)
		}
		pool = remaining

		amount := float64(int(cash/increment)) * increment
		if amount >= increment && rate > 0 {
			bond, err := model.NewBond(amount, day, model.AddMonths(day, term), rate)
			if err == nil {
				pool = append(pool, bond)
				cash = model.FloorCents(cash - amount)
			}
		}

		// Monthly option write: strike a uniform 5-15% above the day's price,
		// realized profit scaled by the interest budget.
		if day.Day() == 1 && cash > 0 {
			if price, ok := priceByDate[ds]; ok && price > 0 {
				strike := price * (strikeMin + s.Rand.Float64()*(strikeMax-strikeMin))
				profit := (price - strike) * (interestAccrued / price)
				if profit > 0 {
					optionValue += profit
				}
			}
		}

		if day.Day() == 1 {
			principal := poolPrincipal(pool)
			snap := model.NewSnapshot(day, model.Round2(cash+principal+optionValue))
			snap.Set("cash", cash)
			snap.Set("bonds", principal)
			snap.Set("options", model.Round2(optionValue))
			snap.Set("bond_count", float64(len(pool)))
			acct.AppendSnapshot(snap)
		}
	}

	acct.Balance = model.Round2(cash + poolPrincipal(pool) + optionValue)
	acct.Assets = float64(len(pool))
	return acct
}
