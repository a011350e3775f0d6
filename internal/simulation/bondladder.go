package simulation

import (
	"fmt"

	"portfolio-sim/internal/model"
)

// Ladder policy knobs shared by the bond and hybrid simulators.
const (
	// DefaultPurchaseIncrement is the minimum bond denomination: purchases
	// happen in whole multiples of this amount.
	DefaultPurchaseIncrement = 100.0
	// DefaultTermMonths is the fixed maturity term for every bond issued.
	DefaultTermMonths = 3
)

// BondLadderSimulator rolls a pool of short-maturity bonds: matured bonds are
// cashed in (principal plus simple interest) and idle cash above the purchase
// increment is immediately reinvested at the day's rate. Cash is floored to
// the cent after every credit and purchase.
type BondLadderSimulator struct {
	Rates RateSource

	// Zero values fall back to the package defaults.
	PurchaseIncrement float64
	TermMonths        int
}

func NewBondLadderSimulator(rates RateSource) *BondLadderSimulator {
	return &BondLadderSimulator{Rates: rates}
}

func (s *BondLadderSimulator) Name() string { return "bond_simulation" }

func (s *BondLadderSimulator) increment() float64 {
	if s.PurchaseIncrement > 0 {
		return s.PurchaseIncrement
	}
	return DefaultPurchaseIncrement
}

func (s *BondLadderSimulator) term() int {
	if s.TermMonths > 0 {
		return s.TermMonths
	}
	return DefaultTermMonths
}

func (s *BondLadderSimulator) Run(p Params) ([]*model.Account, error) {
	start, end, err := p.Dates()
	if err != nil {
		return nil, err
	}

	// The rate series is the single data dependency; without it the whole
	// strategy is meaningless, so a fetch failure is fatal here.
	rates, err := s.Rates.DailyRates(start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	rateByDate := model.SeriesByDate(model.PadDaily(rates, start, end))

	acct := model.NewAccount(start, 0, "Bond Account")
	acct.TotalInvested = float64(p.InitialInvestment)

	// The first month's contribution is available on day one alongside the
	// initial lump sum.
	pendingCash := float64(p.InitialInvestment + p.MonthlyInvestment)
	acct.TotalInvested += float64(p.MonthlyInvestment)

	var pool []*model.Bond

	inception := model.NewSnapshot(start, pendingCash)
	inception.Set("cash", pendingCash)
	inception.Set("bonds", 0)
	inception.Set("interest_rate", 0)
	acct.BalanceHistory = []model.Snapshot{inception}

	increment := s.increment()
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		rate := rateByDate[day.Format(model.DateLayout)] // missing dates read as 0

		// Cash in every bond whose maturity date has been reached.
		remaining := pool[:0]
		for _, b := range pool {
			if b.IsMatured(day) {
				pendingCash = model.FloorCents(pendingCash + b.MaturedValue())
				continue
			}
			remaining = append(remaining, b)
		}
		pool = remaining

		// Reinvest in whole increments while a positive rate is available.
		amount := float64(int(pendingCash/increment)) * increment
		if amount >= increment && rate > 0 {
			bond, err := model.NewBond(amount, day, model.AddMonths(day, s.term()), rate)
			if err != nil {
				return nil, err
			}
			pool = append(pool, bond)
			pendingCash = model.FloorCents(pendingCash - amount)
		}

		// Snapshot first, deposit after: the monthly contribution lands once
		// the 1st-of-month state has been recorded.
		if day.Day() == 1 {
			principal := poolPrincipal(pool)
			snap := model.NewSnapshot(day, model.Round2(pendingCash+principal))
			snap.Set("cash", pendingCash)
			snap.Set("bonds", principal)
			snap.Set("interest_rate", rate)
			acct.AppendSnapshot(snap)

			pendingCash = model.FloorCents(pendingCash + float64(p.MonthlyInvestment))
			acct.TotalInvested += float64(p.MonthlyInvestment)
		}
	}

	acct.Balance = model.Round2(pendingCash + poolPrincipal(pool))
	acct.Assets = float64(len(pool))
	return []*model.Account{acct}, nil
}

func poolPrincipal(pool []*model.Bond) float64 {
	total := 0.0
	for _, b := range pool {
		total += b.Value()
	}
	return total
}
