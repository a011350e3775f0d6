package simulation

import "portfolio-sim/internal/model"

// SavingsSimulator is the trivial baseline: the monthly contribution is added
// on the 1st of each month (including the start date when it falls on a 1st)
// and a snapshot is appended. No market data dependency; it exists for
// interface symmetry with the other strategies and as a comparison baseline.
type SavingsSimulator struct{}

func NewSavingsSimulator() *SavingsSimulator { return &SavingsSimulator{} }

func (s *SavingsSimulator) Name() string { return "savings_simulation" }

func (s *SavingsSimulator) Run(p Params) ([]*model.Account, error) {
	start, end, err := p.Dates()
	if err != nil {
		return nil, err
	}

	acct := model.NewAccount(start, float64(p.InitialInvestment), "Saving")
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Day() == 1 {
			acct.RecordBalance(day, acct.Balance+float64(p.MonthlyInvestment))
			acct.TotalInvested += float64(p.MonthlyInvestment)
		}
	}
	return []*model.Account{acct}, nil
}
