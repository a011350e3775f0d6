package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"portfolio-sim/internal/analysis"
	"portfolio-sim/internal/data"
	"portfolio-sim/internal/model"
	"portfolio-sim/internal/simulation"
)

// Demo:
// - Build (or load) a daily close series and a flat rate series
// - Wire local sources into the four simulators, no network needed
// - Run one year and print how each strategy grew the same deposits
func main() {
	dataPath := flag.String("data", "", "Optional path to a close-price series JSON (SeriesResponse shape)")
	ticker := flag.String("ticker", "DEMO", "Ticker label for the series")
	flag.Parse()

	start, _ := model.ParseDate("2023-01-01")
	end, _ := model.ParseDate("2024-01-01")

	quotes := data.NewLocalQuoteSource()
	if *dataPath != "" {
		series, err := data.LoadSeriesJSON(*dataPath)
		if err != nil {
			panic(err)
		}
		quotes.AddSeries(*ticker, *ticker+" (local file)", series.Data)
	} else {
		quotes.AddSeries(*ticker, "Demo Growth Co.", syntheticCloses(start, end))
	}
	rates := &data.LocalRateSource{Points: flatRates(start, end, 4.0)}

	hybrid := simulation.NewHybridSimulator(quotes, rates, rand.New(rand.NewSource(7)))
	orch := simulation.NewOrchestrator(
		simulation.NewDCASimulator(quotes, nil),
		simulation.NewBondLadderSimulator(rates),
		hybrid,
		simulation.NewSavingsSimulator(),
	)

	params := simulation.Params{
		StartDate:         start.Format(model.DateLayout),
		EndDate:           end.Format(model.DateLayout),
		InitialInvestment: 1000,
		MonthlyInvestment: 100,
		Tickers:           []string{*ticker},
	}

	fmt.Printf("Running %v from %s to %s ($%d initial, $%d/month)\n\n",
		orch.Names(), params.StartDate, params.EndDate,
		params.InitialInvestment, params.MonthlyInvestment)

	results := orch.RunAll(params)
	for _, name := range orch.Names() {
		res := results[name]
		if res.Failed() {
			fmt.Printf("%-20s ERROR: %s\n", name, res.Err)
			continue
		}
		for _, acct := range res.Accounts {
			s := analysis.Summarize(name, acct)
			fmt.Printf("%-20s %-28s final $%10.2f  invested $%8.2f  gain %6.1f%%\n",
				name, acct.Name, s.FinalBalance, s.TotalInvested, s.GainPct)
		}
	}
}

// syntheticCloses produces a weekday-only price walk with mild upward drift,
// deterministic across runs.
func syntheticCloses(start, end time.Time) []model.SeriesPoint {
	rng := rand.New(rand.NewSource(42))
	price := 150.0
	var points []model.SeriesPoint
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		price *= 1 + 0.0004 + 0.01*(rng.Float64()-0.5)
		points = append(points, model.SeriesPoint{
			Date:  day.Format(model.DateLayout),
			Value: model.Round2(price),
		})
	}
	return points
}

func flatRates(start, end time.Time, pct float64) []model.SeriesPoint {
	var points []model.SeriesPoint
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		points = append(points, model.SeriesPoint{Date: day.Format(model.DateLayout), Value: pct})
	}
	return points
}
