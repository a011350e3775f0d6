package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"portfolio-sim/internal/analysis"
	"portfolio-sim/internal/config"
	"portfolio-sim/internal/data"
	"portfolio-sim/internal/simulation"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --start 2015-01-01 --end 2020-01-01 --initial 1000 --monthly 100 --tickers AAPL,MSFT --out results")
	fmt.Println("  cli rank --start 2015-01-01 --end 2020-01-01 --initial 1000 --monthly 100 --tickers AAPL")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes one balance-history CSV per account when --out is set")
	fmt.Println("  - rank compares final balances across all strategies")
	fmt.Println("  - FRED_API_KEY must be set (secrets.env or environment) for bond strategies")
}

type cliParams struct {
	cfg    *config.Config
	params simulation.Params
	only   string
	outDir string
}

func parseCommon(fs *flag.FlagSet, args []string) cliParams {
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	start := fs.String("start", "", "Start date (YYYY-MM-DD)")
	end := fs.String("end", "", "End date (YYYY-MM-DD)")
	initial := fs.String("initial", "", "Initial investment (e.g. 1000 or $1,000)")
	monthly := fs.String("monthly", "", "Monthly investment")
	tickers := fs.String("tickers", "", "Comma-separated tickers")
	only := fs.String("simulations", "", "Comma-separated subset of simulations (default: all)")
	outDir := fs.String("out", "", "Directory for balance-history CSVs (optional)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	raw := map[string]string{
		"start_date":         *start,
		"end_date":           *end,
		"initial_investment": *initial,
		"monthly_investment": *monthly,
		"tickers":            *tickers,
	}
	if raw["initial_investment"] == "" {
		raw["initial_investment"] = fmt.Sprint(cfg.Defaults.InitialInvestment)
	}
	if raw["monthly_investment"] == "" {
		raw["monthly_investment"] = fmt.Sprint(cfg.Defaults.MonthlyInvestment)
	}
	if raw["tickers"] == "" {
		raw["tickers"] = cfg.Defaults.Tickers
	}

	params, err := simulation.ParseParams(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid parameters: %v\n", err)
		os.Exit(2)
	}

	return cliParams{cfg: cfg, params: params, only: *only, outDir: *outDir}
}

func buildOrchestrator(cfg *config.Config) *simulation.Orchestrator {
	mem := data.NewCache(cfg.Data.CacheTTL.Std())

	fred := data.NewFREDClient(cfg.Data.FREDAPIKey, cfg.Data.FREDBaseURL)
	fred.SeriesID = cfg.Data.FREDSeriesID
	fred.Mem = mem
	fred.Disk = data.NewDiskCache(filepath.Join(cfg.Data.CacheDir, "bond_data"))

	quotes := data.NewQuoteClient(cfg.Data.QuotesBaseURL)
	quotes.Mem = mem
	quotes.SearchCache = data.NewCache(cfg.Data.SearchCacheTTL.Std())
	quotes.Disk = data.NewDiskCache(filepath.Join(cfg.Data.CacheDir, "stock_data"))

	ladder := simulation.NewBondLadderSimulator(fred)
	ladder.PurchaseIncrement = cfg.Simulation.BondIncrement
	ladder.TermMonths = cfg.Simulation.BondTermMonths

	hybrid := simulation.NewHybridSimulator(quotes, fred, rand.New(rand.NewSource(time.Now().UnixNano())))
	hybrid.PurchaseIncrement = cfg.Simulation.BondIncrement
	hybrid.TermMonths = cfg.Simulation.BondTermMonths
	hybrid.StrikeFactorMin = cfg.Simulation.StrikeMin
	hybrid.StrikeFactorMax = cfg.Simulation.StrikeMax

	return simulation.NewOrchestrator(
		simulation.NewDCASimulator(quotes, mem),
		ladder,
		hybrid,
		simulation.NewSavingsSimulator(),
	)
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	p := parseCommon(fs, args)

	orch := buildOrchestrator(p.cfg)
	results := orch.RunSelected(simulation.SplitTickers(p.only), p.params)

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Simulation", "Account", "Final balance", "Invested", "Gain", "Snapshots")
	for _, name := range names {
		res := results[name]
		if res.Failed() {
			table.Append(name, "-", "ERROR: "+res.Err, "-", "-", "-")
			continue
		}
		for _, acct := range res.Accounts {
			s := analysis.Summarize(name, acct)
			table.Append(
				name,
				acct.Name,
				fmt.Sprintf("$%.2f", s.FinalBalance),
				fmt.Sprintf("$%.2f", s.TotalInvested),
				fmt.Sprintf("$%.2f (%.1f%%)", s.Gain, s.GainPct),
				fmt.Sprintf("%d", s.Snapshots),
			)
		}
	}
	table.Render()

	if p.outDir == "" {
		return
	}
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", p.outDir, err)
		os.Exit(1)
	}
	for _, name := range names {
		res := results[name]
		if res.Failed() {
			continue
		}
		for _, acct := range res.Accounts {
			path := filepath.Join(p.outDir, csvName(name, acct.Name))
			if err := analysis.WriteHistoryCSV(path, acct); err != nil {
				fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Printf("Wrote %s\n", path)
		}
	}
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	p := parseCommon(fs, args)

	orch := buildOrchestrator(p.cfg)
	results := orch.RunAll(p.params)
	ranked := analysis.Rank(results)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Rank", "Strategy", "Account", "Final balance", "Invested", "Gain %", "CAGR")
	for i, s := range ranked {
		table.Append(
			fmt.Sprintf("%d", i+1),
			s.Strategy,
			s.AccountName,
			fmt.Sprintf("$%.2f", s.FinalBalance),
			fmt.Sprintf("$%.2f", s.TotalInvested),
			fmt.Sprintf("%.1f%%", s.GainPct),
			fmt.Sprintf("%.2f%%", s.CAGR*100),
		)
	}
	table.Render()

	for name, res := range results {
		if res.Failed() {
			fmt.Fprintf(os.Stderr, "warning: %s failed: %s\n", name, res.Err)
		}
	}
}

func csvName(sim, account string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, account)
	return sim + "_" + clean + ".csv"
}
