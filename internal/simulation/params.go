package simulation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"portfolio-sim/internal/model"
)

// Params is the shared parameter bag consumed by every simulator.
// Dates are YYYY-MM-DD; money amounts are whole dollars.
type Params struct {
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	InitialInvestment int      `json:"initial_investment"`
	MonthlyInvestment int      `json:"monthly_investment"`
	Tickers           []string `json:"tickers"`
}

// ParseParams builds Params from raw string inputs (query params, CLI flags).
// Money inputs tolerate a leading currency symbol and thousands separators
// ("$1,000" parses as 1000); anything else malformed is a parameter error and
// is never silently defaulted. Tickers may be a single comma-separated string.
func ParseParams(raw map[string]string) (Params, error) {
	var p Params

	p.StartDate = strings.TrimSpace(raw["start_date"])
	p.EndDate = strings.TrimSpace(raw["end_date"])
	if _, _, err := parseRange(p.StartDate, p.EndDate); err != nil {
		return Params{}, err
	}

	var err error
	if p.InitialInvestment, err = parseMoney(raw["initial_investment"]); err != nil {
		return Params{}, fmt.Errorf("initial_investment: %w", err)
	}
	if p.MonthlyInvestment, err = parseMoney(raw["monthly_investment"]); err != nil {
		return Params{}, fmt.Errorf("monthly_investment: %w", err)
	}

	p.Tickers = SplitTickers(raw["tickers"])
	return p, nil
}

// Dates parses and validates the simulation date range.
func (p Params) Dates() (start, end time.Time, err error) {
	return parseRange(p.StartDate, p.EndDate)
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := model.ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := model.ParseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date %s is before start_date %s", endDate, startDate)
	}
	return start, end, nil
}

func parseMoney(s string) (int, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("amount is required")
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}

// SplitTickers splits a comma-separated ticker list, trimming whitespace and
// dropping empties.
func SplitTickers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, t := range parts {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
