package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar days everywhere in this module.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// SeriesPoint is one sample of a daily price or rate series.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SeriesResponse matches the JSON shape written by the disk cache and loaded
// by the demo/CLI offline paths.
type SeriesResponse struct {
	ID   string        `json:"id"`
	Data []SeriesPoint `json:"data"`
}

// PadDaily fills gaps in a chronologically ordered series so every calendar
// day in [start, end] has a value. Days present in the raw series (matched by
// walking both sequences in lockstep) use the raw sample; other days carry the
// last emitted value forward, or 0 before the first sample. This is what lets
// the simulators treat "is there a value today" as always-true and never
// special-case weekends or holidays.
//
// Runs in O(days + samples).
func PadDaily(points []SeriesPoint, start, end time.Time) []SeriesPoint {
	if end.Before(start) {
		return nil
	}
	days := int(end.Sub(start).Hours()/24) + 1
	out := make([]SeriesPoint, 0, days)

	i := 0
	prev := 0.0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		ds := day.Format(DateLayout)
		if i < len(points) && points[i].Date == ds {
			out = append(out, points[i])
			prev = points[i].Value
			i++
			continue
		}
		out = append(out, SeriesPoint{Date: ds, Value: prev})
	}
	return out
}

// SeriesByDate indexes a series by its date string for O(1) daily lookups.
func SeriesByDate(points []SeriesPoint) map[string]float64 {
	m := make(map[string]float64, len(points))
	for _, p := range points {
		m[p.Date] = p.Value
	}
	return m
}

// AddMonths advances by whole calendar months, clamping to the last day of the
// target month (Jan 31 + 3 months is Apr 30, not May 1). Bond maturities use
// this so a month-end purchase matures at month end.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}
