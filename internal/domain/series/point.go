// Package series holds the water-level point model and the merge pipeline
// that reconciles historical and forecasted points into a single ordered,
// labeled sequence for charting and export.
package series

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadDate marks a date string that parses under no accepted layout.
// Callers can match it with errors.Is.
var ErrBadDate = errors.New("unparseable date")

// Origin distinguishes observed samples from predicted ones once both are
// combined into one sequence.
type Origin string

const (
	OriginHistorical Origin = "historical"
	OriginForecast   Origin = "forecast"
)

// DateLayout is the day-resolution wire and export form for point dates.
const DateLayout = "2006-01-02"

// LabelLayout is the display label form (month abbreviation + two-digit
// year) used on chart axes. Labels are derived; ordering always uses the
// underlying instant.
const LabelLayout = "Jan 06"

// HistoricalPoint is one observed date/level sample from the uploaded
// dataset. Points are immutable once loaded; a new upload replaces the set
// wholesale.
type HistoricalPoint struct {
	Date  time.Time `json:"date"`
	Level float64   `json:"level"`
}

// ForecastPoint is one predicted date/level sample with its confidence
// interval. Invariant: LowerCI <= Level <= UpperCI.
type ForecastPoint struct {
	Date    time.Time `json:"date"`
	Level   float64   `json:"level"`
	LowerCI float64   `json:"lower_ci"`
	UpperCI float64   `json:"upper_ci"`
}

// Validate reports whether the confidence interval brackets the level.
func (p ForecastPoint) Validate() error {
	if p.LowerCI > p.Level || p.Level > p.UpperCI {
		return fmt.Errorf("confidence interval [%g, %g] does not bracket level %g at %s",
			p.LowerCI, p.UpperCI, p.Level, p.Date.Format(DateLayout))
	}
	return nil
}

// CombinedEntry is the display-oriented projection of one merged point.
// It is derived by Merge and never persisted; the underlying Date is kept
// alongside the rendered Label so formatting is never applied before
// ordering. LowerCI/UpperCI are nil on historical entries: absence, not
// zero, so a missing interval cannot be mistaken for a zero-width one.
type CombinedEntry struct {
	Label   string    `json:"date"`
	Date    time.Time `json:"-"`
	Level   float64   `json:"level"`
	LowerCI *float64  `json:"lower_ci,omitempty"`
	UpperCI *float64  `json:"upper_ci,omitempty"`
	Origin  Origin    `json:"origin"`
}

// ParseDate parses a day-resolution date as produced by the DeepHydro
// service. RFC 3339 timestamps are accepted and truncated to the day. A
// date that parses under neither form is a reportable error, never
// silently dropped.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}
