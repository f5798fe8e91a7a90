package series

import "sort"

// Merge combines a historical sequence and a forecast sequence into one
// chronologically ordered, display-ready sequence.
//
// Properties:
//   - the result contains every element of h and f, tagged with its origin
//   - entries are sorted ascending by underlying instant; when a historical
//     and a forecast point share a date, the historical entry comes first
//   - within one origin the input order is preserved (the sort is stable)
//   - h and f are never mutated; identical inputs yield identical output
//
// Either input may be empty; merging nothing yields an empty (non-nil)
// sequence rather than an error.
func Merge(h []HistoricalPoint, f []ForecastPoint) []CombinedEntry {
	out := make([]CombinedEntry, 0, len(h)+len(f))

	for _, p := range h {
		out = append(out, CombinedEntry{
			Date:   p.Date,
			Level:  p.Level,
			Origin: OriginHistorical,
		})
	}
	for _, p := range f {
		lo, hi := p.LowerCI, p.UpperCI
		out = append(out, CombinedEntry{
			Date:    p.Date,
			Level:   p.Level,
			LowerCI: &lo,
			UpperCI: &hi,
			Origin:  OriginForecast,
		})
	}

	// Stable sort: equal dates keep historical-before-forecast because
	// historical entries were appended first.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	// Labels are rendered after ordering; the instant stays on the entry
	// for export and re-sorting.
	for i := range out {
		out[i].Label = out[i].Date.Format(LabelLayout)
	}

	return out
}

// Split is the origin-preserving inverse projection of Merge: it
// reconstructs the historical and forecast sequences from a merged one,
// each in merge order.
func Split(c []CombinedEntry) ([]HistoricalPoint, []ForecastPoint) {
	var h []HistoricalPoint
	var f []ForecastPoint
	for _, e := range c {
		switch e.Origin {
		case OriginForecast:
			fp := ForecastPoint{Date: e.Date, Level: e.Level}
			if e.LowerCI != nil {
				fp.LowerCI = *e.LowerCI
			}
			if e.UpperCI != nil {
				fp.UpperCI = *e.UpperCI
			}
			f = append(f, fp)
		default:
			h = append(h, HistoricalPoint{Date: e.Date, Level: e.Level})
		}
	}
	return h, f
}
