package remote

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/deephydro/hydrodash/internal/domain/series"
)

// levelValue tolerates the service sending a level as either a JSON number
// or a numeric string, which happens when the source spreadsheet carried
// text-formatted cells.
type levelValue float64

func (v *levelValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) > 1 && s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("level %s: %w", s, err)
		}
		s = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("level %q is not numeric", s)
	}
	*v = levelValue(f)
	return nil
}

func (v levelValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(v))
}

// wirePoint is a historical point as it appears on the wire.
type wirePoint struct {
	Date  string     `json:"date"`
	Level levelValue `json:"level"`
}

// wireForecastPoint adds the confidence interval bounds.
type wireForecastPoint struct {
	Date    string     `json:"date"`
	Level   levelValue `json:"level"`
	LowerCI float64    `json:"lower_ci"`
	UpperCI float64    `json:"upper_ci"`
}

func encodeHistorical(points []series.HistoricalPoint) []wirePoint {
	out := make([]wirePoint, len(points))
	for i, p := range points {
		out[i] = wirePoint{Date: p.Date.Format(series.DateLayout), Level: levelValue(p.Level)}
	}
	return out
}

func encodeForecast(points []series.ForecastPoint) []wireForecastPoint {
	out := make([]wireForecastPoint, len(points))
	for i, p := range points {
		out[i] = wireForecastPoint{
			Date:    p.Date.Format(series.DateLayout),
			Level:   levelValue(p.Level),
			LowerCI: p.LowerCI,
			UpperCI: p.UpperCI,
		}
	}
	return out
}

// decodeHistorical parses wire points into domain points. A malformed date
// fails the whole decode; partial datasets are never returned.
func decodeHistorical(points []wirePoint) ([]series.HistoricalPoint, error) {
	out := make([]series.HistoricalPoint, len(points))
	for i, p := range points {
		d, err := series.ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = series.HistoricalPoint{Date: d, Level: float64(p.Level)}
	}
	return out, nil
}

func decodeForecast(points []wireForecastPoint) ([]series.ForecastPoint, error) {
	out := make([]series.ForecastPoint, len(points))
	for i, p := range points {
		d, err := series.ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("forecast point %d: %w", i, err)
		}
		fp := series.ForecastPoint{
			Date:    d,
			Level:   float64(p.Level),
			LowerCI: p.LowerCI,
			UpperCI: p.UpperCI,
		}
		if err := fp.Validate(); err != nil {
			return nil, fmt.Errorf("forecast point %d: %w", i, err)
		}
		out[i] = fp
	}
	return out, nil
}
