package series

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMerge_SizeAndOrder(t *testing.T) {
	h := []HistoricalPoint{
		{Date: day(2024, 1, 1), Level: 10.0},
		{Date: day(2024, 2, 1), Level: 10.5},
	}
	f := []ForecastPoint{
		{Date: day(2024, 3, 1), Level: 11.0, LowerCI: 10.5, UpperCI: 11.5},
	}

	c := Merge(h, f)

	if len(c) != len(h)+len(f) {
		t.Fatalf("len(Merge(h,f)) = %d, want %d", len(c), len(h)+len(f))
	}
	for i := 1; i < len(c); i++ {
		if c[i].Date.Before(c[i-1].Date) {
			t.Errorf("entry %d (%s) sorts before entry %d (%s)", i, c[i].Date, i-1, c[i-1].Date)
		}
	}

	wantLabels := []string{"Jan 24", "Feb 24", "Mar 24"}
	for i, want := range wantLabels {
		if c[i].Label != want {
			t.Errorf("entry %d label = %q, want %q", i, c[i].Label, want)
		}
	}

	// Only the forecast entry carries interval fields.
	for i, e := range c {
		isForecast := e.Origin == OriginForecast
		if (e.LowerCI != nil) != isForecast || (e.UpperCI != nil) != isForecast {
			t.Errorf("entry %d: interval presence does not match origin %q", i, e.Origin)
		}
	}
	if got := c[2]; got.LowerCI == nil || *got.LowerCI != 10.5 || got.UpperCI == nil || *got.UpperCI != 11.5 {
		t.Errorf("forecast entry interval = %v/%v, want 10.5/11.5", got.LowerCI, got.UpperCI)
	}
}

func TestMerge_TieBreaksHistoricalFirst(t *testing.T) {
	d := day(2024, 6, 1)
	h := []HistoricalPoint{{Date: d, Level: 9.0}}
	f := []ForecastPoint{{Date: d, Level: 9.2, LowerCI: 9.0, UpperCI: 9.4}}

	c := Merge(h, f)

	if len(c) != 2 {
		t.Fatalf("len = %d, want 2", len(c))
	}
	if c[0].Origin != OriginHistorical || c[1].Origin != OriginForecast {
		t.Errorf("tie order = [%s, %s], want [historical, forecast]", c[0].Origin, c[1].Origin)
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	c := Merge(nil, nil)
	if c == nil {
		t.Fatal("Merge(nil, nil) = nil, want empty slice")
	}
	if len(c) != 0 {
		t.Errorf("len = %d, want 0", len(c))
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	h := []HistoricalPoint{
		{Date: day(2024, 2, 1), Level: 2},
		{Date: day(2024, 1, 1), Level: 1},
	}
	f := []ForecastPoint{
		{Date: day(2024, 3, 1), Level: 3, LowerCI: 2.5, UpperCI: 3.5},
	}
	hCopy := append([]HistoricalPoint(nil), h...)
	fCopy := append([]ForecastPoint(nil), f...)

	first := Merge(h, f)
	second := Merge(h, f)

	if !reflect.DeepEqual(h, hCopy) || !reflect.DeepEqual(f, fCopy) {
		t.Error("Merge mutated its inputs")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Merge is not deterministic for identical inputs")
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	h := []HistoricalPoint{
		{Date: day(2024, 1, 1), Level: 10},
		{Date: day(2024, 2, 1), Level: 10.5},
		{Date: day(2024, 3, 1), Level: 10.7},
	}
	f := []ForecastPoint{
		{Date: day(2024, 3, 1), Level: 10.8, LowerCI: 10.4, UpperCI: 11.2},
		{Date: day(2024, 4, 1), Level: 11.0, LowerCI: 10.5, UpperCI: 11.5},
	}

	gotH, gotF := Split(Merge(h, f))

	if !reflect.DeepEqual(gotH, h) {
		t.Errorf("Split historical = %v, want %v", gotH, h)
	}
	if !reflect.DeepEqual(gotF, f) {
		t.Errorf("Split forecast = %v, want %v", gotF, f)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-03-01", want: day(2024, 3, 1)},
		{in: "2024-03-01T15:04:05Z", want: day(2024, 3, 1)},
		{in: "03/01/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrBadDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrBadDate", tt.in, err)
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestForecastPoint_Validate(t *testing.T) {
	good := ForecastPoint{Date: day(2024, 1, 1), Level: 5, LowerCI: 4, UpperCI: 6}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := ForecastPoint{Date: day(2024, 1, 1), Level: 7, LowerCI: 4, UpperCI: 6}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() = nil for level outside interval, want error")
	}
}
