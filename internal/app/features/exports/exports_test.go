package exports

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/deephydro/hydrodash/internal/app/features/errors"
	auditstore "github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/store/dataset"
	"github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/domain/series"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newTestHandler() (*Handler, *dataset.Store, *auditstore.Store) {
	datasets := dataset.New()
	auditStore := auditstore.New()
	logger := zap.NewNop()
	return NewHandler(
		datasets,
		auditlog.New(auditStore, logger, auditlog.Config{}),
		uierrors.NewErrorLogger(logger),
		logger,
	), datasets, auditStore
}

func day(s string) time.Time {
	d, _ := time.Parse(series.DateLayout, s)
	return d
}

func seed(datasets *dataset.Store) {
	datasets.SetHistorical([]series.HistoricalPoint{
		{Date: day("2024-01-01"), Level: 10},
		{Date: day("2024-02-01"), Level: 12.5},
	})
	datasets.SetForecast([]series.ForecastPoint{
		{Date: day("2024-03-01"), Level: 13, LowerCI: 12, UpperCI: 14},
	}, dataset.Metrics{MAE: 0.2, RMSE: 0.3, MAPE: 1.5})
}

func get(h *Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	Routes(h).ServeHTTP(rec, req)
	return rec
}

func TestDownloadHistoricalCSV(t *testing.T) {
	h, datasets, auditStore := newTestHandler()
	seed(datasets)

	rec := get(h, "/historical.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "historical_water_levels.csv") {
		t.Errorf("Content-Disposition = %q, want the scoped filename", cd)
	}

	body := strings.TrimPrefix(rec.Body.String(), "\xef\xbb\xbf")
	lines := strings.Split(strings.TrimRight(body, "\r\n"), "\r\n")
	want := []string{"date,level", "2024-01-01,10", "2024-02-01,12.5"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	entries := auditStore.List()
	if len(entries) != 1 || entries[0].Action != auditstore.ActionExport {
		t.Fatalf("audit entries = %+v, want one export", entries)
	}
	if entries[0].Details["scope"] != "historical" || entries[0].Details["format"] != "csv" {
		t.Errorf("audit details = %+v, want scope and format", entries[0].Details)
	}
}

func TestDownloadForecastCSVIncludesIntervals(t *testing.T) {
	h, datasets, _ := newTestHandler()
	seed(datasets)

	rec := get(h, "/forecast.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "date,level,lower_ci,upper_ci") {
		t.Errorf("header missing from %q", body)
	}
	if !strings.Contains(body, "2024-03-01,13,12,14") {
		t.Errorf("forecast row missing from %q", body)
	}
}

func TestDownloadCombinedCSVMarksOriginAndBlanksIntervals(t *testing.T) {
	h, datasets, _ := newTestHandler()
	seed(datasets)

	rec := get(h, "/combined.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "2024-01-01,10,,,historical") {
		t.Errorf("historical row with blank intervals missing from %q", body)
	}
	if !strings.Contains(body, "2024-03-01,13,12,14,forecast") {
		t.Errorf("forecast row missing from %q", body)
	}
}

func TestDownloadHistoricalWorkbook(t *testing.T) {
	h, datasets, _ := newTestHandler()
	seed(datasets)

	rec := get(h, "/historical.xlsx")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "historical_water_levels.xlsx") {
		t.Errorf("Content-Disposition = %q, want the scoped filename", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("body is not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Historical Data")
	if err != nil {
		t.Fatalf("sheet missing: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "date" || rows[1][1] != "10" {
		t.Errorf("rows = %v, want header plus two data rows", rows)
	}
}

func TestDownloadEmptyDatasetIs400(t *testing.T) {
	h, _, auditStore := newTestHandler()

	rec := get(h, "/historical.csv")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "No data to export.") {
		t.Errorf("body = %q, want the no-data message", rec.Body.String())
	}
	entries := auditStore.List()
	if len(entries) != 1 || entries[0].Details["success"] != "false" {
		t.Errorf("audit entries = %+v, want one failed export", entries)
	}
}

func TestDownloadForecastWithoutForecastIs400(t *testing.T) {
	h, datasets, _ := newTestHandler()
	datasets.SetHistorical([]series.HistoricalPoint{{Date: day("2024-01-01"), Level: 10}})

	rec := get(h, "/forecast.csv")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDownloadUnknownScopeIs404(t *testing.T) {
	h, datasets, _ := newTestHandler()
	seed(datasets)

	if rec := get(h, "/everything.csv"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown scope: status = %d, want 404", rec.Code)
	}
	if rec := get(h, "/historical.pdf"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown format: status = %d, want 404", rec.Code)
	}
}
