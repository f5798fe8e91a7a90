// Package exports serves the dataset download endpoints. Each endpoint
// snapshots the requested point set, renders it through the tabular
// exporter, and streams it as an attachment.
package exports

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	uierrors "github.com/deephydro/hydrodash/internal/app/features/errors"
	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/store/dataset"
	"github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/app/system/export"
	"github.com/deephydro/hydrodash/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler owns the download handlers.
type Handler struct {
	Datasets *dataset.Store
	Audit    *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler creates an exports Handler.
func NewHandler(datasets *dataset.Store, auditLogger *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Datasets: datasets,
		Audit:    auditLogger,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// Routes returns the router for download endpoints. Paths follow the
// scope.format pattern: /download/historical.csv, /download/combined.xlsx.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{scope:(?:historical|forecast|combined)}.{format:(?:csv|xlsx)}", h.ServeDownload)

	return r
}

// Sheet names for workbook exports, keyed by scope.
var sheetNames = map[string]string{
	"historical": "Historical Data",
	"forecast":   "Forecast Data",
	"combined":   "Combined Data",
}

// ServeDownload streams one point set in the requested format.
func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")
	format := chi.URLParam(r, "format")

	details := auditlog.RequestDetails(r)
	details["scope"] = scope
	details["format"] = format

	table := h.buildTable(scope)

	filename := fmt.Sprintf("%s_water_levels.%s", scope, format)
	var err error
	switch format {
	case "csv":
		buf, csvErr := renderCSV(table)
		if csvErr != nil {
			err = csvErr
			break
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
		_, err = w.Write(buf)
	case "xlsx":
		buf, xlsxErr := renderWorkbook(sheetNames[scope], table)
		if xlsxErr != nil {
			err = xlsxErr
			break
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
		_, err = w.Write(buf)
	}

	if err != nil {
		if errors.Is(err, export.ErrNoRecords) {
			h.Audit.Failure(audit.ActionExport, "no data to export", details)
			jsonutil.BadRequest(w, "No data to export.")
			return
		}
		h.ErrLog.Log(r, "export failed", err)
		h.Audit.Failure(audit.ActionExport, "export failed", details)
		jsonutil.InternalError(w, "Export failed.")
		return
	}

	details["rows"] = fmt.Sprint(len(table.Rows))
	h.Audit.Success(audit.ActionExport, details)
}

// buildTable assembles the export table for a scope. Scope values are
// constrained by the route pattern.
func (h *Handler) buildTable(scope string) export.Table {
	switch scope {
	case "historical":
		points := h.Datasets.Historical()
		t := export.Table{Columns: []string{"date", "level"}}
		for _, p := range points {
			t.Rows = append(t.Rows, []any{p.Date, p.Level})
		}
		return t
	case "forecast":
		points, _ := h.Datasets.Forecast()
		t := export.Table{Columns: []string{"date", "level", "lower_ci", "upper_ci"}}
		for _, p := range points {
			t.Rows = append(t.Rows, []any{p.Date, p.Level, p.LowerCI, p.UpperCI})
		}
		return t
	default:
		entries := h.Datasets.Combined()
		t := export.Table{Columns: []string{"date", "level", "lower_ci", "upper_ci", "origin"}}
		for _, e := range entries {
			t.Rows = append(t.Rows, []any{e.Date, e.Level, ciValue(e.LowerCI), ciValue(e.UpperCI), string(e.Origin)})
		}
		return t
	}
}

// ciValue maps an absent confidence bound to an empty cell.
func ciValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// renderCSV and renderWorkbook buffer the full document before any byte
// reaches the client, so validation failures still produce a clean JSON
// error response instead of a truncated attachment.

func renderCSV(t export.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderWorkbook(sheet string, t export.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, sheet, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
