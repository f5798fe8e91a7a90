// Package forecastapi owns the analysis and forecasting endpoints. Both
// operate on the session dataset: input preconditions are checked locally
// before any remote request is issued, and a failed remote call never
// touches stored state.
package forecastapi

import (
	"context"
	"net/http"
	"strconv"

	uierrors "github.com/deephydro/hydrodash/internal/app/features/errors"
	"github.com/deephydro/hydrodash/internal/app/remote"
	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/store/dataset"
	"github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/app/system/jsonutil"
	"github.com/deephydro/hydrodash/internal/app/system/remoteerr"
	"github.com/deephydro/hydrodash/internal/domain/series"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Forecast horizon bounds, enforced here so an out-of-range request never
// reaches the service.
const (
	MinMonths = 1
	MaxMonths = 24
)

// Analyzer is the slice of the DeepHydro client this feature needs.
type Analyzer interface {
	Analyze(ctx context.Context, hist []series.HistoricalPoint) (remote.Analysis, error)
	Forecast(ctx context.Context, hist []series.HistoricalPoint, months int) (remote.ForecastResult, error)
}

// Handler owns the forecast API handlers.
type Handler struct {
	Datasets *dataset.Store
	Remote   Analyzer
	Audit    *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler creates a forecastapi Handler.
func NewHandler(datasets *dataset.Store, remote Analyzer, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Datasets: datasets,
		Remote:   remote,
		Audit:    audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// MountRoutes registers the forecast API endpoints on the given router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/analyze", h.ServeAnalyze)
	r.Post("/forecast", h.ServeForecast)
}

// Routes returns a standalone router with the forecast API endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	MountRoutes(r, h)
	return r
}

// ServeAnalyze handles POST /api/analyze: descriptive statistics and
// narrative findings for the current dataset.
func (h *Handler) ServeAnalyze(w http.ResponseWriter, r *http.Request) {
	details := auditlog.RequestDetails(r)

	hist := h.Datasets.Historical()
	if len(hist) == 0 {
		h.Audit.Failure(audit.ActionAnalyze, "no data uploaded", details)
		jsonutil.BadRequest(w, "No data uploaded for analysis.")
		return
	}

	analysis, err := h.Remote.Analyze(r.Context(), hist)
	if err != nil {
		h.ErrLog.Log(r, "analyze via deephydro failed", err)
		h.Audit.Failure(audit.ActionAnalyze, remoteerr.Message(err), details)
		remoteerr.Write(w, err)
		return
	}

	details["points"] = strconv.Itoa(len(hist))
	h.Audit.Success(audit.ActionAnalyze, details)

	jsonutil.OK(w, analysis)
}

// ServeForecast handles POST /api/forecast. The horizon rides in the body
// as {"months": n} and must be within [1, 24]; a successful forecast
// replaces the forecast set and its metrics. Two overlapping forecasts are
// a tolerated race: the last to complete wins.
func (h *Handler) ServeForecast(w http.ResponseWriter, r *http.Request) {
	details := auditlog.RequestDetails(r)

	var in struct {
		Months int `json:"months"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		h.Audit.Failure(audit.ActionForecast, err.Error(), details)
		jsonutil.BadRequest(w, err.Error())
		return
	}
	details["months"] = strconv.Itoa(in.Months)

	if in.Months < MinMonths || in.Months > MaxMonths {
		h.Audit.Failure(audit.ActionForecast, "months out of range", details)
		jsonutil.BadRequest(w, "Forecast horizon must be between 1 and 24 months.")
		return
	}

	hist := h.Datasets.Historical()
	if len(hist) == 0 {
		h.Audit.Failure(audit.ActionForecast, "no data uploaded", details)
		jsonutil.BadRequest(w, "No data uploaded for forecasting.")
		return
	}

	result, err := h.Remote.Forecast(r.Context(), hist, in.Months)
	if err != nil {
		h.ErrLog.Log(r, "forecast via deephydro failed", err)
		h.Audit.Failure(audit.ActionForecast, remoteerr.Message(err), details)
		remoteerr.Write(w, err)
		return
	}

	h.Datasets.SetForecast(result.Forecast, dataset.Metrics(result.Metrics))

	details["forecast_points"] = strconv.Itoa(len(result.Forecast))
	h.Audit.Success(audit.ActionForecast, details)

	jsonutil.OK(w, map[string]any{
		"message":  "Forecast generated successfully",
		"forecast": toAPIForecast(result.Forecast),
		"metrics":  result.Metrics,
	})
}

// apiForecastPoint is a forecast point in API responses.
type apiForecastPoint struct {
	Date    string  `json:"date"`
	Level   float64 `json:"level"`
	LowerCI float64 `json:"lower_ci"`
	UpperCI float64 `json:"upper_ci"`
}

func toAPIForecast(points []series.ForecastPoint) []apiForecastPoint {
	out := make([]apiForecastPoint, len(points))
	for i, p := range points {
		out[i] = apiForecastPoint{
			Date:    p.Date.Format(series.DateLayout),
			Level:   p.Level,
			LowerCI: p.LowerCI,
			UpperCI: p.UpperCI,
		}
	}
	return out
}
