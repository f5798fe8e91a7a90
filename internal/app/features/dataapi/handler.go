// Package dataapi owns the dataset endpoints: workbook upload, reset, and
// the read-side views the chart and tables consume.
package dataapi

import (
	"context"
	"io"

	uierrors "github.com/deephydro/hydrodash/internal/app/features/errors"
	"github.com/deephydro/hydrodash/internal/app/store/dataset"
	"github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/domain/series"
	"go.uber.org/zap"
)

// Uploader is the slice of the DeepHydro client this feature needs.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) ([]series.HistoricalPoint, error)
}

// Handler owns the dataset API handlers.
type Handler struct {
	Datasets *dataset.Store
	Remote   Uploader
	Audit    *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler creates a dataapi Handler.
func NewHandler(datasets *dataset.Store, remote Uploader, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Datasets: datasets,
		Remote:   remote,
		Audit:    audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// apiPoint is a historical point in API responses, date in YYYY-MM-DD form.
type apiPoint struct {
	Date  string  `json:"date"`
	Level float64 `json:"level"`
}

func toAPIPoints(points []series.HistoricalPoint) []apiPoint {
	out := make([]apiPoint, len(points))
	for i, p := range points {
		out[i] = apiPoint{Date: p.Date.Format(series.DateLayout), Level: p.Level}
	}
	return out
}
