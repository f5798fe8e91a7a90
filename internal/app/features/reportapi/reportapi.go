// Package reportapi owns the narrative endpoints: PDF report generation
// and the assistant chat. Both forward the session point sets to the
// DeepHydro service as context.
package reportapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	uierrors "github.com/deephydro/hydrodash/internal/app/features/errors"
	"github.com/deephydro/hydrodash/internal/app/remote"
	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/store/dataset"
	"github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/app/system/htmlsanitize"
	"github.com/deephydro/hydrodash/internal/app/system/jsonutil"
	"github.com/deephydro/hydrodash/internal/app/system/remoteerr"
	"github.com/deephydro/hydrodash/internal/domain/series"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Reporter is the slice of the DeepHydro client this feature needs.
type Reporter interface {
	GenerateReport(ctx context.Context, hist []series.HistoricalPoint, fc []series.ForecastPoint, language string) ([]byte, error)
	Chat(ctx context.Context, history []remote.ChatMessage, hist []series.HistoricalPoint, fc []series.ForecastPoint) (string, error)
}

// Handler owns the report and chat handlers.
type Handler struct {
	Datasets *dataset.Store
	Remote   Reporter
	Audit    *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler creates a reportapi Handler.
func NewHandler(datasets *dataset.Store, remote Reporter, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Datasets: datasets,
		Remote:   remote,
		Audit:    audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// MountRoutes registers the report and chat endpoints on the given router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/report", h.ServeReport)
	r.Post("/chat", h.ServeChat)
}

// Routes returns a standalone router with the report and chat endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	MountRoutes(r, h)
	return r
}

// ServeReport handles POST /api/report: a PDF report in the requested
// language ("en" or "fr"), streamed back as an attachment.
func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	details := auditlog.RequestDetails(r)

	var in struct {
		Language string `json:"language"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		h.Audit.Failure(audit.ActionReport, err.Error(), details)
		jsonutil.BadRequest(w, err.Error())
		return
	}
	if in.Language != "en" && in.Language != "fr" {
		h.Audit.Failure(audit.ActionReport, "unsupported language", details)
		jsonutil.BadRequest(w, "Language must be \"en\" or \"fr\".")
		return
	}
	details["language"] = in.Language

	hist := h.Datasets.Historical()
	if len(hist) == 0 {
		h.Audit.Failure(audit.ActionReport, "no data uploaded", details)
		jsonutil.BadRequest(w, "No data uploaded for reporting.")
		return
	}
	fc, _ := h.Datasets.Forecast()

	pdf, err := h.Remote.GenerateReport(r.Context(), hist, fc, in.Language)
	if err != nil {
		h.ErrLog.Log(r, "report generation via deephydro failed", err)
		h.Audit.Failure(audit.ActionReport, remoteerr.Message(err), details)
		remoteerr.Write(w, err)
		return
	}

	details["bytes"] = strconv.Itoa(len(pdf))
	h.Audit.Success(audit.ActionReport, details)

	filename := fmt.Sprintf("water_level_report_%s.pdf", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	if _, err := w.Write(pdf); err != nil {
		h.Log.Error("report write failed", zap.Error(err))
	}
}

// ServeChat handles POST /api/chat. The message is reduced to plain text
// before it enters the session history; the full history plus both point
// sets ride along as context for the assistant.
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	details := auditlog.RequestDetails(r)

	var in struct {
		Message string `json:"message"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		h.Audit.Failure(audit.ActionChat, err.Error(), details)
		jsonutil.BadRequest(w, err.Error())
		return
	}

	message := htmlsanitize.Message(in.Message)
	if message == "" {
		h.Audit.Failure(audit.ActionChat, "empty message", details)
		jsonutil.BadRequest(w, "Message is empty.")
		return
	}

	history := h.Datasets.AppendChat(dataset.ChatMessage{Role: "user", Content: message})
	hist := h.Datasets.Historical()
	fc, _ := h.Datasets.Forecast()

	reply, err := h.Remote.Chat(r.Context(), toWireHistory(history), hist, fc)
	if err != nil {
		h.ErrLog.Log(r, "chat via deephydro failed", err)
		h.Audit.Failure(audit.ActionChat, remoteerr.Message(err), details)
		remoteerr.Write(w, err)
		return
	}

	h.Datasets.AppendChat(dataset.ChatMessage{Role: "model", Content: reply})
	h.Audit.Success(audit.ActionChat, details)

	jsonutil.OK(w, map[string]string{"response": reply})
}

func toWireHistory(history []dataset.ChatMessage) []remote.ChatMessage {
	out := make([]remote.ChatMessage, len(history))
	for i, m := range history {
		out[i] = remote.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
