package dataapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/app/system/jsonutil"
	"github.com/deephydro/hydrodash/internal/app/system/remoteerr"
)

// maxUploadBytes bounds workbook uploads.
const maxUploadBytes = 16 << 20

// ServeUpload handles POST /api/upload. The file is precondition-checked
// locally (present, .xlsx extension) and forwarded to the DeepHydro service
// for parsing; a successful parse replaces the historical set wholesale and
// clears any forecast derived from the previous dataset.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		jsonutil.BadRequest(w, "No file part")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.BadRequest(w, "No file part")
		return
	}
	defer file.Close()

	filename := header.Filename
	details := auditlog.RequestDetails(r)
	details["filename"] = filename

	if filename == "" {
		h.Audit.Failure(audit.ActionUpload, "no selected file", details)
		jsonutil.BadRequest(w, "No selected file")
		return
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		h.Audit.Failure(audit.ActionUpload, "invalid file type", details)
		jsonutil.BadRequest(w, "Invalid file type. Please upload an .xlsx file.")
		return
	}

	points, err := h.Remote.Upload(r.Context(), filename, file)
	if err != nil {
		h.ErrLog.Log(r, "upload to deephydro failed", err)
		h.Audit.Failure(audit.ActionUpload, err.Error(), details)
		remoteerr.Write(w, err)
		return
	}

	uploadID := h.Datasets.SetHistorical(points)

	details["upload_id"] = uploadID
	details["points"] = strconv.Itoa(len(points))
	h.Audit.Success(audit.ActionUpload, details)

	jsonutil.OK(w, map[string]any{
		"message":   "File uploaded and processed successfully",
		"upload_id": uploadID,
		"data":      toAPIPoints(points),
	})
}

// ServeReset handles POST /api/reset: clears the historical set, the
// forecast, and the chat context.
func (h *Handler) ServeReset(w http.ResponseWriter, r *http.Request) {
	h.Datasets.Reset()
	h.Audit.Success(audit.ActionReset, auditlog.RequestDetails(r))
	jsonutil.OK(w, map[string]string{"message": "Dataset cleared"})
}

// ServeData handles GET /api/data: the current historical points.
func (h *Handler) ServeData(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]any{
		"upload_id": h.Datasets.UploadID(),
		"data":      toAPIPoints(h.Datasets.Historical()),
	})
}

// ServeSeries handles GET /api/series: the merged historical-plus-forecast
// sequence the chart renders, with display labels, origins, and confidence
// intervals on forecast entries only.
func (h *Handler) ServeSeries(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]any{"series": h.Datasets.Combined()})
}
