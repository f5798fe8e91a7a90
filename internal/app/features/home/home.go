// Package home renders the dashboard page. The page is a shell: the chart,
// analysis panel, and chat are driven client-side against the JSON API,
// but any existing chat history is rendered server-side so a reload does
// not lose the conversation view.
package home

import (
	"net/http"

	"github.com/deephydro/hydrodash/internal/app/store/dataset"
	"github.com/deephydro/hydrodash/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides the dashboard page handler.
type Handler struct {
	Datasets *dataset.Store
	Log      *zap.Logger
}

// NewHandler creates a home Handler.
func NewHandler(datasets *dataset.Store, logger *zap.Logger) *Handler {
	return &Handler{Datasets: datasets, Log: logger}
}

// HomeVM is the view model for the dashboard page.
type HomeVM struct {
	viewdata.BaseVM
	HasData     bool
	UploadID    string
	ChatHistory []dataset.ChatMessage
}

// Routes returns a chi.Router with the dashboard route mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	return r
}

// Index renders the dashboard.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	vm := HomeVM{
		BaseVM:      viewdata.NewBaseVM(r, "Dashboard", "/"),
		HasData:     h.Datasets.HasData(),
		UploadID:    h.Datasets.UploadID(),
		ChatHistory: h.Datasets.Chat(),
	}
	templates.Render(w, r, "home/index", vm)
}
