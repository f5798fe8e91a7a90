// Package auditlog is the admin-facing view of the action log: a filtered,
// paginated list page plus a CSV download of the full log.
package auditlog

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/deephydro/hydrodash/internal/app/features/errors"
	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/system/auth"
	actionlog "github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/app/system/export"
	"github.com/deephydro/hydrodash/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const pageSize = 50

// Handler provides the audit log admin handlers.
type Handler struct {
	AuditStore *audit.Store
	Audit      *actionlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

// NewHandler creates an auditlog Handler.
func NewHandler(store *audit.Store, auditLogger *actionlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		AuditStore: store,
		Audit:      auditLogger,
		ErrLog:     errLog,
		Log:        logger,
	}
}

// Routes returns the admin audit log routes. Every route requires the
// admin role.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRole("admin"))

	r.Get("/", h.ServeList)
	r.Get("/export.csv", h.ServeExport)

	return r
}

// listItem is one audit entry prepared for display.
type listItem struct {
	Timestamp time.Time
	Action    string
	Success   bool
	Error     string
	Details   []detailPair
}

// detailPair is one key/value detail, ordered for stable rendering.
type detailPair struct {
	Key   string
	Value string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	Action  string
	Actions []string

	Page       int
	TotalPages int
	Total      int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// actionOptions are the filterable action labels, in menu order.
func actionOptions() []string {
	return []string{
		audit.ActionUpload,
		audit.ActionReset,
		audit.ActionAnalyze,
		audit.ActionForecast,
		audit.ActionReport,
		audit.ActionChat,
		audit.ActionExport,
		audit.ActionAuditExport,
		audit.ActionLogin,
		audit.ActionLogout,
	}
}

// ServeList displays the audit log, most recent first, with an optional
// action filter and pagination.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimSpace(r.URL.Query().Get("action"))

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	entries := h.filtered(action)
	total := len(entries)

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]listItem, 0, end-start)
	for _, e := range entries[start:end] {
		items = append(items, toListItem(e))
	}

	vm := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Audit Log", "/"),
		Items:      items,
		Action:     action,
		Actions:    actionOptions(),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}

	templates.Render(w, r, "auditlog/list", vm)
}

// ServeExport streams the full audit log (ignoring the page but honoring
// the action filter) as a CSV attachment. The export itself is recorded,
// so it appears in the next download.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimSpace(r.URL.Query().Get("action"))
	entries := h.filtered(action)

	t := export.Table{Columns: []string{"timestamp", "action", "success", "error", "details"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{
			e.Timestamp.Format(time.RFC3339),
			e.Action,
			e.Details["success"],
			e.Details["error"],
			flattenDetails(e.Details),
		})
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, t); err != nil {
		h.ErrLog.Log(r, "audit log export failed", err)
		http.Error(w, "No audit entries to export.", http.StatusBadRequest)
		return
	}

	details := actionlog.RequestDetails(r)
	details["entries"] = strconv.Itoa(len(entries))
	if action != "" {
		details["action_filter"] = action
	}
	h.Audit.Success(audit.ActionAuditExport, details)

	filename := fmt.Sprintf("audit_log_%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

// filtered returns the entries most recent first, narrowed to one action
// when the filter is set.
func (h *Handler) filtered(action string) []audit.Entry {
	entries := h.AuditStore.List()
	if action == "" {
		return entries
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func toListItem(e audit.Entry) listItem {
	item := listItem{
		Timestamp: e.Timestamp,
		Action:    e.Action,
		Success:   e.Details["success"] != "false",
		Error:     e.Details["error"],
	}
	for k, v := range e.Details {
		if k == "success" || k == "error" {
			continue
		}
		item.Details = append(item.Details, detailPair{Key: k, Value: v})
	}
	sort.Slice(item.Details, func(i, j int) bool { return item.Details[i].Key < item.Details[j].Key })
	return item
}

// flattenDetails renders the non-outcome details as "k=v; k=v" in key
// order, for the single CSV details column.
func flattenDetails(details map[string]string) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		if k == "success" || k == "error" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+details[k])
	}
	return strings.Join(parts, "; ")
}
