// Package logout terminates the admin session.
package logout

import (
	"net/http"

	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/system/auth"
	actionlog "github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides logout handlers.
type Handler struct {
	SessionMgr *auth.SessionManager
	Audit      *actionlog.Logger
	Log        *zap.Logger
}

// NewHandler creates a logout Handler.
func NewHandler(sessionMgr *auth.SessionManager, auditLogger *actionlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sessionMgr,
		Audit:      auditLogger,
		Log:        logger,
	}
}

// Routes returns a chi.Router with logout routes mounted. Logout is a POST
// so a crawler following links cannot end a session.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Post("/", h.HandleLogout)
	return r
}

// HandleLogout records the action, destroys the session, and returns to
// the dashboard.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	details := actionlog.RequestDetails(r)
	if user, ok := auth.CurrentUser(r); ok {
		details["login_id"] = user.LoginID
	}
	h.Audit.Success(audit.ActionLogout, details)

	h.SessionMgr.DestroySession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
