// Package login handles administrator sign-in. There is no user database:
// the single admin identity lives in configuration and the secret is
// checked through a credentials.Verifier.
package login

import (
	"net/http"

	uierrors "github.com/deephydro/hydrodash/internal/app/features/errors"
	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/system/auth"
	actionlog "github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/app/system/credentials"
	"github.com/deephydro/hydrodash/internal/app/system/normalize"
	"github.com/deephydro/hydrodash/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// adminDisplayName is what the nav shows for the signed-in admin.
const adminDisplayName = "Administrator"

// Handler provides login handlers.
type Handler struct {
	SessionMgr   *auth.SessionManager
	Verifier     credentials.Verifier
	AdminLoginID string
	Audit        *actionlog.Logger
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

// NewHandler creates a login Handler.
func NewHandler(
	sessionMgr *auth.SessionManager,
	verifier credentials.Verifier,
	adminLoginID string,
	auditLogger *actionlog.Logger,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		SessionMgr:   sessionMgr,
		Verifier:     verifier,
		AdminLoginID: normalize.LoginID(adminLoginID),
		Audit:        auditLogger,
		ErrLog:       errLog,
		Log:          logger,
	}
}

// LoginVM is the view model for the login page.
type LoginVM struct {
	viewdata.BaseVM
	Error     string
	LoginID   string
	ReturnURL string
}

// Routes returns a chi.Router with login routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ShowLogin)
	r.Post("/", h.HandleLogin)

	return r
}

// ShowLogin displays the login form. Already signed-in users are sent to
// the dashboard.
func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	vm := LoginVM{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		ReturnURL: query.Get(r, "return"),
	}
	templates.Render(w, r, "login/index", vm)
}

// HandleLogin checks the submitted credentials and establishes a session.
// Unknown login ID and wrong secret produce the same message, so the form
// does not reveal which half was wrong.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.Log(r, "failed to parse login form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	loginID := normalize.LoginID(r.FormValue("login_id"))
	secret := r.FormValue("secret")
	returnURL := r.FormValue("return")

	details := actionlog.RequestDetails(r)
	details["login_id"] = loginID

	if loginID == "" || secret == "" {
		h.renderError(w, r, "Please enter your login ID and password.", loginID, returnURL)
		return
	}

	// The secret is always verified, even for a wrong login ID, so both
	// failure paths take comparable time.
	secretOK := h.Verifier.Verify(secret)
	if loginID != h.AdminLoginID || !secretOK {
		h.Audit.Failure(audit.ActionLogin, "invalid credentials", details)
		h.renderError(w, r, "Invalid login ID or password.", loginID, returnURL)
		return
	}

	if err := h.SessionMgr.CreateSession(w, r, adminDisplayName, loginID, "admin", ""); err != nil {
		h.ErrLog.Log(r, "failed to create session", err)
		h.Audit.Failure(audit.ActionLogin, "session creation failed", details)
		h.renderError(w, r, "Service temporarily unavailable. Please try again.", loginID, returnURL)
		return
	}

	h.Audit.Success(audit.ActionLogin, details)
	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/"), http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, msg, loginID, returnURL string) {
	vm := LoginVM{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		Error:     msg,
		LoginID:   loginID,
		ReturnURL: returnURL,
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "login/index", vm)
}
