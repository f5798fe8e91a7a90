package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef-extra-entropy"

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	return sm
}

func TestNewSessionManager_RejectsWeakKeyInSecureMode(t *testing.T) {
	_, err := NewSessionManager("short", "", "", time.Hour, true, zap.NewNop())
	if err == nil {
		t.Error("NewSessionManager() accepted a weak key with secure=true")
	}

	_, err = NewSessionManager("", "", "", time.Hour, false, zap.NewNop())
	if err == nil {
		t.Error("NewSessionManager() accepted an empty key")
	}
}

func TestNewSessionManager_DefaultCookieName(t *testing.T) {
	sm := newTestManager(t)
	if got := sm.SessionName(); got != "hydrodash-session" {
		t.Errorf("SessionName() = %q, want hydrodash-session", got)
	}
}

func TestCreateSessionThenLoad(t *testing.T) {
	sm := newTestManager(t)

	// Log in.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := sm.CreateSession(w, r, "Administrator", "Admin", "admin", ""); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("CreateSession() set no cookie")
	}

	// Next request carries the cookie.
	var got *SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	})
	r2 := httptest.NewRequest(http.MethodGet, "/admin/audit", nil)
	for _, c := range cookies {
		r2.AddCookie(c)
	}
	sm.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), r2)

	if got == nil {
		t.Fatal("LoadSessionUser did not inject a user")
	}
	if got.LoginID != "admin" {
		t.Errorf("LoginID = %q, want normalized %q", got.LoginID, "admin")
	}
	if got.Role != "admin" || got.Name != "Administrator" {
		t.Errorf("user = %+v, want admin role and display name", got)
	}
	if got.Token == "" {
		t.Error("session token was not generated")
	}
}

func TestDestroySession_ClearsIdentity(t *testing.T) {
	sm := newTestManager(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := sm.CreateSession(w, r, "Administrator", "admin", "admin", ""); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	r2 := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	sm.DestroySession(w2, r2)

	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentUser(r)
	})
	r3 := httptest.NewRequest(http.MethodGet, "/admin/audit", nil)
	for _, c := range w2.Result().Cookies() {
		r3.AddCookie(c)
	}
	sm.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), r3)

	if found {
		t.Error("user still present after DestroySession")
	}
}

func TestRequireSignedIn_RedirectsBrowsersAnd401sAPIs(t *testing.T) {
	sm := newTestManager(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler ran without a signed-in user")
	})

	// Browser request.
	r := httptest.NewRequest(http.MethodGet, "/admin/audit", nil)
	r.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	sm.RequireSignedIn(next).ServeHTTP(w, r)
	if w.Code != http.StatusSeeOther {
		t.Errorf("browser status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/login?return=") {
		t.Errorf("Location = %q, want login redirect with return URL", loc)
	}

	// API request.
	r2 := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	w2 := httptest.NewRecorder()
	sm.RequireSignedIn(next).ServeHTTP(w2, r2)
	if w2.Code != http.StatusUnauthorized {
		t.Errorf("API status = %d, want 401", w2.Code)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newTestManager(t)
	var ran bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ran = true })
	mw := sm.RequireRole("admin")(next)

	// Right role passes, case-insensitively.
	r := WithTestUser(httptest.NewRequest(http.MethodGet, "/admin/audit", nil),
		&SessionUser{LoginID: "admin", Role: "Admin"})
	mw.ServeHTTP(httptest.NewRecorder(), r)
	if !ran {
		t.Error("admin user was not let through")
	}

	// Wrong role gets 403.
	ran = false
	r2 := WithTestUser(httptest.NewRequest(http.MethodGet, "/admin/audit", nil),
		&SessionUser{LoginID: "viewer", Role: "viewer"})
	w2 := httptest.NewRecorder()
	mw.ServeHTTP(w2, r2)
	if ran || w2.Code != http.StatusForbidden {
		t.Errorf("viewer got status %d (ran=%v), want 403", w2.Code, ran)
	}
}

func TestGenerateSessionToken_Unique(t *testing.T) {
	a, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	b, _ := GenerateSessionToken()
	if a == b || a == "" {
		t.Errorf("tokens not unique: %q, %q", a, b)
	}
}
