// Package auth provides cookie-session authentication for the dashboard's
// administrative surface. There is no user database: the session itself
// carries the signed-in identity (login ID, display name, role), written at
// login and trusted until the cookie expires or is destroyed.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deephydro/hydrodash/internal/app/system/normalize"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session value keys.
const (
	isAuthKey       = "is_authenticated"
	userNameKey     = "user_name"
	userLoginIDKey  = "user_login_id"
	userRoleKey     = "user_role"
	sessionTokenKey = "session_token"
)

// Session error classification for logging.
type sessionErrorType int

const (
	sessionErrUnknown   sessionErrorType = iota
	sessionErrExpired                    // timestamp expired, normal
	sessionErrTampered                   // MAC invalid, potential attack
	sessionErrCorrupted                  // decode/decrypt failed, corruption or key rotation
	sessionErrBackend                    // store failure
)

// SessionConfigError is returned when session configuration is invalid.
type SessionConfigError struct {
	Message string
}

func (e *SessionConfigError) Error() string {
	return e.Message
}

// SessionUser is the signed-in identity in the request context.
type SessionUser struct {
	Name    string
	LoginID string
	Role    string
	Token   string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user and a "found?" flag from the request context.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// SessionManager encapsulates the cookie store and session configuration.
// Use NewSessionManager to create an instance.
type SessionManager struct {
	store  *sessions.CookieStore
	logger *zap.Logger
	name   string
}

// NewSessionManager creates a SessionManager.
//
// sessionKey signs cookies and must be at least 32 random chars when secure
// is true; secure also sets the Secure cookie flag. name defaults to
// "hydrodash-session" when empty; domain empty means current host.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, &SessionConfigError{Message: "session key is empty; provide ≥32 random chars"}
	}

	isWeak := len(sessionKey) < 32 || isDefaultKey(sessionKey)
	if secure && isWeak {
		return nil, &SessionConfigError{
			Message: "session key is too weak for production; provide ≥32 random chars (not the default dev key)",
		}
	}
	if !secure && isWeak {
		logger.Warn("session key is weak; 32+ random chars required in production",
			zap.Int("length", len(sessionKey)))
	}

	if name == "" {
		name = "hydrodash-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		// Lax allows top-level navigations while blocking cross-site POSTs.
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("name", name))

	return &SessionManager{store: store, logger: logger, name: name}, nil
}

// SessionName returns the configured session cookie name.
func (sm *SessionManager) SessionName() string {
	return sm.name
}

// GetSession retrieves the session for the request.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// LoadSessionUser returns middleware that injects the signed-in user into
// the request context. Session errors start a fresh anonymous session; they
// never fail the request.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			sm.logSessionError(err, r)
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			loginID := getString(sess, userLoginIDKey)
			if loginID != "" {
				r = withUser(r, &SessionUser{
					Name:    getString(sess, userNameKey),
					LoginID: loginID,
					Role:    getString(sess, userRoleKey),
					Token:   getString(sess, sessionTokenKey),
				})
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn returns middleware that ensures a user is in context.
// Browser requests are redirected to the login page with a return URL; API
// callers get a plain 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		sm.unauthorized(w, r)
	})
}

// RequireRole returns middleware that ensures the signed-in user holds one
// of the allowed roles. Not signed in gets 401 semantics; signed in with
// the wrong role gets 403 semantics.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[normalize.Role(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				sm.unauthorized(w, r)
				return
			}

			if _, has := set[normalize.Role(u.Role)]; !has {
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CreateSession establishes a session for the given identity. If token is
// empty a new one is generated.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, r *http.Request, name, loginID, role, token string) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sess, _ = sm.store.New(r, sm.name)
	}

	if token == "" {
		token, err = GenerateSessionToken()
		if err != nil {
			return err
		}
	}

	sess.Values[isAuthKey] = true
	sess.Values[userNameKey] = name
	sess.Values[userLoginIDKey] = normalize.LoginID(loginID)
	sess.Values[userRoleKey] = normalize.Role(role)
	sess.Values[sessionTokenKey] = token

	return sess.Save(r, w)
}

// DestroySession terminates the user's session.
func (sm *SessionManager) DestroySession(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return
	}

	sess.Values[isAuthKey] = false
	delete(sess.Values, userNameKey)
	delete(sess.Values, userLoginIDKey)
	delete(sess.Values, userRoleKey)
	delete(sess.Values, sessionTokenKey)

	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

// GenerateSessionToken generates a random URL-safe token for session
// tracking.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// WithTestUser injects a SessionUser into the request context for testing.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func (sm *SessionManager) unauthorized(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		ret := url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func (sm *SessionManager) logSessionError(err error, r *http.Request) {
	errType, category := classifySessionError(err)
	switch errType {
	case sessionErrExpired:
		sm.logger.Debug("session expired, starting fresh session",
			zap.String("category", category),
			zap.String("path", r.URL.Path))
	case sessionErrTampered:
		sm.logger.Warn("session MAC validation failed (possible tampering)",
			zap.String("category", category),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()))
	case sessionErrCorrupted:
		sm.logger.Info("session decode failed, starting fresh session",
			zap.String("category", category),
			zap.String("path", r.URL.Path))
	default:
		sm.logger.Warn("session error, starting fresh session",
			zap.Error(err),
			zap.String("category", category),
			zap.String("path", r.URL.Path))
	}
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// isDefaultKey checks whether the session key looks like a placeholder.
func isDefaultKey(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range []string{"dev-only", "change-me", "placeholder", "default", "example", "insecure", "test-key", "secret123", "password"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// classifySessionError categorizes a session/cookie error for logging.
func classifySessionError(err error) (sessionErrorType, string) {
	if err == nil {
		return sessionErrUnknown, "none"
	}

	errStr := strings.ToLower(err.Error())

	if scErr, ok := err.(securecookie.Error); ok {
		if !scErr.IsDecode() {
			return sessionErrBackend, "backend"
		}
		switch {
		case strings.Contains(errStr, "expired timestamp"):
			return sessionErrExpired, "expired"
		case strings.Contains(errStr, "mac") || strings.Contains(errStr, "hash"):
			return sessionErrTampered, "mac_invalid"
		case strings.Contains(errStr, "decrypt"):
			return sessionErrCorrupted, "decrypt_failed"
		case strings.Contains(errStr, "base64") || strings.Contains(errStr, "decode"):
			return sessionErrCorrupted, "decode_failed"
		default:
			return sessionErrCorrupted, "decode_other"
		}
	}

	return sessionErrBackend, "unknown"
}
