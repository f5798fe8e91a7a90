// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to HydroDash: the
// DeepHydro service endpoint, session and CSRF secrets, the admin
// credentials, and audit log routing.
type AppConfig struct {
	// DeepHydro forecast service
	DeepHydroURL     string        // Base URL of the DeepHydro service (e.g., http://localhost:5000)
	DeepHydroTimeout time.Duration // Per-request timeout; report generation is the slow call (default: 120s)

	// Session management
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: hydrodash-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)

	// CSRF protection
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Admin credentials. There is no user database: the one admin identity
	// lives here. When AdminSecretBcrypt is set it takes precedence and
	// AdminSecret is ignored; when both are empty, login is disabled.
	AdminLoginID      string
	AdminSecret       string
	AdminSecretBcrypt string

	// Audit logging: "all" (store + zap), "store", "log", or "off".
	AuditLogActions string

	// Base URL the app is served from (used in logs and diagnostics).
	BaseURL string
}
