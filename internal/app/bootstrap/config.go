// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "HYDRODASH"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: deephydro_url, session_name, etc.
//   - Environment variables: HYDRODASH_DEEPHYDRO_URL, HYDRODASH_SESSION_NAME, etc.
//   - Command-line flags: --deephydro_url, --session_name, etc.
//
// The forecast horizon bounds (1-24 months) are deliberately NOT
// configurable; they are part of the DeepHydro service contract.
var appConfigKeys = []config.AppKey{
	{Name: "deephydro_url", Default: "http://localhost:5000", Desc: "Base URL of the DeepHydro forecast service"},
	{Name: "deephydro_timeout", Default: "120s", Desc: "Per-request timeout for DeepHydro calls (report generation is slow)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "hydrodash-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	{Name: "admin_login_id", Default: "admin", Desc: "Login ID of the administrator account"},
	{Name: "admin_secret", Default: "", Desc: "Administrator secret (plain; prefer admin_secret_bcrypt)"},
	{Name: "admin_secret_bcrypt", Default: "", Desc: "Bcrypt hash of the administrator secret (takes precedence over admin_secret)"},

	{Name: "audit_log_actions", Default: "all", Desc: "User action logging: 'all' (store+log), 'store', 'log', or 'off'"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Base URL the app is served from"},
}

// LoadConfig loads WAFFLE core config and app-specific config. It is
// called early in startup so both WAFFLE and the app have configuration
// before any backends or handlers are built. Precedence is
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DeepHydroURL:     appValues.String("deephydro_url"),
		DeepHydroTimeout: appValues.Duration("deephydro_timeout", 120*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		AdminLoginID:      appValues.String("admin_login_id"),
		AdminSecret:       appValues.String("admin_secret"),
		AdminSecretBcrypt: appValues.String("admin_secret_bcrypt"),

		AuditLogActions: appValues.String("audit_log_actions"),

		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. Returning an
// error aborts startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.DeepHydroURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		logger.Error("invalid DeepHydro URL", zap.String("deephydro_url", appCfg.DeepHydroURL))
		return fmt.Errorf("invalid deephydro_url %q: must be an absolute http(s) URL", appCfg.DeepHydroURL)
	}

	if appCfg.DeepHydroTimeout <= 0 {
		return fmt.Errorf("deephydro_timeout must be positive, got %s", appCfg.DeepHydroTimeout)
	}

	if appCfg.AdminSecret == "" && appCfg.AdminSecretBcrypt == "" {
		logger.Warn("no admin secret configured; login and the audit log page are unavailable")
	}

	return nil
}
