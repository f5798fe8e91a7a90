// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	auditlogfeature "github.com/deephydro/hydrodash/internal/app/features/auditlog"
	dataapifeature "github.com/deephydro/hydrodash/internal/app/features/dataapi"
	errorsfeature "github.com/deephydro/hydrodash/internal/app/features/errors"
	exportsfeature "github.com/deephydro/hydrodash/internal/app/features/exports"
	forecastapifeature "github.com/deephydro/hydrodash/internal/app/features/forecastapi"
	healthfeature "github.com/deephydro/hydrodash/internal/app/features/health"
	homefeature "github.com/deephydro/hydrodash/internal/app/features/home"
	loginfeature "github.com/deephydro/hydrodash/internal/app/features/login"
	logoutfeature "github.com/deephydro/hydrodash/internal/app/features/logout"
	reportapifeature "github.com/deephydro/hydrodash/internal/app/features/reportapi"
	appresources "github.com/deephydro/hydrodash/internal/app/resources"
	"github.com/deephydro/hydrodash/internal/app/system/auditlog"
	"github.com/deephydro/hydrodash/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// Route map:
//
//	/                dashboard page
//	/api/*           JSON API consumed by the dashboard script
//	/download/*      CSV/XLSX exports of the point sets
//	/login /logout   admin session
//	/admin/audit     audit log page + CSV (admin only)
//	/health ...      probes
//	/assets/*        embedded static assets
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Boot the template engine once at startup. Dev mode enables template
	// reloading.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLogger := auditlog.New(deps.AuditStore, logger, auditlog.Config{
		Actions: appCfg.AuditLogActions,
	})

	r := chi.NewRouter()

	// Global middleware. The timeout must cover the slowest DeepHydro call
	// (report generation), so it rides above the remote client's own
	// timeout rather than cutting it short.
	r.Use(chimw.Timeout(appCfg.DeepHydroTimeout + 10*time.Second))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(sessionMgr.LoadSessionUser)

	// CSRF protection for browser form routes. The /api/* endpoints are
	// exempt: they are same-origin fetch calls from the dashboard script,
	// carry no form tokens, and perform no privileged actions.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("hydrodash_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	r.Use(func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if strings.HasPrefix(req.URL.Path, "/api/") {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	})

	// JSON API consumed by the dashboard script.
	dataHandler := dataapifeature.NewHandler(deps.Datasets, deps.Remote, auditLogger, errLog, logger)
	forecastHandler := forecastapifeature.NewHandler(deps.Datasets, deps.Remote, auditLogger, errLog, logger)
	reportHandler := reportapifeature.NewHandler(deps.Datasets, deps.Remote, auditLogger, errLog, logger)
	r.Route("/api", func(api chi.Router) {
		dataapifeature.MountRoutes(api, dataHandler)
		forecastapifeature.MountRoutes(api, forecastHandler)
		reportapifeature.MountRoutes(api, reportHandler)
	})

	// Dataset downloads.
	exportsHandler := exportsfeature.NewHandler(deps.Datasets, auditLogger, errLog, logger)
	r.Mount("/download", exportsfeature.Routes(exportsHandler))

	// Health check endpoints for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.Remote, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Embedded static assets (bundled into the binary).
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Authentication.
	loginHandler := loginfeature.NewHandler(sessionMgr, deps.Verifier, appCfg.AdminLoginID, auditLogger, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Audit log (admin only).
	auditLogHandler := auditlogfeature.NewHandler(deps.AuditStore, auditLogger, errLog, logger)
	r.Mount("/admin/audit", auditlogfeature.Routes(auditLogHandler, sessionMgr))

	// Error pages.
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Dashboard page.
	homeHandler := homefeature.NewHandler(deps.Datasets, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
