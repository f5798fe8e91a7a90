// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/deephydro/hydrodash/internal/app/resources"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after backends are built but before the HTTP handler
// is constructed and requests are served.
//
// Returning a non-nil error aborts startup. A DeepHydro outage does not:
// the dashboard still serves, exports still work, and remote-backed
// operations surface their own errors per request.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := deps.Remote.Ping(pingCtx); err != nil {
		logger.Warn("DeepHydro service unreachable at startup; continuing",
			zap.String("url", appCfg.DeepHydroURL),
			zap.Error(err),
		)
	} else {
		logger.Info("DeepHydro service reachable", zap.String("url", appCfg.DeepHydroURL))
	}

	return nil
}
