// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"

	"github.com/deephydro/hydrodash/internal/app/remote"
	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/store/dataset"
	"github.com/deephydro/hydrodash/internal/app/system/credentials"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ConnectBackends builds the app's backends. WAFFLE calls this after
// configuration is loaded but before Startup.
//
// Nothing here opens a network connection: the stores are in-memory and
// the remote client connects lazily per request. Reachability of the
// DeepHydro service is checked (non-fatally) in Startup.
func ConnectBackends(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	remoteClient := remote.New(appCfg.DeepHydroURL, appCfg.DeepHydroTimeout, logger)
	logger.Info("configured DeepHydro client",
		zap.String("url", appCfg.DeepHydroURL),
		zap.Duration("timeout", appCfg.DeepHydroTimeout),
	)

	var verifier credentials.Verifier
	if appCfg.AdminSecretBcrypt != "" {
		verifier = credentials.NewBcrypt(appCfg.AdminSecretBcrypt)
		logger.Info("admin secret verification: bcrypt")
	} else {
		verifier = credentials.NewStatic(appCfg.AdminSecret)
		if appCfg.AdminSecret != "" {
			logger.Info("admin secret verification: static (consider admin_secret_bcrypt)")
		}
	}

	return Deps{
		Datasets:   dataset.New(),
		AuditStore: audit.New(),
		Remote:     remoteClient,
		Verifier:   verifier,
	}, nil
}
