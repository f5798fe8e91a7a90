// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown is invoked during WAFFLE's shutdown phase, after the HTTP
// server has stopped accepting requests and in-flight requests have
// drained.
//
// All HydroDash state is in process memory and is intentionally discarded
// here: the session point sets, chat history, and audit log do not survive
// a restart. The entry count is logged so an operator can see what was
// dropped.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	if deps.AuditStore != nil {
		logger.Info("discarding in-memory state",
			zap.Int("audit_entries", deps.AuditStore.Len()),
			zap.Bool("dataset_loaded", deps.Datasets.HasData()),
		)
	}
	return nil
}
