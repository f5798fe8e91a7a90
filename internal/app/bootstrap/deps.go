// internal/app/bootstrap/deps.go
package bootstrap

import (
	"github.com/deephydro/hydrodash/internal/app/remote"
	"github.com/deephydro/hydrodash/internal/app/store/audit"
	"github.com/deephydro/hydrodash/internal/app/store/dataset"
	"github.com/deephydro/hydrodash/internal/app/system/credentials"
)

// Deps holds the backends for this WAFFLE app.
//
// HydroDash has no database: session state (point sets, chat history) and
// the audit log live in process memory by design and are discarded on
// restart. The only external dependency is the DeepHydro service.
//
// This struct is created in ConnectBackends and passed to subsequent
// lifecycle hooks: Startup, BuildHandler, and Shutdown.
type Deps struct {
	// Session-scoped point sets and chat history.
	Datasets *dataset.Store

	// Append-only user action log.
	AuditStore *audit.Store

	// Client for the DeepHydro computation service.
	Remote *remote.Client

	// Verifier for the admin secret at login.
	Verifier credentials.Verifier
}
