// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires this app into the WAFFLE lifecycle. Each function is called
// in order by app.Run, from configuration loading through backend setup,
// one-time startup work, HTTP handler construction, and graceful shutdown.
//
// There is no EnsureSchema hook: HydroDash keeps no database.
var Hooks = app.Hooks[AppConfig, Deps]{
	Name:           "hydrodash",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectBackends,
	Startup:        Startup,
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
