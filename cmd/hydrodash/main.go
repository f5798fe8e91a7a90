// Command hydrodash serves the water-level dashboard.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/waffle/app"

	"github.com/deephydro/hydrodash/internal/app/bootstrap"
)

func main() {
	// app.Run blocks until shutdown; it installs its own signal handling,
	// so the root context only needs to exist, not to be interrupt-bound.
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatalf("hydrodash: %v", err)
	}
}
