package testutil

import (
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/deephydro/hydrodash/internal/app/resources"
	"go.uber.org/zap"
)

var bootOnce sync.Once
var bootErr error

// BootTemplatesOnce initializes the template engine for tests. It registers
// the shared templates and boots the engine exactly once; later calls are
// no-ops.
//
// Feature templates register themselves via init() when the feature package
// is imported, so they are automatically available when testing that
// feature.
func BootTemplatesOnce() error {
	bootOnce.Do(func() {
		resources.LoadSharedTemplates()

		eng := templates.New(false)
		logger := zap.NewNop()

		bootErr = eng.Boot(logger)
		if bootErr != nil {
			return
		}

		templates.UseEngine(eng, logger)
	})
	return bootErr
}

// MustBootTemplates boots templates and fails the test on error. This is
// the recommended way to initialize templates in tests.
func MustBootTemplates(t interface{ Fatalf(string, ...any) }) {
	if err := BootTemplatesOnce(); err != nil {
		t.Fatalf("failed to boot templates: %v", err)
	}
}
