//go:build js && wasm

package client

import (
	"fmt"
	"syscall/js"

	"github.com/fullstack-project/fullstack-go/internal/logger"
)

// Binder is implemented by apps that attach event listeners once mounted.
type Binder interface {
	Bind(root js.Value) error
}

// Launch mounts app and blocks forever so that registered callbacks stay
// alive.
func Launch(app App, cfg Config) error {
	cfg = withDefaults(cfg)
	if err := Validate(app, cfg); err != nil {
		return err
	}

	document := js.Global().Get("document")
	root := document.Call("querySelector", cfg.RootSelector)
	if !root.Truthy() {
		return fmt.Errorf("client: no element matches %q", cfg.RootSelector)
	}

	if cfg.Hydrate {
		logger.Debugf("hydrating %s", cfg.RootSelector)
	} else {
		logger.Debugf("mounting into %s", cfg.RootSelector)
		root.Set("innerHTML", app.Render())
	}

	if binder, ok := app.(Binder); ok {
		if err := binder.Bind(root); err != nil {
			return fmt.Errorf("client: failed to bind app: %w", err)
		}
	}

	select {}
}
