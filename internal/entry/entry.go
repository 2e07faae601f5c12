// Package entry is the single startup point of the client application.
package entry

import (
	"fmt"
	"strings"

	"github.com/fullstack-project/fullstack-go/internal/client"
	"github.com/fullstack-project/fullstack-go/internal/logger"
)

// Target is the platform the client binary was built for.
type Target int

const (
	TargetNative Target = iota
	TargetBrowser
)

func (t Target) String() string {
	switch t {
	case TargetBrowser:
		return "browser"
	default:
		return "native"
	}
}

// ParseTarget converts a target name into a Target.
func ParseTarget(name string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "browser", "web", "wasm":
		return TargetBrowser, nil
	case "native", "":
		return TargetNative, nil
	default:
		return TargetNative, fmt.Errorf("unknown target: %s", name)
	}
}

// TargetFromGOOS maps the build's GOOS to a Target.
func TargetFromGOOS(goos string) Target {
	if goos == "js" {
		return TargetBrowser
	}
	return TargetNative
}

var launch = client.Launch

// Main boots app for target. In the browser, logs go to the console and the
// app is mounted without hydration; Main then only returns on failure. On
// native targets it does nothing.
func Main(target Target, app client.App) error {
	if target != TargetBrowser {
		return nil
	}

	logger.ConfigureConsole(&logger.ConsoleSink{Console: newConsole()})
	logger.Debugf("launching client for %s target", target)

	if err := launch(app, client.Config{RootSelector: client.DefaultRootSelector, Hydrate: false}); err != nil {
		logger.Errorf("failed to launch client: %v", err)
		return err
	}
	return nil
}
