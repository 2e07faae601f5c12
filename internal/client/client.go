// Package client mounts a GUI application into the browser document.
package client

import (
	"errors"
	"strings"
)

// DefaultRootSelector is the element the application is mounted into.
const DefaultRootSelector = "#main"

var (
	// ErrUnsupportedTarget is returned by Launch outside a browser build.
	ErrUnsupportedTarget = errors.New("client: launch is only supported in the browser")

	ErrEmptySelector = errors.New("client: root selector must not be empty")
	ErrNilApp        = errors.New("client: app must not be nil")
)

// App renders the markup of an application.
type App interface {
	Render() string
}

// AppFunc adapts a function to App.
type AppFunc func() string

func (f AppFunc) Render() string {
	return f()
}

// Config controls how an application is launched.
type Config struct {
	// RootSelector is a CSS selector for the mount element.
	RootSelector string

	// Hydrate keeps server-rendered markup under the root and only binds
	// events. When false the root's content is replaced.
	Hydrate bool
}

func DefaultConfig() Config {
	return Config{RootSelector: DefaultRootSelector}
}

// Validate checks cfg and app before launching.
func Validate(app App, cfg Config) error {
	if app == nil {
		return ErrNilApp
	}
	if strings.TrimSpace(cfg.RootSelector) == "" {
		return ErrEmptySelector
	}
	return nil
}

func withDefaults(cfg Config) Config {
	if cfg.RootSelector == "" {
		cfg.RootSelector = DefaultRootSelector
	}
	return cfg
}
