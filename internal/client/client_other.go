//go:build !js

package client

import "github.com/fullstack-project/fullstack-go/internal/logger"

// Launch is unavailable outside the browser.
func Launch(app App, cfg Config) error {
	if err := Validate(app, withDefaults(cfg)); err != nil {
		return err
	}
	logger.Warnln("client launch requested outside the browser")
	return ErrUnsupportedTarget
}
