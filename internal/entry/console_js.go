//go:build js && wasm

package entry

import "github.com/fullstack-project/fullstack-go/internal/logger"

var newConsole = func() logger.Console {
	return logger.NewBrowserConsole()
}
