//go:build !(js && wasm)

package entry

import (
	"fmt"
	"os"

	"github.com/fullstack-project/fullstack-go/internal/logger"
)

type stderrConsole struct{}

func (stderrConsole) Debug(msg string) { fmt.Fprintln(os.Stderr, msg) }
func (stderrConsole) Info(msg string)  { fmt.Fprintln(os.Stderr, msg) }
func (stderrConsole) Warn(msg string)  { fmt.Fprintln(os.Stderr, msg) }
func (stderrConsole) Error(msg string) { fmt.Fprintln(os.Stderr, msg) }

var newConsole = func() logger.Console {
	return stderrConsole{}
}
