//go:build js && wasm

package logger

import "syscall/js"

// BrowserConsole writes to the global console object.
type BrowserConsole struct {
	console js.Value
}

// NewBrowserConsole returns a Console backed by globalThis.console.
func NewBrowserConsole() *BrowserConsole {
	return &BrowserConsole{console: js.Global().Get("console")}
}

func (c *BrowserConsole) Debug(msg string) { c.console.Call("debug", msg) }
func (c *BrowserConsole) Info(msg string)  { c.console.Call("info", msg) }
func (c *BrowserConsole) Warn(msg string)  { c.console.Call("warn", msg) }
func (c *BrowserConsole) Error(msg string) { c.console.Call("error", msg) }
