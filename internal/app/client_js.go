//go:build js && wasm

package app

import (
	"strconv"
	"syscall/js"

	"github.com/fullstack-project/fullstack-go/internal/logger"
)

// Bind wires the page's buttons once the app is mounted.
func (a *HelloApp) Bind(root js.Value) error {
	count := root.Call("querySelector", "#count")
	output := root.Call("querySelector", "#server-data")

	on(root, "#up", func() {
		a.Count++
		count.Set("innerText", strconv.Itoa(a.Count))
	})
	on(root, "#down", func() {
		a.Count--
		count.Set("innerText", strconv.Itoa(a.Count))
	})
	on(root, "#get", func() {
		call(a.endpoint(GetServerDataKey), "GET", "", output)
	})
	on(root, "#post", func() {
		call(a.endpoint(PostServerDataKey), "POST", `{"data":"Hello from the client!"}`, output)
	})
	on(root, "#visits", func() {
		call(a.endpoint(VisitsKey), "GET", "", output)
	})
	return nil
}

func on(root js.Value, selector string, fn func()) {
	el := root.Call("querySelector", selector)
	if !el.Truthy() {
		logger.Warnf("missing %s element", selector)
		return
	}
	el.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	}))
}

// call runs fetch and writes the response text into output. Every callback
// is released once the promise chain settles.
func call(url, method, body string, output js.Value) {
	opts := map[string]interface{}{"method": method}
	if body != "" {
		opts["body"] = body
		opts["headers"] = map[string]interface{}{"Content-Type": "application/json"}
	}

	var release func()
	toText := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return args[0].Call("text")
	})
	onText := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		text := args[0].String()
		logger.Infof("client received: %s", text)
		output.Set("innerText", text)
		release()
		return nil
	})
	onError := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		logger.Errorf("request to %s failed: %s", url, args[0].Call("toString").String())
		release()
		return nil
	})
	release = releaseOnce(toText, onText, onError)

	js.Global().Call("fetch", url, opts).
		Call("then", toText).
		Call("then", onText).
		Call("catch", onError)
}
