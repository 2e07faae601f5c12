// Package script implements server functions written in JavaScript.
package script

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dop251/goja"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/store"
)

// Handler runs a compiled script once per invocation, each time in a fresh
// runtime.
type Handler struct {
	name     string
	program  *goja.Program
	provider store.Provider
}

// Compile parses code into a script server function. Stores opened by the
// script are served from provider.
func Compile(name, code string, provider store.Provider) (*Handler, error) {
	program, err := goja.Compile(name, code, false)
	if err != nil {
		return nil, fmt.Errorf("failed to compile script %s: %w", name, err)
	}
	return &Handler{name: name, program: program, provider: provider}, nil
}

// CompileFile reads and compiles a script file.
func CompileFile(path string, provider store.Provider) (*Handler, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file %s: %w", path, err)
	}
	return Compile(path, string(content), provider)
}

type scriptResponse struct {
	called     bool
	statusCode int
	body       string
	headers    map[string]string
}

func (h *Handler) Serve(ctx *serverfn.Context, req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		if body, err = io.ReadAll(req.Body); err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	vm := goja.New()
	resp := &scriptResponse{}

	console := make(map[string]interface{})
	console["log"] = func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			logger.Infof("[Script %s] %v", h.name, arg)
		}
		return goja.Undefined()
	}
	if err := vm.Set("console", console); err != nil {
		return nil, err
	}
	if err := vm.Set("context", map[string]interface{}{
		"request":   requestContext(ctx, req, body),
		"requestId": ctx.RequestID,
	}); err != nil {
		return nil, err
	}
	if err := vm.Set("stores", h.storesObject(vm)); err != nil {
		return nil, err
	}
	if err := vm.Set("respond", func(call goja.FunctionCall) goja.Value {
		resp.called = true
		resp.statusCode = http.StatusOK
		if len(call.Arguments) > 0 {
			resp.statusCode = int(call.Argument(0).ToInteger())
		}
		if len(call.Arguments) > 1 && !goja.IsUndefined(call.Argument(1)) {
			resp.body = call.Argument(1).String()
		}
		if len(call.Arguments) > 2 {
			headers := make(map[string]string)
			if err := vm.ExportTo(call.Argument(2), &headers); err != nil {
				panic(vm.ToValue("respond headers must be an object of strings"))
			}
			resp.headers = headers
		}
		return goja.Undefined()
	}); err != nil {
		return nil, err
	}

	if _, err := vm.RunProgram(h.program); err != nil {
		if jsErr, ok := err.(*goja.Exception); ok {
			return nil, fmt.Errorf("script execution failed: %v", jsErr.Value())
		}
		return nil, fmt.Errorf("script execution failed: %w", err)
	}

	if !resp.called {
		return serverfn.NewResponse(http.StatusOK, "", nil), nil
	}
	out := serverfn.NewResponse(resp.statusCode, "", []byte(resp.body))
	for k, v := range resp.headers {
		out.Header.Set(k, v)
	}
	return out, nil
}

func requestContext(ctx *serverfn.Context, req *http.Request, body []byte) map[string]interface{} {
	headers := make(map[string]string)
	for k, v := range req.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	query := make(map[string]string)
	for k, v := range req.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	return map[string]interface{}{
		"method":      req.Method,
		"path":        req.URL.Path,
		"routeKey":    ctx.RouteKey,
		"uri":         req.URL.String(),
		"body":        string(body),
		"headers":     headers,
		"queryParams": query,
	}
}
