// Package functions turns declarative function configs into server
// functions.
package functions

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fullstack-project/fullstack-go/internal/capture"
	"github.com/fullstack-project/fullstack-go/internal/config"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/registry"
	"github.com/fullstack-project/fullstack-go/internal/script"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/store"
	"github.com/fullstack-project/fullstack-go/internal/template"
)

// Register adds a server function for every function declared in configs.
// Templated responses are rendered with renderer, or with a renderer over
// provider when it is nil.
func Register(b *registry.Builder, configs []config.Config, provider store.Provider, renderer *template.Renderer) error {
	if renderer == nil {
		renderer = template.NewRenderer("", provider)
	}
	for _, cfg := range configs {
		for _, fn := range cfg.Functions {
			h, err := build(cfg.ConfigDir, fn, provider, renderer)
			if err != nil {
				return fmt.Errorf("function %s: %w", fn.Path, err)
			}
			if len(fn.Capture) > 0 {
				h = withCapture(capture.New(fn.Capture, provider, renderer), h)
			}
			if fn.Method != "" {
				h = restrictMethod(strings.ToUpper(fn.Method), h)
			}
			if err := b.Register(fn.Path, h); err != nil {
				return err
			}
			logger.Debugf("registered configured server function %s", fn.Path)
		}
	}
	return nil
}

func build(configDir string, fn config.Function, provider store.Provider, renderer *template.Renderer) (serverfn.Handler, error) {
	switch {
	case fn.Response != nil:
		return staticResponse(configDir, fn.Response, renderer)
	case fn.Script != nil && fn.Script.Code != "":
		return script.Compile(fn.Path, fn.Script.Code, provider)
	case fn.Script != nil && fn.Script.File != "":
		path, err := config.ValidatePath(fn.Script.File, configDir)
		if err != nil {
			return nil, err
		}
		return script.CompileFile(path, provider)
	case fn.Remote != nil:
		return remoteFunction(fn.Remote, renderer)
	default:
		return nil, fmt.Errorf("no response, script or remote configured")
	}
}

func staticResponse(configDir string, resp *config.Response, renderer *template.Renderer) (serverfn.Handler, error) {
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	body := []byte(resp.Content)
	contentType := ""
	if resp.File != "" {
		path, err := config.ValidatePath(resp.File, configDir)
		if err != nil {
			return nil, err
		}
		if body, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read response file: %w", err)
		}
		contentType = mime.TypeByExtension(filepath.Ext(path))
	}

	return serverfn.HandlerFunc(func(ctx *serverfn.Context, req *http.Request) (*http.Response, error) {
		render := func(s string) string { return s }
		if resp.Template {
			render = func(s string) string { return renderer.Render(s, ctx, req) }
		}

		out := serverfn.NewResponse(status, contentType, []byte(render(string(body))))
		for k, v := range resp.Headers {
			out.Header.Set(k, render(v))
		}
		return out, nil
	}), nil
}

func restrictMethod(method string, h serverfn.Handler) serverfn.Handler {
	return serverfn.HandlerFunc(func(ctx *serverfn.Context, req *http.Request) (*http.Response, error) {
		if req.Method != method {
			out := serverfn.NewResponse(http.StatusMethodNotAllowed, "text/plain; charset=utf-8", []byte("Method not allowed"))
			out.Header.Set("Allow", method)
			return out, nil
		}
		return h.Serve(ctx, req)
	})
}

func withCapture(c *capture.Capturer, h serverfn.Handler) serverfn.Handler {
	return serverfn.HandlerFunc(func(ctx *serverfn.Context, req *http.Request) (*http.Response, error) {
		if err := c.Capture(ctx, req); err != nil {
			return nil, err
		}
		return h.Serve(ctx, req)
	})
}
