// Package capture saves values from a request into stores.
package capture

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/fullstack-project/fullstack-go/internal/config"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/query"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/store"
	"github.com/fullstack-project/fullstack-go/internal/template"
)

// Capturer applies a function's capture configuration.
type Capturer struct {
	captures map[string]config.Capture
	provider store.Provider
	renderer *template.Renderer
}

func New(captures map[string]config.Capture, provider store.Provider, renderer *template.Renderer) *Capturer {
	return &Capturer{captures: captures, provider: provider, renderer: renderer}
}

// Capture stores every enabled capture with a non-empty value. The request
// body is restored afterwards.
func (c *Capturer) Capture(ctx *serverfn.Context, req *http.Request) error {
	if len(c.captures) == 0 {
		return nil
	}
	if c.provider == nil {
		return fmt.Errorf("capture requires a store")
	}

	var body []byte
	if req.Body != nil {
		var err error
		if body, err = io.ReadAll(req.Body); err != nil {
			return fmt.Errorf("failed to read request body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	names := make([]string, 0, len(c.captures))
	for name := range c.captures {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cfg := c.captures[name]
		if !cfg.IsEnabled() {
			continue
		}

		itemName := name
		if cfg.Key != nil {
			if key := c.value(*cfg.Key, ctx, req, body); key != "" {
				itemName = key
			}
		}
		value := c.value(cfg.CaptureKey, ctx, req, body)
		if value == "" {
			logger.Tracef("capture %s produced no value", name)
			continue
		}

		c.provider.StoreValue(cfg.Store, itemName, value)
		logger.Debugf("captured %s into store %s", itemName, cfg.Store)
	}
	return nil
}

func (c *Capturer) value(key config.CaptureKey, ctx *serverfn.Context, req *http.Request, body []byte) string {
	switch {
	case key.QueryParam != "":
		return req.URL.Query().Get(key.QueryParam)
	case key.FormParam != "":
		if !strings.HasPrefix(req.Header.Get("Content-Type"), serverfn.ContentTypeForm) {
			return ""
		}
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return ""
		}
		return values.Get(key.FormParam)
	case key.RequestHeader != "":
		return req.Header.Get(key.RequestHeader)
	case key.Expression != "":
		if c.renderer == nil {
			return ""
		}
		return c.renderer.Render(key.Expression, ctx, req)
	case key.Const != "":
		return key.Const
	case key.RequestBody != nil && key.RequestBody.JSONPath != "":
		result, ok := query.JSONPath(body, key.RequestBody.JSONPath)
		if !ok || result == nil {
			return ""
		}
		return fmt.Sprintf("%v", result)
	case key.RequestBody != nil && key.RequestBody.XPath != "":
		result, _ := query.XPath(body, key.RequestBody.XPath, key.RequestBody.XMLNamespaces)
		return result
	default:
		return ""
	}
}
