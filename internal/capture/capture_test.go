package capture

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstack-project/fullstack-go/internal/config"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/store"
	"github.com/fullstack-project/fullstack-go/internal/template"
)

func TestCapture(t *testing.T) {
	disabled := false

	tests := []struct {
		name        string
		capture     config.Capture
		contentType string
		body        string
		target      string
		wantKey     string
		wantValue   string
	}{
		{
			name:      "query param",
			capture:   config.Capture{Store: "s", CaptureKey: config.CaptureKey{QueryParam: "id"}},
			target:    "/api/items?id=42",
			wantKey:   "item",
			wantValue: "42",
		},
		{
			name:        "form param",
			capture:     config.Capture{Store: "s", CaptureKey: config.CaptureKey{FormParam: "city"}},
			contentType: serverfn.ContentTypeForm,
			body:        "city=oslo",
			wantKey:     "item",
			wantValue:   "oslo",
		},
		{
			name:      "header with dynamic key",
			capture:   config.Capture{Store: "s", Key: &config.CaptureKey{QueryParam: "slot"}, CaptureKey: config.CaptureKey{RequestHeader: "X-User"}},
			target:    "/api/items?slot=owner",
			wantKey:   "owner",
			wantValue: "ada",
		},
		{
			name:      "expression",
			capture:   config.Capture{Store: "s", CaptureKey: config.CaptureKey{Expression: "${context.request.method}:${context.request.routeKey}"}},
			wantKey:   "item",
			wantValue: "POST:/items",
		},
		{
			name:      "const",
			capture:   config.Capture{Store: "s", CaptureKey: config.CaptureKey{Const: "seen"}},
			wantKey:   "item",
			wantValue: "seen",
		},
		{
			name:      "json body",
			capture:   config.Capture{Store: "s", CaptureKey: config.CaptureKey{RequestBody: &config.RequestBodyKey{JSONPath: "$.order.id"}}},
			body:      `{"order":{"id":"o-1"}}`,
			wantKey:   "item",
			wantValue: "o-1",
		},
		{
			name:      "xml body",
			capture:   config.Capture{Store: "s", CaptureKey: config.CaptureKey{RequestBody: &config.RequestBodyKey{XPath: "/order/id"}}},
			body:      `<order><id>o-2</id></order>`,
			wantKey:   "item",
			wantValue: "o-2",
		},
		{
			name:    "disabled",
			capture: config.Capture{Store: "s", Enabled: &disabled, CaptureKey: config.CaptureKey{Const: "x"}},
			wantKey: "item",
		},
		{
			name:    "empty value skipped",
			capture: config.Capture{Store: "s", CaptureKey: config.CaptureKey{QueryParam: "missing"}},
			wantKey: "item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := store.NewInMemoryProvider("")
			c := New(map[string]config.Capture{"item": tt.capture}, provider, template.NewRenderer("", provider))

			target := tt.target
			if target == "" {
				target = "/api/items"
			}
			req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(tt.body))
			req.Header.Set("X-User", "ada")
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			require.NoError(t, c.Capture(serverfn.NewContext(context.Background(), "/items"), req))

			got, found := provider.GetValue("s", tt.wantKey)
			if tt.wantValue == "" {
				assert.False(t, found)
				return
			}
			require.True(t, found)
			assert.Equal(t, tt.wantValue, got)

			data, _ := io.ReadAll(req.Body)
			assert.Equal(t, tt.body, string(data))
		})
	}
}

func TestCapture_RequiresStore(t *testing.T) {
	c := New(map[string]config.Capture{"x": {Store: "s", CaptureKey: config.CaptureKey{Const: "1"}}}, nil, nil)
	err := c.Capture(serverfn.NewContext(context.Background(), "/x"), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Error(t, err)

	assert.NoError(t, New(nil, nil, nil).Capture(nil, httptest.NewRequest(http.MethodGet, "/x", nil)))
}
