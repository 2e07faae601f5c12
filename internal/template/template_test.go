package template

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/store"
)

func newRequest(method, target, contentType, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-User", "ada")
	return req
}

func TestRender(t *testing.T) {
	provider := store.NewInMemoryProvider("")
	provider.StoreValue("app", "greeting", "hello")
	provider.StoreValue("app", "profile", map[string]interface{}{"name": "grace"})

	r := NewRenderer("8080", provider)
	r.now = func() time.Time { return time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC) }

	tests := []struct {
		name string
		tmpl string
		req  *http.Request
		want string
	}{
		{name: "no placeholders", tmpl: "plain", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "plain"},
		{name: "method and path", tmpl: "${context.request.method} ${context.request.path}", req: newRequest(http.MethodPost, "/api/x", "", ""), want: "POST /api/x"},
		{name: "route key", tmpl: "${context.request.routeKey}", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "/x"},
		{name: "query param", tmpl: "hi ${context.request.queryParams.name}", req: newRequest(http.MethodGet, "/api/x?name=bob", "", ""), want: "hi bob"},
		{name: "header", tmpl: "${context.request.headers.X-User}", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "ada"},
		{name: "form param", tmpl: "${context.request.formParams.city}", req: newRequest(http.MethodPost, "/api/x", serverfn.ContentTypeForm, "city=oslo"), want: "oslo"},
		{name: "body", tmpl: "got ${context.request.body}", req: newRequest(http.MethodPost, "/api/x", "", "payload"), want: "got payload"},
		{name: "body jsonpath", tmpl: "${context.request.body:$.user.name}", req: newRequest(http.MethodPost, "/api/x", "", `{"user":{"name":"linus"}}`), want: "linus"},
		{name: "body xpath", tmpl: "${context.request.body:/order/item}", req: newRequest(http.MethodPost, "/api/x", "", `<order><item>tea</item></order>`), want: "tea"},
		{name: "default used", tmpl: "${context.request.queryParams.missing:-anon}", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "anon"},
		{name: "default unused", tmpl: "${context.request.queryParams.name:-anon}", req: newRequest(http.MethodGet, "/api/x?name=bob", "", ""), want: "bob"},
		{name: "date", tmpl: "${datetime.now.iso8601_date}", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "2024-03-05"},
		{name: "datetime", tmpl: "${datetime.now.iso8601_datetime}", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "2024-03-05T10:30:00Z"},
		{name: "port", tmpl: "${system.server.port}", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "8080"},
		{name: "store string", tmpl: "${stores.app.greeting}", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "hello"},
		{name: "store object", tmpl: "${stores.app.profile}", req: newRequest(http.MethodGet, "/api/x", "", ""), want: `{"name":"grace"}`},
		{name: "store missing", tmpl: "[${stores.app.nope}]", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "[]"},
		{name: "unknown", tmpl: "[${nothing.here}]", req: newRequest(http.MethodGet, "/api/x", "", ""), want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := serverfn.NewContext(context.Background(), "/x")
			assert.Equal(t, tt.want, r.Render(tt.tmpl, ctx, tt.req))
		})
	}
}

func TestRender_RestoresBody(t *testing.T) {
	r := NewRenderer("", nil)
	req := newRequest(http.MethodPost, "/api/x", "", "keep me")

	assert.Equal(t, "keep me", r.Render("${context.request.body}", nil, req))
	data, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestRender_RequestID(t *testing.T) {
	ctx := serverfn.NewContext(context.Background(), "/x")
	out := NewRenderer("", nil).Render("${context.requestId}", ctx, newRequest(http.MethodGet, "/api/x", "", ""))
	assert.Equal(t, ctx.RequestID, out)
}

func TestRender_Random(t *testing.T) {
	r := NewRenderer("", nil)
	req := newRequest(http.MethodGet, "/api/x", "", "")

	tests := []struct {
		tmpl    string
		pattern string
	}{
		{tmpl: "${random.alphabetic(length=5)}", pattern: `^[a-z]{5}$`},
		{tmpl: "${random.alphabetic(length=4,uppercase=true)}", pattern: `^[A-Z]{4}$`},
		{tmpl: "${random.alphanumeric(length=8)}", pattern: `^[a-zA-Z0-9]{8}$`},
		{tmpl: "${random.numeric(length=3)}", pattern: `^[0-9]{3}$`},
		{tmpl: "${random.any(chars=xy,length=6)}", pattern: `^[xy]{6}$`},
		{tmpl: "${random.uuid()}", pattern: `^[0-9a-f-]{36}$`},
		{tmpl: "${random.numeric()}", pattern: `^[0-9]$`},
		{tmpl: "${random.nope()}", pattern: `^$`},
	}

	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			assert.Regexp(t, regexp.MustCompile(tt.pattern), r.Render(tt.tmpl, nil, req))
		})
	}
}

func TestSplitTrailer(t *testing.T) {
	tests := []struct {
		in, expr, trailer string
	}{
		{in: "context.request.body", expr: "context.request.body"},
		{in: "context.request.body:$.a", expr: "context.request.body", trailer: "$.a"},
		{in: "context.request.body:/ns:a", expr: "context.request.body", trailer: "/ns:a"},
		{in: "random.any(chars=a:b)", expr: "random.any(chars=a:b)"},
		{in: "random.uuid():-x", expr: "random.uuid()", trailer: "-x"},
	}
	for _, tt := range tests {
		expr, trailer := splitTrailer(tt.in)
		assert.Equal(t, tt.expr, expr, tt.in)
		assert.Equal(t, tt.trailer, trailer, tt.in)
	}
}
