// Package template renders ${...} placeholders in declarative server
// function responses.
//
// Supported placeholders:
//
//	${context.request.method|path|uri|body|routeKey}
//	${context.request.queryParams.NAME}
//	${context.request.headers.NAME}
//	${context.request.formParams.NAME}
//	${context.requestId}
//	${datetime.now.iso8601_date|iso8601_datetime|millis|nanos}
//	${random.alphabetic(length=N,uppercase=B)} and alphanumeric, any, numeric, uuid
//	${system.server.port}
//	${stores.STORE.KEY}
//
// A trailer after a colon either supplies a default, as in ${expr:-default},
// or queries the value with JSONPath (${expr:$.a.b}) or XPath (${expr:/a/b}).
package template

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/fullstack-project/fullstack-go/internal/query"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/store"
)

var (
	placeholderRe = regexp.MustCompile(`\$\{([^}]+)\}`)
	randomRe      = regexp.MustCompile(`^random\.(\w+)\(([^)]*)\)$`)
)

// Renderer evaluates templates for one deployment.
type Renderer struct {
	// ServerPort backs ${system.server.port}.
	ServerPort string

	// Stores backs ${stores.*}; nil renders store placeholders empty.
	Stores store.Provider

	now func() time.Time
}

func NewRenderer(serverPort string, stores store.Provider) *Renderer {
	return &Renderer{ServerPort: serverPort, Stores: stores, now: time.Now}
}

// Render replaces the placeholders in tmpl. The request body is restored
// after reading so that later readers still see it.
func (r *Renderer) Render(tmpl string, ctx *serverfn.Context, req *http.Request) string {
	if !strings.Contains(tmpl, "${") {
		return tmpl
	}

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	eval := &evaluation{renderer: r, ctx: ctx, req: req, body: body}

	return placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		expr, trailer := splitTrailer(match[2 : len(match)-1])
		return applyTrailer(eval.resolve(expr), trailer)
	})
}

type evaluation struct {
	renderer *Renderer
	ctx      *serverfn.Context
	req      *http.Request
	body     []byte
	form     url.Values
}

func (e *evaluation) resolve(expr string) string {
	switch {
	case strings.HasPrefix(expr, "context."):
		return e.resolveContext(strings.TrimPrefix(expr, "context."))
	case strings.HasPrefix(expr, "datetime.now."):
		return e.resolveDatetime(strings.TrimPrefix(expr, "datetime.now."))
	case strings.HasPrefix(expr, "random."):
		return resolveRandom(expr)
	case expr == "system.server.port":
		return e.renderer.ServerPort
	case strings.HasPrefix(expr, "stores."):
		return e.resolveStore(strings.TrimPrefix(expr, "stores."))
	default:
		return ""
	}
}

func (e *evaluation) resolveContext(expr string) string {
	if expr == "requestId" {
		if e.ctx == nil {
			return ""
		}
		return e.ctx.RequestID
	}

	field := strings.TrimPrefix(expr, "request.")
	switch field {
	case "method":
		return e.req.Method
	case "path":
		return e.req.URL.Path
	case "uri":
		return e.req.URL.String()
	case "body":
		return string(e.body)
	case "routeKey":
		if e.ctx == nil {
			return ""
		}
		return e.ctx.RouteKey
	}

	group, name, ok := strings.Cut(field, ".")
	if !ok {
		return ""
	}
	switch group {
	case "queryParams":
		return e.req.URL.Query().Get(name)
	case "headers":
		return e.req.Header.Get(name)
	case "formParams":
		return e.formValues().Get(name)
	default:
		return ""
	}
}

func (e *evaluation) formValues() url.Values {
	if e.form == nil {
		e.form = url.Values{}
		if strings.HasPrefix(e.req.Header.Get("Content-Type"), serverfn.ContentTypeForm) {
			if values, err := url.ParseQuery(string(e.body)); err == nil {
				e.form = values
			}
		}
	}
	return e.form
}

func (e *evaluation) resolveDatetime(format string) string {
	now := e.renderer.now()
	switch format {
	case "iso8601_date":
		return now.Format("2006-01-02")
	case "iso8601_datetime":
		return now.Format(time.RFC3339)
	case "millis":
		return fmt.Sprintf("%d", now.UnixMilli())
	case "nanos":
		return fmt.Sprintf("%d", now.UnixNano())
	default:
		return ""
	}
}

func (e *evaluation) resolveStore(expr string) string {
	storeName, key, ok := strings.Cut(expr, ".")
	if !ok || e.renderer.Stores == nil {
		return ""
	}
	val, found := e.renderer.Stores.GetValue(storeName, key)
	if !found {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	data, err := json.Marshal(val)
	if err != nil {
		return ""
	}
	return string(data)
}

// splitTrailer separates "expr:trailer". Colons inside a random.*()
// parameter list are not trailers.
func splitTrailer(inner string) (expr, trailer string) {
	searchFrom := 0
	if strings.HasPrefix(inner, "random.") {
		if idx := strings.Index(inner, ")"); idx >= 0 {
			searchFrom = idx
		}
	}
	idx := strings.Index(inner[searchFrom:], ":")
	if idx < 0 {
		return inner, ""
	}
	idx += searchFrom
	return inner[:idx], inner[idx+1:]
}

func applyTrailer(value, trailer string) string {
	switch {
	case trailer == "":
		return value
	case strings.HasPrefix(trailer, "-"):
		if value == "" {
			return strings.TrimPrefix(trailer, "-")
		}
		return value
	case strings.HasPrefix(trailer, "$"):
		if result, ok := query.JSONPath([]byte(value), trailer); ok && result != nil {
			return fmt.Sprintf("%v", result)
		}
		return ""
	case strings.HasPrefix(trailer, "/"):
		result, _ := query.XPath([]byte(value), trailer, nil)
		return result
	default:
		return value
	}
}
