package serverfn

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Context is the execution context handed to every server function
// invocation. It lives for exactly one request.
type Context struct {
	context.Context

	// RequestID uniquely identifies the invocation.
	RequestID string

	// RouteKey is the registry key the request was matched on, which is the
	// request path with the server function prefix removed.
	RouteKey string

	responseHeaders http.Header
	statusOverride  int
}

// NewContext creates a Context for a single invocation.
func NewContext(parent context.Context, routeKey string) *Context {
	if parent == nil {
		parent = context.Background()
	}
	return &Context{
		Context:         parent,
		RequestID:       uuid.NewString(),
		RouteKey:        routeKey,
		responseHeaders: make(http.Header),
	}
}

// ResponseHeaders holds headers merged into the function's response.
func (c *Context) ResponseHeaders() http.Header {
	return c.responseHeaders
}

// SetStatus overrides the status code of the function's response.
func (c *Context) SetStatus(code int) {
	c.statusOverride = code
}

// Apply merges the response parts recorded on the context into resp.
func (c *Context) Apply(resp *http.Response) {
	if resp == nil {
		return
	}
	if c.statusOverride > 0 {
		resp.StatusCode = c.statusOverride
		resp.Status = http.StatusText(c.statusOverride)
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	for k, values := range c.responseHeaders {
		resp.Header.Del(k)
		for _, v := range values {
			resp.Header.Add(k, v)
		}
	}
}
