// Package router translates a single host-runtime request into a server
// function invocation and translates the result back.
package router

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/registry"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
)

// NotFoundBody is returned for requests that match no server function.
const NotFoundBody = "Not found"

var (
	// ErrReadBody is returned when the inbound body cannot be fully read.
	ErrReadBody = errors.New("failed to read request body")

	// ErrReadResponse is returned when the handler's response body cannot be
	// fully buffered.
	ErrReadResponse = errors.New("failed to read response body")

	// ErrBuildRequest is returned when the inbound method cannot form a valid
	// canonical request.
	ErrBuildRequest = errors.New("failed to build request")
)

// InboundRequest is the host runtime's view of a request. Bytes may only be
// called once.
type InboundRequest interface {
	Method() string
	Path() string
	Bytes(ctx context.Context) ([]byte, error)
}

// Metadata is optionally implemented by inbound requests that carry headers
// and a query string. Both are copied onto the canonical request.
type Metadata interface {
	Header() http.Header
	RawQuery() string
}

// Response is the host-independent result of routing a request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HandlerError is returned when a matched server function fails.
type HandlerError struct {
	RouteKey string
	Message  string
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("server function %s failed: %s", e.RouteKey, e.Message)
}

// Router routes requests whose path starts with a prefix to the handlers of
// a registry.
type Router struct {
	prefix   string
	registry *registry.Registry
}

// New creates a Router. The prefix is removed from inbound paths to form the
// registry lookup key.
func New(prefix string, reg *registry.Registry) *Router {
	return &Router{prefix: prefix, registry: reg}
}

// Prefix returns the route prefix the router strips.
func (r *Router) Prefix() string {
	return r.prefix
}

// Registry returns the registry the router consults.
func (r *Router) Registry() *registry.Registry {
	return r.registry
}

// RouteKey returns path with the prefix removed once from the front, or path
// unchanged if it does not start with the prefix.
func (r *Router) RouteKey(path string) string {
	return strings.TrimPrefix(path, r.prefix)
}

// Route processes exactly one inbound request. A lookup miss yields a 404
// response and no error. A hit yields either the handler's response or an
// error; never both.
func (r *Router) Route(ctx context.Context, in InboundRequest) (*Response, error) {
	path := in.Path()
	key := r.RouteKey(path)

	handler, ok := r.registry.Lookup(key)
	if !ok {
		logger.Tracef("no server function for key %s - method:%s, path:%s", key, in.Method(), path)
		return NotFound(), nil
	}

	body, err := in.Bytes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadBody, err)
	}

	req, err := http.NewRequestWithContext(ctx, in.Method(), "/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildRequest, err)
	}
	// the handler sees the original path, not the route key. The path is
	// already decoded, so it is not parsed again.
	req.URL = &url.URL{Path: path}
	if md, ok := in.(Metadata); ok {
		if h := md.Header(); h != nil {
			req.Header = h.Clone()
		}
		req.URL.RawQuery = md.RawQuery()
	}

	fnCtx := serverfn.NewContext(ctx, key)
	logger.Debugf("invoking server function %s - method:%s, path:%s, requestId:%s", key, req.Method, path, fnCtx.RequestID)

	resp, err := serverfn.Run(fnCtx, handler, req)
	if err != nil {
		logger.Warnf("server function %s failed - requestId:%s, error:%v", key, fnCtx.RequestID, err)
		return nil, &HandlerError{RouteKey: key, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadResponse, err)
	}

	logger.Debugf("handled request - method:%s, path:%s, status:%d, length:%d", req.Method, path, resp.StatusCode, len(respBody))
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       respBody,
	}, nil
}

// NotFound returns the fixed response for unmatched requests.
func NotFound() *Response {
	header := make(http.Header)
	header.Set("Content-Type", "text/html; charset=utf-8")
	return &Response{
		StatusCode: http.StatusNotFound,
		Header:     header,
		Body:       []byte(NotFoundBody),
	}
}
