// Package serverfn defines the calling convention shared by every server
// function: a canonical net/http request in, a canonical net/http response
// out, plus a per-invocation Context.
package serverfn

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Handler is a server function.
type Handler interface {
	Serve(ctx *Context, req *http.Request) (*http.Response, error)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(ctx *Context, req *http.Request) (*http.Response, error)

func (f HandlerFunc) Serve(ctx *Context, req *http.Request) (*http.Response, error) {
	return f(ctx, req)
}

// Run invokes h and applies any response parts recorded on ctx.
func Run(ctx *Context, h Handler, req *http.Request) (*http.Response, error) {
	resp, err := h.Serve(ctx, req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("server function returned no response")
	}
	ctx.Apply(resp)
	return resp, nil
}

// NewResponse builds a canonical response with the given status and body.
func NewResponse(statusCode int, contentType string, body []byte) *http.Response {
	header := make(http.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		Status:        http.StatusText(statusCode),
		StatusCode:    statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// FromHTTPHandler runs a plain http.Handler as a server function, capturing
// what it writes.
func FromHTTPHandler(h http.Handler) Handler {
	return HandlerFunc(func(ctx *Context, req *http.Request) (*http.Response, error) {
		recorder := newResponseRecorder()
		h.ServeHTTP(recorder, req)
		return recorder.Result(), nil
	})
}
