package router

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// ErrBodyConsumed is returned by Bytes when the body was already read.
var ErrBodyConsumed = errors.New("request body already consumed")

// HTTPRequest adapts a *http.Request to InboundRequest.
type HTTPRequest struct {
	req      *http.Request
	consumed bool
}

func FromHTTPRequest(req *http.Request) *HTTPRequest {
	return &HTTPRequest{req: req}
}

func (r *HTTPRequest) Method() string {
	return r.req.Method
}

func (r *HTTPRequest) Path() string {
	return r.req.URL.Path
}

func (r *HTTPRequest) Header() http.Header {
	return r.req.Header
}

func (r *HTTPRequest) RawQuery() string {
	return r.req.URL.RawQuery
}

func (r *HTTPRequest) Bytes(ctx context.Context) ([]byte, error) {
	if r.consumed {
		return nil, ErrBodyConsumed
	}
	r.consumed = true
	if r.req.Body == nil {
		return nil, nil
	}
	defer r.req.Body.Close()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.ReadAll(r.req.Body)
}

// Write copies the response onto w.
func (resp *Response) Write(w http.ResponseWriter) {
	for k, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
