package serverfn

import (
	"bytes"
	"io"
	"net/http"
)

type responseRecorder struct {
	Headers       http.Header
	Body          bytes.Buffer
	StatusCode    int
	writtenStatus bool
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{Headers: make(http.Header)}
}

func (r *responseRecorder) Header() http.Header {
	return r.Headers
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.writtenStatus {
		r.WriteHeader(http.StatusOK)
	}
	return r.Body.Write(data)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.StatusCode = statusCode
	r.writtenStatus = true
}

// Result converts the recorded output into a canonical response. A handler
// that wrote nothing produces an empty 200.
func (r *responseRecorder) Result() *http.Response {
	status := r.StatusCode
	if !r.writtenStatus {
		status = http.StatusOK
	}
	body := r.Body.Bytes()
	return &http.Response{
		Status:        http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        r.Headers.Clone(),
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}
