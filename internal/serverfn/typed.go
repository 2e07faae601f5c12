package serverfn

import (
	"fmt"
	"io"
	"net/http"
)

// Func wraps a typed function as a Handler. Arguments are decoded from the
// request body according to its Content-Type (or from the query string for
// GET requests) and the result is encoded the same way. Undecodable input
// yields a 400 response. A *StatusError from fn yields a response with that
// status; any other error is returned as an invocation failure.
func Func[In, Out any](fn func(ctx *Context, in In) (Out, error)) Handler {
	return HandlerFunc(func(ctx *Context, req *http.Request) (*http.Response, error) {
		var in In
		enc, err := decodeArgs(req, &in)
		if err != nil {
			return NewResponse(http.StatusBadRequest, "text/plain; charset=utf-8",
				[]byte(fmt.Sprintf("failed to decode arguments: %v", err))), nil
		}

		out, err := fn(ctx, in)
		if err != nil {
			if se, ok := AsStatusError(err); ok {
				return NewResponse(se.Code, "text/plain; charset=utf-8", []byte(se.Message)), nil
			}
			return nil, err
		}

		body, err := enc.Encode(out)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		return NewResponse(http.StatusOK, enc.ContentType(), body), nil
	})
}

func decodeArgs(req *http.Request, v interface{}) (Encoding, error) {
	if req.Method == http.MethodGet {
		query := req.URL.Query()
		if len(query) == 0 {
			return jsonEncoding{}, nil
		}
		return jsonEncoding{}, decodeValues(query, v)
	}

	enc, err := encodingFor(req.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if req.Body == nil {
		return enc, nil
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return enc, nil
	}
	return enc, enc.Decode(data, v)
}
