package external

import (
	"fmt"
	"io"
	"net/http"

	"github.com/fullstack-project/fullstack-go/external/shared"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
)

// Handler forwards invocations to a plugin.
type Handler struct {
	plugin string
	impl   shared.FunctionProvider
}

func NewHandler(plugin string, impl shared.FunctionProvider) *Handler {
	return &Handler{plugin: plugin, impl: impl}
}

func (h *Handler) Serve(ctx *serverfn.Context, req *http.Request) (*http.Response, error) {
	args, err := toFunctionRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Debugf("invoking plugin %s function %s", h.plugin, ctx.RouteKey)
	resp, err := h.impl.Invoke(args)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("plugin %s: %s", h.plugin, resp.Error)
	}
	logger.Debugf("response from plugin %s: status=%d body=%d bytes", h.plugin, resp.StatusCode, len(resp.Body))
	return fromFunctionResponse(resp), nil
}

func toFunctionRequest(ctx *serverfn.Context, req *http.Request) (shared.FunctionRequest, error) {
	var body []byte
	if req.Body != nil {
		var err error
		if body, err = io.ReadAll(req.Body); err != nil {
			return shared.FunctionRequest{}, fmt.Errorf("failed to read request body: %w", err)
		}
	}
	return shared.FunctionRequest{
		RouteKey: ctx.RouteKey,
		Method:   req.Method,
		Path:     req.URL.Path,
		Query:    req.URL.Query(),
		Headers:  convertToSingleValueHeaders(req.Header),
		Body:     body,
	}, nil
}

func convertToSingleValueHeaders(header http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range header {
		if len(values) > 0 {
			// Use the first value if multiple values exist
			result[key] = values[0]
		}
	}
	return result
}

func fromFunctionResponse(resp shared.FunctionResponse) *http.Response {
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	out := serverfn.NewResponse(status, "", resp.Body)
	for k, v := range resp.Headers {
		out.Header.Set(k, v)
	}
	return out
}
