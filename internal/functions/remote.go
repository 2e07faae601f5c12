package functions

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fullstack-project/fullstack-go/internal/config"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/template"
)

const defaultRemoteTimeout = 30 * time.Second

// hopHeaders are not copied from the upstream response.
var hopHeaders = []string{"Connection", "Keep-Alive", "Transfer-Encoding", "Upgrade", "Content-Length"}

func remoteFunction(remote *config.Remote, renderer *template.Renderer) (serverfn.Handler, error) {
	timeout := defaultRemoteTimeout
	if remote.Timeout != "" {
		d, err := time.ParseDuration(remote.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid remote timeout %q: %w", remote.Timeout, err)
		}
		timeout = d
	}
	client := &http.Client{Timeout: timeout}

	return serverfn.HandlerFunc(func(ctx *serverfn.Context, req *http.Request) (*http.Response, error) {
		method := strings.ToUpper(remote.Method)
		if method == "" {
			method = req.Method
		}

		url := renderer.Render(remote.URL, ctx, req)
		var body io.Reader
		if remote.Body != "" {
			body = strings.NewReader(renderer.Render(remote.Body, ctx, req))
		} else if req.Body != nil {
			data, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to read request body: %w", err)
			}
			body = bytes.NewReader(data)
		}

		upstream, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for k, v := range remote.Headers {
			upstream.Header.Set(k, renderer.Render(v, ctx, req))
		}
		if upstream.Header.Get("Content-Type") == "" && req.Header.Get("Content-Type") != "" {
			upstream.Header.Set("Content-Type", req.Header.Get("Content-Type"))
		}

		logger.Debugf("forwarding %s to %s %s", ctx.RouteKey, method, url)
		resp, err := client.Do(upstream)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		out := serverfn.NewResponse(resp.StatusCode, "", respBody)
		for k, vs := range resp.Header {
			out.Header[k] = append([]string(nil), vs...)
		}
		for _, h := range hopHeaders {
			out.Header.Del(h)
		}
		return out, nil
	}), nil
}
