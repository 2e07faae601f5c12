package awslambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstack-project/fullstack-go/internal/registry"
	"github.com/fullstack-project/fullstack-go/internal/router"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
)

func newTestAdapter(t *testing.T) *LambdaAdapter {
	echo := serverfn.HandlerFunc(func(ctx *serverfn.Context, req *http.Request) (*http.Response, error) {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		resp := serverfn.NewResponse(http.StatusOK, req.Header.Get("Content-Type"), data)
		resp.Header.Set("X-Query", req.URL.RawQuery)
		resp.Header.Add("Set-Cookie", "a=1")
		resp.Header.Add("Set-Cookie", "b=2")
		return resp, nil
	})
	fail := serverfn.HandlerFunc(func(ctx *serverfn.Context, req *http.Request) (*http.Response, error) {
		return nil, errors.New("database unavailable")
	})

	reg := registry.NewBuilder().
		MustRegister("/echo", echo).
		MustRegister("/fail", fail).
		Build()
	return NewAdapter(router.New("/api", reg))
}

func marshal(t *testing.T, v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestHandleLambdaRequest_APIGateway(t *testing.T) {
	a := newTestAdapter(t)

	tests := []struct {
		name       string
		req        events.APIGatewayProxyRequest
		wantStatus int
		wantBody   string
		wantBase64 bool
	}{
		{
			name: "text body",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Path:       "/api/echo",
				Headers:    map[string]string{"Content-Type": "text/plain"},
				Body:       "hello",
			},
			wantStatus: http.StatusOK,
			wantBody:   "hello",
		},
		{
			name: "base64 binary body",
			req: events.APIGatewayProxyRequest{
				HTTPMethod:      http.MethodPost,
				Path:            "/api/echo",
				Body:            base64.StdEncoding.EncodeToString([]byte{0xff, 0x00, 0xfe}),
				IsBase64Encoded: true,
			},
			wantStatus: http.StatusOK,
			wantBody:   base64.StdEncoding.EncodeToString([]byte{0xff, 0x00, 0xfe}),
			wantBase64: true,
		},
		{
			name: "not found",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodGet,
				Path:       "/api/missing",
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "Not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := a.HandleLambdaRequest(context.Background(), marshal(t, tt.req))
			require.NoError(t, err)

			resp, ok := out.(events.APIGatewayProxyResponse)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, resp.Body)
			assert.Equal(t, tt.wantBase64, resp.IsBase64Encoded)
		})
	}
}

func TestHandleLambdaRequest_APIGatewayQueryAndHeaders(t *testing.T) {
	a := newTestAdapter(t)
	req := events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/api/echo",
		QueryStringParameters: map[string]string{"name": "ada"},
	}

	out, err := a.HandleLambdaRequest(context.Background(), marshal(t, req))
	require.NoError(t, err)
	resp := out.(events.APIGatewayProxyResponse)
	assert.Equal(t, "name=ada", resp.Headers["X-Query"])
	assert.Equal(t, []string{"a=1", "b=2"}, resp.MultiValueHeaders["Set-Cookie"])
}

func TestHandleLambdaRequest_FunctionURL(t *testing.T) {
	a := newTestAdapter(t)
	req := events.LambdaFunctionURLRequest{
		RawPath:        "/api/echo",
		RawQueryString: "x=1",
		Body:           "payload",
		RequestContext: events.LambdaFunctionURLRequestContext{
			HTTP: events.LambdaFunctionURLRequestContextHTTPDescription{Method: http.MethodPut},
		},
	}

	out, err := a.HandleLambdaRequest(context.Background(), marshal(t, req))
	require.NoError(t, err)

	resp, ok := out.(events.LambdaFunctionURLResponse)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "payload", resp.Body)
	assert.Equal(t, "x=1", resp.Headers["X-Query"])
	assert.Equal(t, []string{"a=1", "b=2"}, resp.Cookies)
	assert.NotContains(t, resp.Headers, "Set-Cookie")
}

func TestHandleLambdaRequest_HandlerFailure(t *testing.T) {
	a := newTestAdapter(t)
	req := events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/api/fail"}

	_, err := a.HandleLambdaRequest(context.Background(), marshal(t, req))
	require.Error(t, err)

	var handlerErr *router.HandlerError
	require.ErrorAs(t, err, &handlerErr)
	assert.Contains(t, handlerErr.Message, "database unavailable")
}

func TestHandleLambdaRequest_BadBase64(t *testing.T) {
	a := newTestAdapter(t)
	req := events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/api/echo",
		Body:            "%%%not-base64",
		IsBase64Encoded: true,
	}

	_, err := a.HandleLambdaRequest(context.Background(), marshal(t, req))
	assert.ErrorIs(t, err, router.ErrReadBody)
}

func TestHandleLambdaRequest_Unsupported(t *testing.T) {
	a := newTestAdapter(t)
	out, err := a.HandleLambdaRequest(context.Background(), json.RawMessage(`{"source":"aws.events"}`))
	require.NoError(t, err)

	resp := out.(events.LambdaFunctionURLResponse)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLambdaRequest_BytesOnce(t *testing.T) {
	in := fromAPIGatewayRequest(events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/x", Body: "b"})
	data, err := in.Bytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	_, err = in.Bytes(context.Background())
	assert.ErrorIs(t, err, errBodyConsumed)
}

func TestFromFunctionURLRequest_Cookies(t *testing.T) {
	in := fromFunctionURLRequest(events.LambdaFunctionURLRequest{Cookies: []string{"a=1", "b=2"}})
	assert.Equal(t, "a=1; b=2", in.Header().Get("Cookie"))
}

func TestFromFunctionURLRequest_DecodesPath(t *testing.T) {
	tests := []struct {
		rawPath string
		want    string
	}{
		{rawPath: "/api/echo", want: "/api/echo"},
		{rawPath: "/api/a%20b", want: "/api/a b"},
		{rawPath: "/api/100%", want: "/api/100%"},
	}
	for _, tt := range tests {
		t.Run(tt.rawPath, func(t *testing.T) {
			in := fromFunctionURLRequest(events.LambdaFunctionURLRequest{RawPath: tt.rawPath})
			assert.Equal(t, tt.want, in.Path())
		})
	}
}

func TestEncodeBody(t *testing.T) {
	body, isBase64 := encodeBody([]byte("plain"))
	assert.Equal(t, "plain", body)
	assert.False(t, isBase64)

	body, isBase64 = encodeBody([]byte{0xc3, 0x28})
	assert.Equal(t, "wyg=", body)
	assert.True(t, isBase64)
}
