package awslambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/fullstack-project/fullstack-go/internal/adapter"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/router"
)

const defaultConfigDir = "/var/task/config"

// LambdaAdapter represents the AWS Lambda runtime adapter
type LambdaAdapter struct {
	router *router.Router
}

// NewAdapter creates a new Lambda adapter instance
func NewAdapter(r *router.Router) *LambdaAdapter {
	return &LambdaAdapter{router: r}
}

// DefaultConfigDir returns the function config location inside the Lambda
// package, used when FULLSTACK_CONFIG_DIR is not set and it exists.
func DefaultConfigDir() string {
	if os.Getenv("FULLSTACK_CONFIG_DIR") != "" {
		return ""
	}
	if info, err := os.Stat(defaultConfigDir); err == nil && info.IsDir() {
		logger.Infof("FULLSTACK_CONFIG_DIR not set, defaulting to %s", defaultConfigDir)
		return defaultConfigDir
	}
	return ""
}

// Start begins the Lambda runtime. It does not return.
func (a *LambdaAdapter) Start() error {
	lambda.Start(a.HandleLambdaRequest)
	return nil
}

var _ adapter.Adapter = (*LambdaAdapter)(nil)

// HandleLambdaRequest handles incoming Lambda requests and routes them to the
// server functions. A failing server function fails the invocation.
func (a *LambdaAdapter) HandleLambdaRequest(ctx context.Context, req json.RawMessage) (interface{}, error) {
	startTime := time.Now()
	defer func() {
		logger.Tracef("invocation completed in %v", time.Since(startTime))
	}()

	var apiGatewayReq events.APIGatewayProxyRequest
	var lambdaFunctionURLReq events.LambdaFunctionURLRequest

	if err := json.Unmarshal(req, &apiGatewayReq); err == nil && apiGatewayReq.HTTPMethod != "" {
		return a.handleAPIGatewayProxyRequest(ctx, apiGatewayReq)
	} else if err := json.Unmarshal(req, &lambdaFunctionURLReq); err == nil && lambdaFunctionURLReq.RequestContext.HTTP.Method != "" {
		return a.handleLambdaFunctionURLRequest(ctx, lambdaFunctionURLReq)
	} else {
		logger.Warnln("unsupported Lambda event")
		return events.LambdaFunctionURLResponse{StatusCode: http.StatusBadRequest, Body: "Unsupported request type"}, nil
	}
}

// handleAPIGatewayProxyRequest processes API Gateway Proxy requests.
func (a *LambdaAdapter) handleAPIGatewayProxyRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.Tracef("request: %s %s", req.HTTPMethod, req.Path)
	resp, err := a.router.Route(ctx, fromAPIGatewayRequest(req))
	if err != nil {
		logger.Errorf("failed to handle %s %s: %v", req.HTTPMethod, req.Path, err)
		return events.APIGatewayProxyResponse{}, err
	}
	logResponse(resp)

	body, isBase64 := encodeBody(resp.Body)
	return events.APIGatewayProxyResponse{
		StatusCode:        resp.StatusCode,
		Headers:           convertHTTPHeaderToMap(resp.Header),
		MultiValueHeaders: resp.Header,
		Body:              body,
		IsBase64Encoded:   isBase64,
	}, nil
}

// handleLambdaFunctionURLRequest processes Lambda Function URL requests.
func (a *LambdaAdapter) handleLambdaFunctionURLRequest(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	logger.Tracef("request: %s %s", req.RequestContext.HTTP.Method, req.RawPath)
	resp, err := a.router.Route(ctx, fromFunctionURLRequest(req))
	if err != nil {
		logger.Errorf("failed to handle %s %s: %v", req.RequestContext.HTTP.Method, req.RawPath, err)
		return events.LambdaFunctionURLResponse{}, err
	}
	logResponse(resp)

	header := resp.Header.Clone()
	cookies := header.Values("Set-Cookie")
	header.Del("Set-Cookie")

	body, isBase64 := encodeBody(resp.Body)
	return events.LambdaFunctionURLResponse{
		StatusCode:      resp.StatusCode,
		Headers:         convertHTTPHeaderToMap(header),
		Body:            body,
		IsBase64Encoded: isBase64,
		Cookies:         cookies,
	}, nil
}

// encodeBody returns body as a string, base64-encoding it if it is not
// valid UTF-8.
func encodeBody(body []byte) (string, bool) {
	if utf8.Valid(body) {
		return string(body), false
	}
	return base64.StdEncoding.EncodeToString(body), true
}

// convertHTTPHeaderToMap converts http.Header to a map[string]string.
func convertHTTPHeaderToMap(header http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range header {
		result[key] = strings.Join(values, ",")
	}
	return result
}

// logResponse logs the outgoing response at TRACE level
func logResponse(resp *router.Response) {
	logger.Tracef("response: %d %d bytes", resp.StatusCode, len(resp.Body))
}
