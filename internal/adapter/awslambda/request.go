package awslambda

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

var errBodyConsumed = errors.New("request body already consumed")

// lambdaRequest is the router's view of an API Gateway or Function URL event.
type lambdaRequest struct {
	method   string
	path     string
	rawQuery string
	header   http.Header
	body     string
	base64   bool
	consumed bool
}

func fromAPIGatewayRequest(req events.APIGatewayProxyRequest) *lambdaRequest {
	header := make(http.Header)
	for k, v := range req.Headers {
		header.Set(k, v)
	}
	for k, values := range req.MultiValueHeaders {
		header.Del(k)
		for _, v := range values {
			header.Add(k, v)
		}
	}

	query := make(url.Values)
	for k, v := range req.QueryStringParameters {
		query.Set(k, v)
	}
	for k, values := range req.MultiValueQueryStringParameters {
		query[k] = values
	}

	return &lambdaRequest{
		method:   req.HTTPMethod,
		path:     req.Path,
		rawQuery: query.Encode(),
		header:   header,
		body:     req.Body,
		base64:   req.IsBase64Encoded,
	}
}

func fromFunctionURLRequest(req events.LambdaFunctionURLRequest) *lambdaRequest {
	header := make(http.Header)
	for k, v := range req.Headers {
		header.Set(k, v)
	}
	if len(req.Cookies) > 0 {
		header.Set("Cookie", strings.Join(req.Cookies, "; "))
	}

	return &lambdaRequest{
		method:   req.RequestContext.HTTP.Method,
		path:     decodePath(req.RawPath),
		rawQuery: req.RawQueryString,
		header:   header,
		body:     req.Body,
		base64:   req.IsBase64Encoded,
	}
}

// decodePath unescapes a Function URL's raw path so that route keys match
// the decoded paths API Gateway and net/http hand over. Invalid escapes are
// kept as sent.
func decodePath(raw string) string {
	path, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return path
}

func (r *lambdaRequest) Method() string      { return r.method }
func (r *lambdaRequest) Path() string        { return r.path }
func (r *lambdaRequest) Header() http.Header { return r.header }
func (r *lambdaRequest) RawQuery() string    { return r.rawQuery }

// Bytes returns the event body, decoding it if the event marks it as base64.
func (r *lambdaRequest) Bytes(ctx context.Context) ([]byte, error) {
	if r.consumed {
		return nil, errBodyConsumed
	}
	r.consumed = true
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.base64 {
		return []byte(r.body), nil
	}
	return base64.StdEncoding.DecodeString(r.body)
}
