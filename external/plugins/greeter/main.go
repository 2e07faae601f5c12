// Command plugin-greeter is an example function plugin. Build it into the
// directory named by FULLSTACK_PLUGIN_DIR to serve /greet.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/fullstack-project/fullstack-go/external/shared"
)

var Version = "dev"

var logger = hclog.New(&hclog.LoggerOptions{
	Level:      hclog.Trace,
	Output:     os.Stderr,
	JSONFormat: true,
})

type Greeter struct {
	logger hclog.Logger
}

func (g *Greeter) Functions() ([]string, error) {
	return []string{"/greet"}, nil
}

func (g *Greeter) Invoke(req shared.FunctionRequest) (shared.FunctionResponse, error) {
	g.logger.Debug("invoked", "routeKey", req.RouteKey, "method", req.Method)
	switch req.RouteKey {
	case "/greet":
		name := req.Query.Get("name")
		if name == "" {
			name = string(req.Body)
		}
		if name == "" {
			name = "world"
		}
		return shared.FunctionResponse{
			StatusCode: http.StatusOK,
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
			Body:       []byte(fmt.Sprintf("Hello, %s!", name)),
		}, nil
	default:
		return shared.FunctionResponse{Error: "unknown function " + req.RouteKey}, nil
	}
}

func main() {
	logger.Trace("greeter plugin initialising", "version", Version)
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: shared.Handshake,
		Plugins:         shared.PluginMap(&Greeter{logger: logger}),
	})
}
