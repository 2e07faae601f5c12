package shared

import (
	"encoding/gob"
	"net/url"

	goplugin "github.com/hashicorp/go-plugin"
)

func init() {
	// Register types for gob encoding across plugin boundaries
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
	gob.Register([]string{})
	gob.Register(map[string]string{})
}

// PluginName is the name under which every function plugin is dispensed.
const PluginName = "functions"

// Handshake is shared by the host and every plugin binary. It is a UX
// feature that stops users running the wrong binary, not a security feature.
var Handshake = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "FULLSTACK_FUNCTION_PLUGIN",
	MagicCookieValue: "fullstack",
}

type FunctionRequest struct {
	RouteKey string
	Method   string
	Path     string
	Query    url.Values
	Headers  map[string]string
	Body     []byte
}

type FunctionResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte

	// Error is set when the function failed; the other fields are then
	// ignored.
	Error string
}

// FunctionProvider is implemented by plugins that serve server functions.
type FunctionProvider interface {
	// Functions lists the route keys the plugin serves.
	Functions() ([]string, error)

	// Invoke runs the function registered under req.RouteKey.
	Invoke(req FunctionRequest) (FunctionResponse, error)
}
