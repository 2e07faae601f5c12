package shared

import (
	"fmt"
	"net/rpc"

	goplugin "github.com/hashicorp/go-plugin"
)

// FunctionRPC is the RPC client
type FunctionRPC struct{ client *rpc.Client }

func (f *FunctionRPC) Functions() ([]string, error) {
	var resp []string
	if err := f.client.Call("Plugin.Functions", new(interface{}), &resp); err != nil {
		return nil, fmt.Errorf("plugin.Functions: %w", err)
	}
	return resp, nil
}

func (f *FunctionRPC) Invoke(req FunctionRequest) (FunctionResponse, error) {
	var resp FunctionResponse
	if err := f.client.Call("Plugin.Invoke", req, &resp); err != nil {
		return FunctionResponse{}, fmt.Errorf("plugin.Invoke: %w", err)
	}
	return resp, nil
}

// FunctionRPCServer is the RPC server that FunctionRPC talks to, conforming
// to the requirements of net/rpc
type FunctionRPCServer struct {
	// This is the real implementation
	Impl FunctionProvider
}

func (s *FunctionRPCServer) Functions(args interface{}, resp *[]string) error {
	keys, err := s.Impl.Functions()
	if err != nil {
		return err
	}
	*resp = keys
	return nil
}

func (s *FunctionRPCServer) Invoke(req FunctionRequest, resp *FunctionResponse) error {
	out, err := s.Impl.Invoke(req)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

// FunctionPlugin is the goplugin.Plugin implementation shared by the host
// and plugin binaries.
type FunctionPlugin struct {
	// Impl Injection
	Impl FunctionProvider
}

func (p *FunctionPlugin) Server(*goplugin.MuxBroker) (interface{}, error) {
	return &FunctionRPCServer{Impl: p.Impl}, nil
}

func (FunctionPlugin) Client(b *goplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &FunctionRPC{client: c}, nil
}

// PluginMap returns the plugin set served or dispensed for impl. The host
// passes a nil impl.
func PluginMap(impl FunctionProvider) map[string]goplugin.Plugin {
	return map[string]goplugin.Plugin{
		PluginName: &FunctionPlugin{Impl: impl},
	}
}
