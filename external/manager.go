// Package external hosts server functions implemented by plugin binaries.
package external

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	goplugin "github.com/hashicorp/go-plugin"

	"github.com/fullstack-project/fullstack-go/external/shared"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/registry"
)

const pluginFilePrefix = "plugin-"

type LoadedPlugin struct {
	Name      string
	Functions []string

	client *goplugin.Client
	impl   shared.FunctionProvider
}

// Manager owns the lifecycle of the loaded plugin processes.
type Manager struct {
	loaded []*LoadedPlugin
}

// DiscoverPlugins lists plugin binaries in dir, sorted by name.
func DiscoverPlugins(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin dir %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), pluginFilePrefix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Start launches every plugin in dir. An empty dir starts nothing.
func Start(dir string) (*Manager, error) {
	m := &Manager{}
	if dir == "" {
		logger.Tracef("no plugin dir configured")
		return m, nil
	}

	paths, err := DiscoverPlugins(dir)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		loaded, err := start(path)
		if err != nil {
			m.Stop()
			return nil, err
		}
		m.loaded = append(m.loaded, loaded)
	}
	return m, nil
}

func start(path string) (*LoadedPlugin, error) {
	name := strings.TrimPrefix(filepath.Base(path), pluginFilePrefix)
	logger.Debugf("loading external plugin: %s", name)

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: shared.Handshake,
		Plugins:         shared.PluginMap(nil),
		Cmd:             exec.Command(path),
		Logger:          logger.Named("plugin." + name),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to connect to plugin %s: %w", name, err)
	}
	raw, err := rpcClient.Dispense(shared.PluginName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense plugin %s: %w", name, err)
	}
	impl := raw.(shared.FunctionProvider)

	functions, err := impl.Functions()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to list functions of plugin %s: %w", name, err)
	}
	logger.Infof("loaded external plugin %s with %d functions", name, len(functions))

	return &LoadedPlugin{
		Name:      name,
		Functions: functions,
		client:    client,
		impl:      impl,
	}, nil
}

// Loaded returns the running plugins.
func (m *Manager) Loaded() []*LoadedPlugin {
	return m.loaded
}

// Register adds every plugin function to b.
func (m *Manager) Register(b *registry.Builder) error {
	for _, l := range m.loaded {
		if err := RegisterProvider(b, l.Name, l.Functions, l.impl); err != nil {
			return err
		}
	}
	return nil
}

// RegisterProvider adds the given functions of a provider to b.
func RegisterProvider(b *registry.Builder, name string, functions []string, impl shared.FunctionProvider) error {
	for _, key := range functions {
		if err := b.Register(key, NewHandler(name, impl)); err != nil {
			return fmt.Errorf("plugin %s: %w", name, err)
		}
	}
	return nil
}

// Stop kills every plugin process.
func (m *Manager) Stop() {
	for _, l := range m.loaded {
		logger.Debugf("unloading external plugin: %s", l.Name)
		l.client.Kill()
	}
	m.loaded = nil
}
