package adapter

import (
	"os"
	"strings"

	"github.com/fullstack-project/fullstack-go/external"
	"github.com/fullstack-project/fullstack-go/internal/config"
	"github.com/fullstack-project/fullstack-go/internal/functions"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/registry"
	"github.com/fullstack-project/fullstack-go/internal/router"
	"github.com/fullstack-project/fullstack-go/internal/store"
	"github.com/fullstack-project/fullstack-go/internal/template"
)

// RegisterFunc registers an application's compiled-in server functions.
type RegisterFunc func(b *registry.Builder, provider store.Provider) error

// Runtime is everything a host adapter needs to serve requests.
type Runtime struct {
	Config  *config.FullstackConfig
	Router  *router.Router
	Store   store.Provider
	Plugins *external.Manager
}

// Close releases the runtime's external resources.
func (r *Runtime) Close() {
	if r.Plugins != nil {
		r.Plugins.Stop()
	}
}

// InitialiseFullstack performs common initialisation tasks for all adapters.
// Function config is read from configDirArg, or FULLSTACK_CONFIG_DIR when
// the argument is empty; neither is required.
func InitialiseFullstack(configDirArg string, register RegisterFunc) *Runtime {
	logger.Infoln("starting fullstack-go...")

	configDirs := getConfigDirs(configDirArg)
	for _, configDir := range configDirs {
		config.LoadDotEnv(configDir)
	}
	fullstackConfig := config.LoadFullstackConfig()

	provider, err := store.NewProvider(fullstackConfig.StoreDriver)
	if err != nil {
		panic(err.Error())
	}

	renderer := template.NewRenderer(fullstackConfig.ServerPort, provider)
	builder := registry.NewBuilder()
	if register != nil {
		if err := register(builder, provider); err != nil {
			panic("failed to register server functions: " + err.Error())
		}
	}

	for _, configDir := range configDirs {
		if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
			panic("Specified path is not a valid directory")
		}

		cfgs, err := config.LoadConfig(configDir)
		if err != nil {
			panic(err.Error())
		}
		store.PreloadStores(provider, cfgs)
		if err := functions.Register(builder, cfgs, provider, renderer); err != nil {
			panic(err.Error())
		}
	}

	plugins, err := external.Start(fullstackConfig.PluginDir)
	if err != nil {
		panic(err.Error())
	}
	if err := plugins.Register(builder); err != nil {
		plugins.Stop()
		panic(err.Error())
	}

	reg := builder.Build()
	logger.Debugf("registered %d server functions under %s", reg.Len(), fullstackConfig.ServerFnPrefix)
	for _, key := range reg.Keys() {
		logger.Tracef("server function: %s%s", fullstackConfig.ServerFnPrefix, key)
	}

	return &Runtime{
		Config:  fullstackConfig,
		Router:  router.New(fullstackConfig.ServerFnPrefix, reg),
		Store:   provider,
		Plugins: plugins,
	}
}

func getConfigDirs(configDirArg string) []string {
	configDirRaw := configDirArg
	if configDirRaw == "" {
		configDirRaw = os.Getenv("FULLSTACK_CONFIG_DIR")
	}
	var configDirs []string
	for _, dir := range strings.Split(configDirRaw, ",") {
		if dir = strings.TrimSpace(dir); dir != "" {
			configDirs = append(configDirs, dir)
		}
	}
	return configDirs
}
