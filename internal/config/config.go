package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/joho/godotenv"
)

const (
	defaultPort           = "8080"
	defaultServerFnPrefix = "/api"
)

// Application-wide configuration
type FullstackConfig struct {
	ServerPort string

	// ServerFnPrefix is stripped from request paths to find a server function.
	ServerFnPrefix string

	// StaticDir holds the client assets served by the native host.
	StaticDir string

	StoreDriver string
	PluginDir   string
	Mode        string

	CorsAllowOrigins []string

	// RateLimit is the permitted requests per second; zero disables limiting.
	RateLimit float64
	RateBurst int
}

// LoadDotEnv loads a .env file from dir into the process environment, if one
// exists. Variables already set are not overridden.
func LoadDotEnv(dir string) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		logger.Warnf("failed to load %s: %v", path, err)
		return
	}
	logger.Debugf("loaded environment from %s", path)
}

// LoadFullstackConfig loads configuration from environment variables
func LoadFullstackConfig() *FullstackConfig {
	port := os.Getenv("FULLSTACK_PORT")
	if port == "" {
		port = defaultPort
	}

	prefix := os.Getenv("FULLSTACK_SERVER_FN_PREFIX")
	if prefix == "" {
		prefix = defaultServerFnPrefix
	}

	cfg := &FullstackConfig{
		ServerPort:       port,
		ServerFnPrefix:   prefix,
		StaticDir:        os.Getenv("FULLSTACK_STATIC_DIR"),
		StoreDriver:      os.Getenv("FULLSTACK_STORE_DRIVER"),
		PluginDir:        os.Getenv("FULLSTACK_PLUGIN_DIR"),
		Mode:             os.Getenv("FULLSTACK_MODE"),
		CorsAllowOrigins: splitList(os.Getenv("FULLSTACK_CORS_ORIGINS")),
	}

	if raw := os.Getenv("FULLSTACK_RATE_LIMIT"); raw != "" {
		limit, err := strconv.ParseFloat(raw, 64)
		if err != nil || limit < 0 {
			logger.Warnf("ignoring invalid FULLSTACK_RATE_LIMIT: %s", raw)
		} else {
			cfg.RateLimit = limit
		}
	}
	cfg.RateBurst = 1
	if raw := os.Getenv("FULLSTACK_RATE_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst < 1 {
			logger.Warnf("ignoring invalid FULLSTACK_RATE_BURST: %s", raw)
		} else {
			cfg.RateBurst = burst
		}
	}
	return cfg
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
