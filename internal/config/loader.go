package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fullstack-project/fullstack-go/internal/logger"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{env\.([A-Z0-9_]+)(:-([^}]*))?\}`)

// LoadConfig loads all function config files in the specified directory
func LoadConfig(configDir string) ([]Config, error) {
	var configs []Config

	scanRecursive := os.Getenv("FULLSTACK_CONFIG_SCAN_RECURSIVE") == "true"

	err := filepath.Walk(configDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		// Skip subdirectories if not scanning recursively
		if info.IsDir() && path != configDir && !scanRecursive {
			return filepath.SkipDir
		}
		if info.IsDir() || !isConfigFile(info.Name()) {
			return nil
		}

		logger.Infof("loading config file: %s", path)
		fileConfigs, err := parseConfig(path)
		if err != nil {
			return err
		}
		configs = append(configs, fileConfigs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func isConfigFile(name string) bool {
	for _, suffix := range []string{"-functions.json", "-functions.yaml", "-functions.yml"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// parseConfig loads and parses a YAML configuration file, which may contain
// several documents
func parseConfig(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Substitute environment variables
	data = []byte(substituteEnvVars(string(data)))

	var configs []Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var cfg Config
		if err := decoder.Decode(&cfg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to unmarshal YAML from %s: %w", path, err)
		}
		cfg.ConfigDir = filepath.Dir(path)
		if err := validate(&cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func validate(cfg *Config) error {
	for i, fn := range cfg.Functions {
		if fn.Path == "" || !strings.HasPrefix(fn.Path, "/") {
			return fmt.Errorf("function %d: path must start with '/'", i)
		}
		kinds := 0
		for _, set := range []bool{fn.Response != nil, fn.Script != nil, fn.Remote != nil} {
			if set {
				kinds++
			}
		}
		if kinds != 1 {
			return fmt.Errorf("function %s: exactly one of response, script or remote must be set", fn.Path)
		}
		if fn.Script != nil && fn.Script.Code == "" && fn.Script.File == "" {
			return fmt.Errorf("function %s: script requires code or file", fn.Path)
		}
		if fn.Remote != nil && fn.Remote.URL == "" {
			return fmt.Errorf("function %s: remote requires url", fn.Path)
		}
		for name, c := range fn.Capture {
			if c.Store == "" {
				return fmt.Errorf("function %s: capture %s requires store", fn.Path, name)
			}
		}
	}
	return nil
}

// substituteEnvVars replaces ${env.VAR} and ${env.VAR:-default} with environment variable values
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		envVar := groups[1]
		defaultValue := groups[3]
		if value, exists := os.LookupEnv(envVar); exists {
			return value
		}
		return defaultValue
	})
}

// ValidatePath validates a file path to ensure it is within the config directory
func ValidatePath(path string, configDir string) (string, error) {
	filePath := filepath.Clean(filepath.Join(configDir, path))

	if !strings.HasPrefix(filePath, filepath.Clean(configDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("file path escapes config directory: %s", filePath)
	}
	return filePath, nil
}
