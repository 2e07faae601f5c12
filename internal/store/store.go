package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fullstack-project/fullstack-go/internal/config"
	"github.com/fullstack-project/fullstack-go/internal/logger"
)

// Provider defines the contract for store implementations
type Provider interface {
	GetValue(storeName, key string) (interface{}, bool)
	StoreValue(storeName, key string, value interface{})
	GetAllValues(storeName, keyPrefix string) map[string]interface{}
	DeleteValue(storeName, key string)
	DeleteStore(storeName string)
}

// Store represents a handle to a specific named store
type Store struct {
	name     string
	provider Provider
}

// Open returns a handle to a specific store
func Open(provider Provider, storeName string) *Store {
	return &Store{
		name:     storeName,
		provider: provider,
	}
}

// Name returns the store name
func (s *Store) Name() string {
	return s.name
}

// GetValue retrieves a value from the store
func (s *Store) GetValue(key string) (interface{}, bool) {
	return s.provider.GetValue(s.name, key)
}

// StoreValue stores a value in the store
func (s *Store) StoreValue(key string, value interface{}) {
	s.provider.StoreValue(s.name, key, value)
}

// GetAllValues retrieves all values from the store with an optional prefix
func (s *Store) GetAllValues(keyPrefix string) map[string]interface{} {
	return s.provider.GetAllValues(s.name, keyPrefix)
}

// DeleteValue removes a value from the store
func (s *Store) DeleteValue(key string) {
	s.provider.DeleteValue(s.name, key)
}

// NewProvider creates the provider for the given driver name. An empty
// driver selects the in-memory provider.
func NewProvider(driver string) (Provider, error) {
	prefix := os.Getenv("FULLSTACK_STORE_KEY_PREFIX")
	switch driver {
	case "", "store-inmem", "inmemory":
		return NewInMemoryProvider(prefix), nil
	case "store-redis", "redis":
		return NewRedisProvider(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"), prefix), nil
	case "store-dynamodb", "dynamodb":
		return NewDynamoDBProvider(os.Getenv("AWS_REGION"), os.Getenv("FULLSTACK_DYNAMODB_TABLE"), prefix)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}

// PreloadStores seeds stores from the system section of function configs
func PreloadStores(provider Provider, configs []config.Config) {
	for _, cfg := range configs {
		if cfg.System == nil || cfg.System.Stores == nil {
			continue
		}
		for storeName, definition := range cfg.System.Stores {
			if definition.PreloadFile != "" {
				filePath, err := config.ValidatePath(definition.PreloadFile, cfg.ConfigDir)
				if err != nil {
					panic(fmt.Errorf("invalid preload file path: %s", definition.PreloadFile))
				}
				preloadFromFile(provider, storeName, filePath)
			}
			if len(definition.PreloadData) > 0 {
				preloadFromInline(provider, storeName, definition.PreloadData)
			}
		}
	}
}

func preloadFromFile(provider Provider, storeName string, path string) {
	logger.Infof("preloading store '%s' from file: %s", storeName, path)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("failed to read %s: %v", path, err)
		return
	}

	var items map[string]interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warnf("invalid JSON in %s: %v", path, err)
		return
	}

	s := Open(provider, storeName)
	for k, v := range items {
		s.StoreValue(k, v)
	}
}

func preloadFromInline(provider Provider, storeName string, data map[string]interface{}) {
	logger.Infof("preloading store '%s' from inline data", storeName)
	s := Open(provider, storeName)
	for k, v := range data {
		s.StoreValue(k, v)
	}
}

type keyPrefix string

func (p keyPrefix) apply(key string) string {
	if p != "" {
		return string(p) + "." + key
	}
	return key
}

func (p keyPrefix) remove(key string) string {
	if p != "" {
		return strings.TrimPrefix(key, string(p)+".")
	}
	return key
}
