package store

import (
	"strings"
	"sync"
)

type InMemoryProvider struct {
	mu     sync.RWMutex
	prefix keyPrefix
	stores map[string]map[string]interface{}
}

func NewInMemoryProvider(prefix string) *InMemoryProvider {
	return &InMemoryProvider{
		prefix: keyPrefix(prefix),
		stores: make(map[string]map[string]interface{}),
	}
}

func (p *InMemoryProvider) GetValue(storeName, key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.stores[storeName]
	if !ok {
		return nil, false
	}
	val, found := data[p.prefix.apply(key)]
	return val, found
}

func (p *InMemoryProvider) StoreValue(storeName, key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.stores[storeName]
	if !ok {
		data = make(map[string]interface{})
		p.stores[storeName] = data
	}
	data[p.prefix.apply(key)] = value
}

func (p *InMemoryProvider) GetAllValues(storeName, keyPrefix string) map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.stores[storeName]
	if !ok {
		return nil
	}
	result := make(map[string]interface{})
	match := p.prefix.apply(keyPrefix)
	for k, v := range data {
		if strings.HasPrefix(k, match) {
			result[p.prefix.remove(k)] = v
		}
	}
	return result
}

func (p *InMemoryProvider) DeleteValue(storeName, key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if data, ok := p.stores[storeName]; ok {
		delete(data, p.prefix.apply(key))
	}
}

func (p *InMemoryProvider) DeleteStore(storeName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.stores, storeName)
}
