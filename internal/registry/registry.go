// Package registry maps server function route keys to their handlers.
//
// A Registry is built once with a Builder and never changes afterwards, so
// it can be shared between concurrent requests without locking.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fullstack-project/fullstack-go/internal/serverfn"
)

var (
	ErrEmptyKey     = errors.New("route key must not be empty")
	ErrInvalidKey   = errors.New("route key must start with '/'")
	ErrNilHandler   = errors.New("handler must not be nil")
	ErrDuplicateKey = errors.New("route key already registered")
)

// Registry is an immutable route key to handler table.
type Registry struct {
	handlers map[string]serverfn.Handler
}

// Lookup returns the handler registered for key.
func (r *Registry) Lookup(key string) (serverfn.Handler, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.handlers[key]
	return h, ok
}

// Keys returns the registered route keys in sorted order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.handlers)
}

// Builder accumulates registrations for a Registry.
type Builder struct {
	handlers map[string]serverfn.Handler
}

func NewBuilder() *Builder {
	return &Builder{handlers: make(map[string]serverfn.Handler)}
}

// Register adds a handler under key.
func (b *Builder) Register(key string, h serverfn.Handler) error {
	if key == "" {
		return ErrEmptyKey
	}
	if !strings.HasPrefix(key, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if h == nil {
		return fmt.Errorf("%w: %q", ErrNilHandler, key)
	}
	if _, exists := b.handlers[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	b.handlers[key] = h
	return nil
}

// MustRegister is like Register but panics on error. Intended for static
// registrations made at startup.
func (b *Builder) MustRegister(key string, h serverfn.Handler) *Builder {
	if err := b.Register(key, h); err != nil {
		panic(err)
	}
	return b
}

// Build snapshots the registrations made so far.
func (b *Builder) Build() *Registry {
	handlers := make(map[string]serverfn.Handler, len(b.handlers))
	for k, h := range b.handlers {
		handlers[k] = h
	}
	return &Registry{handlers: handlers}
}
