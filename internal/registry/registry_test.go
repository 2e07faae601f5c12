package registry

import (
	"net/http"
	"testing"

	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = serverfn.HandlerFunc(func(ctx *serverfn.Context, req *http.Request) (*http.Response, error) {
	return serverfn.NewResponse(http.StatusOK, "", nil), nil
})

func TestBuilder_Register(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		handler serverfn.Handler
		wantErr error
	}{
		{name: "valid key", key: "/hello", handler: okHandler},
		{name: "empty key", key: "", handler: okHandler, wantErr: ErrEmptyKey},
		{name: "missing slash", key: "hello", handler: okHandler, wantErr: ErrInvalidKey},
		{name: "nil handler", key: "/nil", handler: nil, wantErr: ErrNilHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBuilder().Register(tt.key, tt.handler)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBuilder_DuplicateKey(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("/hello", okHandler))
	assert.ErrorIs(t, b.Register("/hello", okHandler), ErrDuplicateKey)
}

func TestBuilder_MustRegisterPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewBuilder().MustRegister("bad", okHandler)
	})
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewBuilder().
		MustRegister("/hello", okHandler).
		MustRegister("/bye", okHandler).
		Build()

	h, ok := reg.Lookup("/hello")
	assert.True(t, ok)
	assert.NotNil(t, h)

	_, ok = reg.Lookup("/missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"/bye", "/hello"}, reg.Keys())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_BuildIsSnapshot(t *testing.T) {
	b := NewBuilder().MustRegister("/first", okHandler)
	reg := b.Build()
	b.MustRegister("/second", okHandler)

	_, ok := reg.Lookup("/second")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	var reg *Registry
	_, ok := reg.Lookup("/hello")
	assert.False(t, ok)
	assert.Empty(t, reg.Keys())
	assert.Zero(t, reg.Len())
}
