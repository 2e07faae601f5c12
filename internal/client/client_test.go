//go:build !js

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	app := AppFunc(func() string { return "<p>hi</p>" })

	tests := []struct {
		name string
		app  App
		cfg  Config
		want error
	}{
		{name: "default config", app: app, cfg: DefaultConfig()},
		{name: "custom selector", app: app, cfg: Config{RootSelector: "body", Hydrate: true}},
		{name: "blank selector", app: app, cfg: Config{RootSelector: "  "}, want: ErrEmptySelector},
		{name: "nil app", app: nil, cfg: DefaultConfig(), want: ErrNilApp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.app, tt.cfg)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLaunch_Native(t *testing.T) {
	app := AppFunc(func() string { return "" })
	assert.ErrorIs(t, Launch(app, Config{Hydrate: false}), ErrUnsupportedTarget)
	assert.ErrorIs(t, Launch(nil, Config{}), ErrNilApp)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultRootSelector, cfg.RootSelector)
	assert.False(t, cfg.Hydrate)
}
