package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fullstack-project/fullstack-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		driver  string
		want    interface{}
		wantErr bool
	}{
		{driver: "", want: &InMemoryProvider{}},
		{driver: "store-inmem", want: &InMemoryProvider{}},
		{driver: "store-redis", want: &RedisProvider{}},
		{driver: "store-unknown", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			provider, err := NewProvider(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, provider)
		})
	}
}

func TestPreloadStores(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "seed.json"), []byte(`{"fromFile":"yes"}`), 0644))

	provider := NewInMemoryProvider("")
	PreloadStores(provider, []config.Config{
		{
			ConfigDir: tmpDir,
			System: &config.System{
				Stores: map[string]config.StoreDefinition{
					"seeded": {
						PreloadFile: "seed.json",
						PreloadData: map[string]interface{}{"inline": 1},
					},
				},
			},
		},
		{ConfigDir: tmpDir},
	})

	s := Open(provider, "seeded")
	val, found := s.GetValue("fromFile")
	require.True(t, found)
	assert.Equal(t, "yes", val)
	val, found = s.GetValue("inline")
	require.True(t, found)
	assert.Equal(t, 1, val)
}

func TestPreloadStores_PathEscape(t *testing.T) {
	provider := NewInMemoryProvider("")
	assert.Panics(t, func() {
		PreloadStores(provider, []config.Config{{
			ConfigDir: t.TempDir(),
			System: &config.System{Stores: map[string]config.StoreDefinition{
				"bad": {PreloadFile: "../outside.json"},
			}},
		}})
	})
}
