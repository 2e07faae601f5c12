package app

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstack-project/fullstack-go/internal/registry"
	"github.com/fullstack-project/fullstack-go/internal/router"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/store"
)

type inbound struct {
	method, path, body string
}

func (i inbound) Method() string { return i.method }
func (i inbound) Path() string   { return i.path }
func (i inbound) Bytes(ctx context.Context) ([]byte, error) {
	return io.ReadAll(strings.NewReader(i.body))
}

func newRouter(t *testing.T) (*router.Router, *Server) {
	server := NewServer(store.NewInMemoryProvider(""))
	b := registry.NewBuilder()
	require.NoError(t, server.Register(b))
	return router.New("/api", b.Build()), server
}

func TestGetServerData(t *testing.T) {
	r, _ := newRouter(t)
	resp, err := r.Route(context.Background(), inbound{method: http.MethodGet, path: "/api/get_server_data"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got string
	require.NoError(t, json.Unmarshal(resp.Body, &got))
	assert.Equal(t, ServerGreeting, got)
}

func TestPostServerData(t *testing.T) {
	r, server := newRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "stores data", body: `{"data":"Hello from the client!"}`, wantStatus: http.StatusCreated},
		{name: "missing data", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "too large", body: `{"data":"` + strings.Repeat("x", maxDataBytes+1) + `"}`, wantStatus: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := r.Route(context.Background(), inbound{method: http.MethodPost, path: "/api/post_server_data", body: tt.body})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}

	last, ok := server.LastPost()
	require.True(t, ok)
	assert.Equal(t, "Hello from the client!", last)
}

func TestVisits(t *testing.T) {
	r, _ := newRouter(t)
	for want := int64(1); want <= 3; want++ {
		resp, err := r.Route(context.Background(), inbound{method: http.MethodGet, path: "/api/visits"})
		require.NoError(t, err)

		var got VisitsResponse
		require.NoError(t, json.Unmarshal(resp.Body, &got))
		assert.Equal(t, want, got.Count)
	}
}

func TestVisits_Concurrent(t *testing.T) {
	provider := store.NewInMemoryProvider("")
	server := NewServer(provider)

	const callers = 50
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := server.Visits(serverfn.NewContext(context.Background(), VisitsKey), struct{}{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(callers), server.count())
}

func TestVisits_CounterFormats(t *testing.T) {
	provider := store.NewInMemoryProvider("")
	server := NewServer(provider)

	for _, v := range []interface{}{int64(4), 4, float64(4), "4"} {
		provider.StoreValue(storeName, visitsKey, v)
		assert.Equal(t, int64(4), server.count())
	}
	provider.StoreValue(storeName, visitsKey, []byte("junk"))
	assert.Equal(t, int64(0), server.count())
}

func TestRegister_Keys(t *testing.T) {
	_, server := newRouter(t)
	b := registry.NewBuilder()
	require.NoError(t, server.Register(b))
	assert.Equal(t, []string{GetServerDataKey, PostServerDataKey, VisitsKey}, b.Build().Keys())
	assert.Error(t, server.Register(b))
}

type countingCallback struct{ released int }

func (c *countingCallback) Release() { c.released++ }

func TestReleaseOnce(t *testing.T) {
	toText, onText, onError := &countingCallback{}, &countingCallback{}, &countingCallback{}
	release := releaseOnce(toText, onText, onError)

	release()
	release()

	for _, cb := range []*countingCallback{toText, onText, onError} {
		assert.Equal(t, 1, cb.released)
	}
}

func TestHelloApp_Render(t *testing.T) {
	app := NewHelloApp("/api")
	app.Count = 5
	markup := app.Render()

	assert.Contains(t, markup, `<span id="count">5</span>`)
	assert.Contains(t, markup, `data-endpoint="/api/get_server_data"`)
	assert.Contains(t, markup, `data-endpoint="/api/post_server_data"`)
	assert.Contains(t, markup, `id="visits"`)
}
