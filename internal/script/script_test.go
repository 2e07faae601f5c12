package script

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, h *Handler, req *http.Request) (*http.Response, error) {
	t.Helper()
	return serverfn.Run(serverfn.NewContext(context.Background(), "/scripted"), h, req)
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHandler_RespondWithRequestDetails(t *testing.T) {
	h, err := Compile("echo.js", `
var req = context.request;
respond(201, req.method + " " + req.path + " " + req.routeKey + " " + req.body + " " + req.queryParams.name, {"X-Echo": "yes"});
`, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/scripted?name=ada", strings.NewReader("payload"))
	resp, err := run(t, h, req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "yes", resp.Header.Get("X-Echo"))
	assert.Equal(t, "POST /api/scripted /scripted payload ada", bodyOf(t, resp))
}

func TestHandler_NoRespond(t *testing.T) {
	h, err := Compile("noop.js", `console.log("nothing to say")`, nil)
	require.NoError(t, err)

	resp, err := run(t, h, httptest.NewRequest(http.MethodGet, "/api/scripted", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", bodyOf(t, resp))
}

func TestHandler_Stores(t *testing.T) {
	provider := store.NewInMemoryProvider("")
	h, err := Compile("counter.js", `
var s = stores.open("counter");
var visits = (s.load("visits") || 0) + 1;
s.save("visits", visits);
respond(200, String(visits) + " " + s.hasItemWithKey("visits"));
`, provider)
	require.NoError(t, err)

	for i, want := range []string{"1 true", "2 true", "3 true"} {
		resp, err := run(t, h, httptest.NewRequest(http.MethodPost, "/api/scripted", nil))
		require.NoError(t, err, "invocation %d", i)
		assert.Equal(t, want, bodyOf(t, resp))
	}
}

func TestHandler_LoadAsJson(t *testing.T) {
	provider := store.NewInMemoryProvider("")
	store.Open(provider, "docs").StoreValue("doc", `{"title":"hello"}`)

	h, err := Compile("json.js", `respond(200, stores.open("docs").loadAsJson("doc").title)`, provider)
	require.NoError(t, err)

	resp, err := run(t, h, httptest.NewRequest(http.MethodGet, "/api/scripted", nil))
	require.NoError(t, err)
	assert.Equal(t, "hello", bodyOf(t, resp))
}

func TestHandler_Errors(t *testing.T) {
	t.Run("compile error", func(t *testing.T) {
		_, err := Compile("broken.js", `respond(200, "x"`, nil)
		assert.Error(t, err)
	})

	t.Run("thrown error is an invocation failure", func(t *testing.T) {
		h, err := Compile("throw.js", `throw "boom"`, nil)
		require.NoError(t, err)
		resp, err := run(t, h, httptest.NewRequest(http.MethodGet, "/api/scripted", nil))
		assert.Nil(t, resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("stores without provider", func(t *testing.T) {
		h, err := Compile("nostore.js", `stores.open("x")`, nil)
		require.NoError(t, err)
		_, err = run(t, h, httptest.NewRequest(http.MethodGet, "/api/scripted", nil))
		assert.Error(t, err)
	})
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.js")
	require.NoError(t, os.WriteFile(path, []byte(`respond(200, "from file")`), 0644))

	h, err := CompileFile(path, nil)
	require.NoError(t, err)
	resp, err := run(t, h, httptest.NewRequest(http.MethodGet, "/api/scripted", nil))
	require.NoError(t, err)
	assert.Equal(t, "from file", bodyOf(t, resp))

	_, err = CompileFile(filepath.Join(t.TempDir(), "missing.js"), nil)
	assert.Error(t, err)
}
