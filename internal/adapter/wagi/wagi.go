// Package wagi hosts the server functions in a CGI-style edge worker, where
// each process handles exactly one request read from its environment and
// stdin and answers on stdout.
package wagi

import (
	"net/http"
	"net/http/cgi"

	"github.com/fullstack-project/fullstack-go/internal/adapter"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/router"
)

// WAGIAdapter represents the edge worker runtime adapter
type WAGIAdapter struct {
	router *router.Router
}

var _ adapter.Adapter = (*WAGIAdapter)(nil)

func NewAdapter(r *router.Router) *WAGIAdapter {
	return &WAGIAdapter{router: r}
}

// Start serves the single request of this process.
func (a *WAGIAdapter) Start() error {
	return cgi.Serve(a.Handler())
}

func (a *WAGIAdapter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Tracef("request: %s %s", r.Method, r.URL.Path)
		resp, err := a.router.Route(r.Context(), router.FromHTTPRequest(r))
		if err != nil {
			logger.Errorf("failed to handle request - method:%s, path:%s, error:%v", r.Method, r.URL.Path, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.Write(w)
	})
}
