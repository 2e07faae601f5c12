// Package httpserver hosts the server functions and the client assets on a
// native HTTP server.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"

	"github.com/fullstack-project/fullstack-go/internal/adapter"
	"github.com/fullstack-project/fullstack-go/internal/config"
	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/router"
	"github.com/fullstack-project/fullstack-go/internal/store"
	"github.com/fullstack-project/fullstack-go/internal/system"
)

const shutdownTimeout = 10 * time.Second

// HTTPServerAdapter represents the native HTTP server runtime adapter
type HTTPServerAdapter struct {
	addr      string
	staticDir string
	router    *router.Router
	store     store.Provider
	instance  string
	cors      *corsConfig
	limiter   *rate.Limiter
	metrics   *metrics
}

var _ adapter.Adapter = (*HTTPServerAdapter)(nil)

// NewAdapter creates a new HTTP server adapter instance. A nil provider
// disables the store API.
func NewAdapter(cfg *config.FullstackConfig, r *router.Router, provider store.Provider) *HTTPServerAdapter {
	return &HTTPServerAdapter{
		addr:      ":" + cfg.ServerPort,
		staticDir: cfg.StaticDir,
		router:    r,
		store:     provider,
		instance:  system.GenerateInstanceID(),
		cors:      newCorsConfig(cfg.CorsAllowOrigins),
		limiter:   newLimiter(cfg.RateLimit, cfg.RateBurst),
		metrics:   newMetrics(),
	}
}

// Handler returns the complete request handler, including h2c support.
// Paths under the route prefix always reach the router; everything else goes
// through the system endpoints and static assets.
func (a *HTTPServerAdapter) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/system/status", a.handleStatusRequest)
	mux.Handle("/system/metrics", a.metrics.handler())
	if a.store != nil {
		mux.HandleFunc(storeAPIPath, a.handleStoreRequest)
	}

	if a.staticDir != "" {
		files := http.FileServer(http.Dir(a.staticDir))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if _, ok := a.router.Registry().Lookup(a.router.RouteKey(r.URL.Path)); ok {
				a.handleServerFunction(w, r)
				return
			}
			files.ServeHTTP(w, r)
		})
	} else {
		mux.HandleFunc("/", a.handleServerFunction)
	}

	prefix := a.router.Prefix()
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if prefix != "" && strings.HasPrefix(r.URL.Path, prefix) {
			a.handleServerFunction(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})
	return h2c.NewHandler(root, &http2.Server{})
}

func (a *HTTPServerAdapter) handleServerFunction(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	route := a.routeLabel(r.URL.Path)

	if handleCORS(w, r, a.cors) {
		return
	}
	if a.limiter != nil && !a.limiter.Allow() {
		a.metrics.limited.Inc()
		logger.Debugf("rate limit exceeded - method:%s, path:%s", r.Method, r.URL.Path)
		rejectRateLimited(w)
		return
	}

	resp, err := a.router.Route(r.Context(), router.FromHTTPRequest(r))
	if err != nil {
		logger.Errorf("failed to handle request - method:%s, path:%s, error:%v", r.Method, r.URL.Path, err)
		a.metrics.observe(route, http.StatusInternalServerError, started)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.metrics.observe(route, resp.StatusCode, started)
	resp.Write(w)
}

func (a *HTTPServerAdapter) routeLabel(path string) string {
	key := a.router.RouteKey(path)
	if _, ok := a.router.Registry().Lookup(key); ok {
		return key
	}
	return unmatchedRoute
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully.
func (a *HTTPServerAdapter) Start() error {
	server := &http.Server{
		Addr:              a.addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Infof("server is listening on %s...", a.addr)
		errs <- server.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-sigs:
		logger.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Infoln("server stopped")
	return nil
}
