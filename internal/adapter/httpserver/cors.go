package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fullstack-project/fullstack-go/internal/logger"
)

const (
	defaultMaxAge = 86400 // 24 hours
)

// corsConfig controls the CORS headers added to server function responses.
// An origin of "*" allows any origin; "all" echoes the request origin.
type corsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	MaxAge           int
}

func newCorsConfig(origins []string) *corsConfig {
	if len(origins) == 0 {
		return nil
	}
	return &corsConfig{AllowOrigins: origins}
}

// handleCORS processes CORS headers and preflight requests. It reports
// whether the request has been fully handled.
func handleCORS(w http.ResponseWriter, r *http.Request, cfg *corsConfig) bool {
	if cfg == nil {
		return false
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		// For preflight requests without Origin, return 400
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			logger.Warnln("preflight request received without Origin header")
			w.WriteHeader(http.StatusBadRequest)
			return true
		}
		return false
	}

	if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
		handlePreflightRequest(w, r, cfg)
		return true
	}

	addCORSHeaders(w, r, cfg)
	return false
}

func handlePreflightRequest(w http.ResponseWriter, r *http.Request, cfg *corsConfig) {
	addCORSHeaders(w, r, cfg)

	if len(cfg.AllowMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
	} else {
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
	}

	if len(cfg.AllowHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
	} else if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		// Echo requested headers if none specified
		w.Header().Set("Access-Control-Allow-Headers", requested)
	}

	maxAge := defaultMaxAge
	if cfg.MaxAge > 0 {
		maxAge = cfg.MaxAge
	}
	w.Header().Set("Access-Control-Max-Age", strconv.Itoa(maxAge))

	w.WriteHeader(http.StatusNoContent)
}

func addCORSHeaders(w http.ResponseWriter, r *http.Request, cfg *corsConfig) {
	origin := r.Header.Get("Origin")

	switch {
	case containsString(cfg.AllowOrigins, "all"):
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	case containsString(cfg.AllowOrigins, "*"):
		w.Header().Set("Access-Control-Allow-Origin", "*")
	case containsString(cfg.AllowOrigins, origin):
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}

	if cfg.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

func containsString(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
