package httpserver

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/fullstack-project/fullstack-go/internal/version"
)

type statusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Instance  string `json:"instance"`
	Functions int    `json:"functions"`
}

// handleStatusRequest handles the /system/status endpoint
func (a *HTTPServerAdapter) handleStatusRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := json.Marshal(statusResponse{
		Status:    "ok",
		Version:   version.Version,
		Instance:  a.instance,
		Functions: a.router.Registry().Len(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
