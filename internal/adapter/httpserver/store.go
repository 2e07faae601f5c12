package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/store"
)

const storeAPIPath = "/system/store/"

// handleStoreRequest serves /system/store/{store}[/{key}], letting operators
// inspect and seed the state shared by server functions.
func (a *HTTPServerAdapter) handleStoreRequest(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, storeAPIPath), "/")
	if rest == "" {
		http.Error(w, "Invalid store path", http.StatusBadRequest)
		return
	}
	storeName, key, _ := strings.Cut(rest, "/")
	s := store.Open(a.store, storeName)

	switch r.Method {
	case http.MethodGet:
		handleGetStore(w, r, s, key)
	case http.MethodPut:
		handlePutStore(w, r, s, key)
	case http.MethodPost:
		handlePostStore(w, r, s)
	case http.MethodDelete:
		a.handleDeleteStore(w, s, key)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleGetStore(w http.ResponseWriter, r *http.Request, s *store.Store, key string) {
	if key == "" {
		items := s.GetAllValues(r.URL.Query().Get("keyPrefix"))
		if items == nil {
			items = map[string]interface{}{}
		}
		logger.Debugf("listing all items in store: %s", s.Name())
		writeJSON(w, items)
		return
	}

	value, found := s.GetValue(key)
	if !found {
		logger.Debugf("item not found: %s in store: %s", key, s.Name())
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if strVal, ok := value.(string); ok {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, strVal)
		return
	}
	writeJSON(w, value)
}

func handlePutStore(w http.ResponseWriter, r *http.Request, s *store.Store, key string) {
	if key == "" {
		http.Error(w, "Key is required", http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Errorf("failed to read request body: %v", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}
	s.StoreValue(key, string(body))
	logger.Debugf("saved item: %s to store: %s", key, s.Name())
	w.WriteHeader(http.StatusNoContent)
}

func handlePostStore(w http.ResponseWriter, r *http.Request, s *store.Store) {
	var items map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	for key, value := range items {
		s.StoreValue(key, value)
	}
	logger.Debugf("saved %d items to store: %s", len(items), s.Name())
	w.WriteHeader(http.StatusNoContent)
}

func (a *HTTPServerAdapter) handleDeleteStore(w http.ResponseWriter, s *store.Store, key string) {
	if key == "" {
		a.store.DeleteStore(s.Name())
		logger.Debugf("deleted store: %s", s.Name())
	} else {
		s.DeleteValue(key)
		logger.Debugf("deleted item: %s from store: %s", key, s.Name())
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("failed to encode value: %v", err)
		http.Error(w, "Failed to encode value", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
