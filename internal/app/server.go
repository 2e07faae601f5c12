// Package app is the hello-world fullstack application: a few server
// functions and the page that calls them.
package app

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/fullstack-project/fullstack-go/internal/registry"
	"github.com/fullstack-project/fullstack-go/internal/serverfn"
	"github.com/fullstack-project/fullstack-go/internal/store"
)

const (
	GetServerDataKey  = "/get_server_data"
	PostServerDataKey = "/post_server_data"
	VisitsKey         = "/visits"

	ServerGreeting = "Hello from the server!"

	storeName    = "app"
	lastPostKey  = "last_post"
	visitsKey    = "visits"
	maxDataBytes = 4096
)

// PostRequest is the argument of /post_server_data.
type PostRequest struct {
	Data string `json:"data" msgpack:"data"`
}

// PostResponse is the result of /post_server_data.
type PostResponse struct {
	Stored    bool   `json:"stored" msgpack:"stored"`
	RequestID string `json:"requestId" msgpack:"requestId"`
}

// VisitsResponse is the result of /visits.
type VisitsResponse struct {
	Count int64 `json:"count" msgpack:"count"`
}

// Server holds the state shared by the server functions.
type Server struct {
	store *store.Store

	// visitsMu serialises the visit counter's read-modify-write.
	visitsMu sync.Mutex
}

func NewServer(provider store.Provider) *Server {
	return &Server{store: store.Open(provider, storeName)}
}

// Register adds the application's server functions to b.
func (s *Server) Register(b *registry.Builder) error {
	for key, h := range map[string]serverfn.Handler{
		GetServerDataKey:  serverfn.Func(s.GetServerData),
		PostServerDataKey: serverfn.Func(s.PostServerData),
		VisitsKey:         serverfn.Func(s.Visits),
	} {
		if err := b.Register(key, h); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) GetServerData(ctx *serverfn.Context, _ struct{}) (string, error) {
	return ServerGreeting, nil
}

func (s *Server) PostServerData(ctx *serverfn.Context, in PostRequest) (PostResponse, error) {
	data := strings.TrimSpace(in.Data)
	if data == "" {
		return PostResponse{}, serverfn.Errorf(http.StatusBadRequest, "data is required")
	}
	if len(data) > maxDataBytes {
		return PostResponse{}, serverfn.Errorf(http.StatusRequestEntityTooLarge, "data exceeds %d bytes", maxDataBytes)
	}
	logger.Infof("server received: %s", data)
	s.store.StoreValue(lastPostKey, data)
	ctx.SetStatus(http.StatusCreated)
	return PostResponse{Stored: true, RequestID: ctx.RequestID}, nil
}

// Visits increments and returns the visit counter. Increments are atomic
// within one process only; instances sharing a redis or dynamodb store can
// still lose updates.
func (s *Server) Visits(ctx *serverfn.Context, _ struct{}) (VisitsResponse, error) {
	s.visitsMu.Lock()
	defer s.visitsMu.Unlock()

	count := s.count() + 1
	s.store.StoreValue(visitsKey, count)
	return VisitsResponse{Count: count}, nil
}

// LastPost returns the most recently posted data.
func (s *Server) LastPost() (string, bool) {
	v, ok := s.store.GetValue(lastPostKey)
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

func (s *Server) count() int64 {
	v, ok := s.store.GetValue(visitsKey)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		var parsed int64
		if _, err := fmt.Sscan(n, &parsed); err == nil {
			return parsed
		}
	}
	logger.Warnf("unexpected visit counter value: %v", v)
	return 0
}
