// Command itemserver is a local target for bench and matrix runs. It serves
// an in-memory item collection on /items (GET lists, POST creates) plus a few
// endpoints for exercising failure and latency paths.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	port := pflag.Int("port", 8000, "Listening port")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	addr := fmt.Sprintf(":%d", *port)
	logger.Info("item server listening", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, newMux(newItemStore())); err != nil {
		logger.Error("item server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type item struct {
	ID   int `json:"id"`
	Size int `json:"size"`
}

type itemStore struct {
	mu    sync.Mutex
	items []item
}

func newItemStore() *itemStore {
	return &itemStore{}
}

func (s *itemStore) add(size int) item {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := item{ID: len(s.items) + 1, Size: size}
	s.items = append(s.items, it)
	return it
}

func (s *itemStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func newMux(store *itemStore) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/items", store.handleItems)
	mux.HandleFunc("/status/", handleStatus)
	mux.HandleFunc("/delay", handleDelay)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"ok": true, "path": r.URL.Path})
	})
	return mux
}

func (s *itemStore) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, map[string]any{"count": s.count()})
	case http.MethodPost:
		n, err := io.Copy(io.Discard, r.Body)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		respondJSON(w, http.StatusCreated, s.add(int(n)))
	default:
		respondJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
	}
}

// handleStatus replies with the code in the path, e.g. /status/503.
func handleStatus(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/status/"))
	if err != nil || code < 100 || code > 599 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid status code"})
		return
	}
	respondJSON(w, code, map[string]any{"status": code})
}

// handleDelay sleeps for ?ms= milliseconds before replying.
func handleDelay(w http.ResponseWriter, r *http.Request) {
	ms, _ := strconv.Atoi(r.URL.Query().Get("ms"))
	if ms > 0 {
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-r.Context().Done():
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"delayed_ms": ms})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
