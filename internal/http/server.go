package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"memlsm/pkg/config"
	"memlsm/pkg/iterator"
	"memlsm/pkg/store"
	"memlsm/pkg/types"

	"github.com/go-chi/chi/v5"
)

const (
	contentTypeJSON        = "application/json"
	defaultShutdownTimeout = time.Second * 5
)

// ErrStoreFailed is returned for every store request once the store has
// panicked. The store is left in an undefined state and must not be used.
var ErrStoreFailed = errors.New("store failed")

type iStoreAPI interface {
	PutString(key, value string) error
	GetString(key string) (string, bool, error)
	Delete(key types.Key) error
	Seek(prefix types.Key) (*iterator.MergeIterator, error)
	Stats() store.Stats
}

// Server exposes a store over HTTP. The store is single-threaded, so every
// handler holds mu for the whole store interaction, scans included.
//
// A panic inside the store is fatal: the server stops serving store requests
// and closes Failed so that the owner can shut the process down.
type Server struct {
	mu     sync.Mutex
	store  iStoreAPI
	err    error
	failed chan struct{}

	cfg        config.ServerConfig
	log        *slog.Logger
	httpServer *http.Server
	URL        string
	addr       string
}

// NewServer creates a new server instance
func NewServer(db iStoreAPI, cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	port := strconv.Itoa(cfg.Port)
	return &Server{
		store:  db,
		failed: make(chan struct{}),
		cfg:    cfg,
		log:    logger.With("component", "http"),
		URL:    "http://localhost:" + port,
		addr:   ":" + port,
	}
}

// Failed is closed once the store has panicked.
func (s *Server) Failed() <-chan struct{} {
	return s.failed
}

// Err returns the failure that closed Failed, or nil.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Start starts the server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.createRouter(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("HTTP server error", "error", err)
		}
	}()

	s.log.Info("HTTP server started", "addr", s.URL)
	return nil
}

// Stop stops the server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.log.Info("HTTP server stopped")

	return nil
}

// createRouter builds chi router
func (s *Server) createRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Put("/api/string", s.handlePut)
	r.Get("/api/string", s.handleGet)
	r.Delete("/api", s.handleDelete)
	r.Get("/api/scan", s.handleScan)

	return r
}

// locked runs fn with exclusive access to the store. A panic in fn marks the
// server as failed; fn is never called again after that.
func (s *Server) locked(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	defer func() {
		if r := recover(); r != nil {
			s.err = fmt.Errorf("%w: %v", ErrStoreFailed, r)
			s.log.Error("store panicked, refusing further requests", "panic", r)
			close(s.failed)
			err = s.err
		}
	}()

	return fn()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("Error encoding response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewOKResponse())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var st store.Stats
	err := s.locked(func() error {
		st = s.store.Stats()
		return nil
	})
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse(err.Error()))
		return
	}

	s.writeJSON(w, http.StatusOK, NewStatsResponse(st))
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Failed to parse form"))
		return
	}

	key := r.FormValue("key")
	value := r.FormValue("value")

	if key == "" {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Missing key"))
		return
	}

	err := s.locked(func() error { return s.store.PutString(key, value) })
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse(err.Error()))
		return
	}

	s.writeJSON(w, http.StatusOK, NewSuccessResponse())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Missing key"))
		return
	}

	var (
		value string
		found bool
	)
	err := s.locked(func() (err error) {
		value, found, err = s.store.GetString(key)
		return err
	})
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse(err.Error()))
		return
	}

	if !found {
		s.writeJSON(w, http.StatusNotFound, NewErrorResponse("Key not found"))
		return
	}

	s.writeJSON(w, http.StatusOK, NewValueResponse(value))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Missing key"))
		return
	}

	err := s.locked(func() error { return s.store.Delete(key) })
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse(err.Error()))
		return
	}

	s.writeJSON(w, http.StatusOK, NewSuccessResponse())
}

// handleScan returns every live key starting with the prefix query parameter.
// An absent prefix scans the whole keyspace.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")

	items, err := s.scan(prefix)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse(err.Error()))
		return
	}

	s.writeJSON(w, http.StatusOK, NewItemsResponse(items))
}

func (s *Server) scan(prefix string) ([]Item, error) {
	var items []Item
	err := s.locked(func() error {
		it, err := s.store.Seek(prefix)
		if err != nil {
			return err
		}
		defer it.Close()

		for key, value := range it.All() {
			items = append(items, Item{Key: key, Value: string(value)})
		}
		return nil
	})

	return items, err
}
