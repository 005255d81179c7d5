package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/physref/quicksheet/internal/prefs"
	"github.com/physref/quicksheet/internal/rank"
	"github.com/physref/quicksheet/internal/store"
)

// Server is the quicksheet HTTP API server.
//
// It keeps a frozen usage snapshot for ranking: copies recorded during
// a session do not reorder results until the snapshot is refreshed,
// unless the instantRerankOnCopy preference selects the live counters.
type Server struct {
	db      *store.DB
	router  chi.Router
	version string
	started time.Time

	mu     sync.Mutex
	frozen rank.UsageView
}

// New creates a new Server with the given database and version string.
// The usage snapshot is taken once here, at startup.
func New(db *store.DB, version string) (*Server, error) {
	view, err := rank.SnapshotView(db)
	if err != nil {
		return nil, err
	}
	s := &Server{
		db:      db,
		version: version,
		started: time.Now(),
		frozen:  view,
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/items", s.handleListItems)
		r.Post("/items", s.handleCreateItem)
		r.Delete("/items/{itemID}", s.handleDeleteItem)
		r.Post("/items/{itemID}/copy", s.handleCopyItem)

		r.Get("/search", s.handleSearch)
		r.Get("/categories", s.handleCategories)
		r.Post("/copy", s.handleCopyTop)

		r.Get("/prefs", s.handleGetPrefs)
		r.Put("/prefs", s.handleSetPrefs)

		r.Post("/rerank", s.handleRerank)
		r.Post("/reset-learning", s.handleResetLearning)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

// loadPrefs reads the stored preference blob, falling back to defaults.
func (s *Server) loadPrefs() (prefs.Prefs, error) {
	raw, err := s.db.GetPrefs()
	if err != nil {
		return prefs.Default(), err
	}
	return prefs.Parse(raw), nil
}

// usageView selects the view the ranking pass reads: the live counters
// when instant rerank is on, the frozen snapshot otherwise.
func (s *Server) usageView(p prefs.Prefs) (rank.UsageView, error) {
	if p.InstantRerankOnCopy {
		return rank.SnapshotView(s.db)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen, nil
}

// refreshSnapshot replaces the frozen view with the current counters.
func (s *Server) refreshSnapshot() error {
	view, err := rank.SnapshotView(s.db)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.frozen = view
	s.mu.Unlock()
	return nil
}
