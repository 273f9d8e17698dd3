package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/reportgest/internal/config"
	"github.com/dgallion1/reportgest/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for reportgest.
type Server struct {
	router chi.Router
	store  *Store
	stats  *metrics.Extractions
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(store *Store, stats *metrics.Extractions, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store: store,
		stats: stats,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/extract", s.handleExtract)
		r.Get("/api/stats/extract", s.handleExtractStats)

		r.Get("/api/report", s.handleReport)
		r.Get("/api/report/summary", s.handleSummary)
		r.Get("/api/report/problems", s.handleProblems)
		r.Get("/api/report/chapters/{chapterID}", s.handleChapter)
		r.Get("/api/report/search", s.handleSearch)
		r.Get("/api/report/export", s.handleExport)
		r.Get("/api/glossary", s.handleGlossary)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
