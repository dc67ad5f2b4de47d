package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/resumemd/internal/config"
	"github.com/dgallion1/resumemd/internal/prefs"
	"github.com/dgallion1/resumemd/internal/render"
	"github.com/dgallion1/resumemd/internal/store"
)

// Server is the HTTP API server for resumemd.
type Server struct {
	router   chi.Router
	store    *store.Store
	renderer *render.Renderer
	themes   *prefs.Service
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. themes may be nil, in
// which case the theme endpoints report 503.
func NewServer(st *store.Store, rnd *render.Renderer, themes *prefs.Service, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:    st,
		renderer: rnd,
		themes:   themes,
		log:      log,
		cfg:      cfg,
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

	r.Get("/api/resume", s.handleResume)
	r.Get("/api/resume/html", s.handleResumeHTML)
	r.Get("/api/resume/docx", s.handleResumeDOCX)
	r.Get("/api/stats/load", s.handleLoadStats)

	r.Post("/api/parse", s.handleParse)
	r.Post("/api/render", s.handleRender)

	r.Get("/api/theme", s.handleGetTheme)
	r.Put("/api/theme", s.handlePutTheme)
	r.Post("/api/theme/toggle", s.handleToggleTheme)

	// Authenticated endpoints. Without a key there is nothing to check
	// against, so they are not mounted at all.
	if s.cfg.APIKey != "" {
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

			r.Post("/api/resume/reload", s.handleReload)
		})
	}

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
