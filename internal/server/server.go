// Package server provides the HTTP server and handlers.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bryan-buckman/studiofront/internal/clock"
	"github.com/bryan-buckman/studiofront/internal/config"
	"github.com/bryan-buckman/studiofront/internal/content"
	"github.com/bryan-buckman/studiofront/internal/database"
	"github.com/bryan-buckman/studiofront/internal/showcase"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// pageConcurrency bounds the API calls one page makes at once.
const pageConcurrency = 4

// Options wires the server to the rest of the site.
type Options struct {
	Config  *config.Config
	Client  *content.Client
	Clock   clock.Clock
	// Cache is optional; nil when the cache is disabled.
	Cache database.Store
	// Refresher is optional; it is started and stopped with the server.
	Refresher *content.Refresher
	Showcase  *showcase.Display
}

// Server is the main HTTP server.
type Server struct {
	cfg       *config.Config
	client    *content.Client
	clock     clock.Clock
	cache     database.Store
	refresher *content.Refresher
	display   *showcase.Display
	router    chi.Router
	templates *template.Template
	http      *http.Server
}

// New creates a new server.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Client == nil || opts.Showcase == nil {
		return nil, fmt.Errorf("server: config, client and showcase are required")
	}
	s := &Server{
		cfg:       opts.Config,
		client:    opts.Client,
		clock:     opts.Clock,
		cache:     opts.Cache,
		refresher: opts.Refresher,
		display:   opts.Showcase,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}

	tmpl, err := template.New("").Funcs(s.funcs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = tmpl
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Serve static files.
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Pages.
	r.Get("/", s.handleHome)
	r.Get("/projects", s.handleProjects)
	r.Get("/projects/{id}", s.handleProject)
	r.Get("/events", s.handleEvents)
	r.Get("/events.ics", s.handleEventsCalendar)
	r.Get("/events/{id}", s.handleEvent)
	r.Get("/careers", s.handleCareers)
	r.Get("/careers/{id}/apply", s.handleApplyForm)
	r.Post("/careers/{id}/apply", s.handleApply)
	r.Get("/videos", s.handleVideos)
	r.Get("/press", s.handlePress)
	r.Get("/contact", s.handleContactForm)
	r.Post("/contact", s.handleContact)
	r.Get("/contest", s.handleContestForm)
	r.Post("/contest", s.handleContest)

	// Lobby display.
	r.Route("/showcase", func(r chi.Router) {
		r.Get("/", s.handleShowcase)
		r.Get("/stream", s.handleShowcaseStream)
		r.Post("/next", s.handleShowcaseNext)
		r.Post("/prev", s.handleShowcasePrev)
		r.Post("/auto", s.handleShowcaseAuto)
		r.Post("/goto/{index}", s.handleShowcaseGoto)
	})

	// API.
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/collections/{name}", s.handleCollection)
		r.Get("/cache", s.handleCacheStatus)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/cleanup", s.handleCleanup)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, http.StatusNotFound, "We couldn't find that page.")
	})

	s.router = r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the refresher and serves until Stop.
func (s *Server) Start(addr string) error {
	if s.refresher != nil {
		s.refresher.Start()
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("server starting", "addr", addr, "api", s.client.BaseURL())
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop ends open showcase streams, stops the refresher and shuts the
// listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.display.Close()
	if s.refresher != nil {
		s.refresher.Stop()
	}
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
