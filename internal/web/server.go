// Package web serves the HTTP surface: the MJPEG preview, the JSON
// API and the Prometheus metrics endpoint.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/classwatch/internal/config"
	"github.com/kozaktomas/classwatch/internal/store"
	"github.com/kozaktomas/classwatch/internal/web/handlers"
	"github.com/kozaktomas/classwatch/internal/web/middleware"
)

// Deps bundles everything the routes need.
type Deps struct {
	Store    store.Store
	Camera   CameraSource
	Stream   handlers.StreamController
	Windows  handlers.Windows
	Detector handlers.FaceDetector
	// Refresh reloads the matcher and drops in-memory caches.
	Refresh func(ctx context.Context) error
}

// CameraSource is the camera surface the web layer needs.
type CameraSource interface {
	Active() bool
	Exhausted() bool
	Reconnect()
}

// Server represents the web server.
type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates a new web server.
func NewServer(cfg *config.Config, port int, host string, deps Deps) *Server {
	r := chi.NewRouter()

	s := &Server{
		config: cfg,
		router: r,
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Web.AllowedOrigins))

	s.setupRoutes(deps)

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", host, port),
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// No write timeout: /video streams for as long as a viewer
		// stays connected.
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
