package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kozaktomas/classwatch/internal/web/handlers"
	"github.com/kozaktomas/classwatch/internal/web/middleware"
)

func (s *Server) setupRoutes(deps Deps) {
	healthHandler := handlers.NewHealthHandler(deps.Camera, deps.Stream, deps.Windows, deps.Store)
	classHandler := handlers.NewClassHandler(deps.Windows, deps.Store)
	attendanceHandler := handlers.NewAttendanceHandler(deps.Windows, deps.Store, deps.Store)
	streamHandler := handlers.NewStreamHandler(deps.Stream)
	controlHandler := handlers.NewControlHandler(deps.Camera, deps.Refresh)
	uploadHandler := handlers.NewUploadHandler(deps.Detector, deps.Store, deps.Store, deps.Refresh)

	// Open endpoints: preview, health and metrics.
	s.router.Get("/video", streamHandler.Video)
	s.router.Get("/health", healthHandler.Get)
	s.router.Handle("/metrics", promhttp.Handler())

	// Guarded endpoints.
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(s.config.Web.APISecretKey))

		r.Get("/api/current-class", classHandler.Get)
		r.Get("/api/attendance-records", attendanceHandler.Get)
		r.Post("/api/pause-stream", streamHandler.Pause)
		r.Post("/api/resume-stream", streamHandler.Resume)
		r.Post("/api/reconnect", controlHandler.Reconnect)
		r.Post("/upload-image", uploadHandler.Upload)
	})
}
