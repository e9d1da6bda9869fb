// Package server sets up the HTTP server and registers API routes for
// go-duplicatepdf.
//
// RegisterRoutes returns an http.Handler with all API endpoints for session,
// duplication, and HR platform access.
//
// Expected outputs:
// - Session endpoints are available under /api/sessions
// - Platform proxies are available under /api/segmentations and /api/folders
// - CORS and logging middleware are enabled
package server

import (
	"net"
	"net/http"

	_ "go-duplicatepdf/docs"
	"go-duplicatepdf/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Only allow requests from localhost to /swagger/*
func localhostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, _ := net.SplitHostPort(r.RemoteAddr)
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Accept"},
	}))
	r.With(localhostOnly).Get("/swagger/*", httpSwagger.WrapHandler)
	h := handlers.NewAPIHandler(s.SessionManager, s.Humand, s.Engine, s.Config.UploadDir, s.Config.MaxUploadMB)
	r.Route("/api/sessions", func(api chi.Router) {
		api.Post("/", h.CreateSession)
		api.Post("/{sessionID}/source", h.UploadSource)
		api.Get("/{sessionID}/source/info", h.SourceInfo)
		api.Put("/{sessionID}/signature-area", h.SetSignatureArea)
		api.Delete("/{sessionID}/signature-area", h.ClearSignatureArea)
		api.Post("/{sessionID}/actions/duplicate", h.Duplicate)
		api.Get("/{sessionID}/results", h.Results)
		api.Get("/{sessionID}/files/{filename}", h.DownloadFile)
		api.Post("/{sessionID}/actions/upload", h.UploadDocuments)
	})
	r.Route("/api/segmentations", func(api chi.Router) {
		api.Get("/", h.Segmentations)
		api.Get("/users", h.SegmentationUsers)
	})
	r.Get("/api/folders", h.Folders)

	return r
}
