// Package server provides the HTTP server setup for go-duplicatepdf.
//
// NewServer creates and configures the HTTP server, session manager, the
// HR platform client, and the upload directory.
//
// Expected outputs:
// - Server listens on the configured port (default 8080)
// - Old sessions and their source files are cleaned up periodically
//
// Usage:
//
//	server := server.NewServer()
//	server.ListenAndServe()
//
// See internal/server/routes.go for route registration.
package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go-duplicatepdf/internal/config"
	"go-duplicatepdf/internal/humand"
	"go-duplicatepdf/internal/pdf"
	"go-duplicatepdf/internal/session"
)

type Server struct {
	Config         config.Config
	SessionManager *session.SessionManager
	Humand         *humand.Client
	Engine         *pdf.Engine
}

func NewServer() *http.Server {
	cfg := config.Load()

	os.MkdirAll(cfg.UploadDir, 0755)

	srv := &Server{
		Config:         cfg,
		SessionManager: session.NewSessionManager(),
		Humand:         humand.NewClient(cfg.Humand, cfg.Redash, nil),
		Engine:         pdf.NewEngine(),
	}

	// Cleanup goroutine for old sessions/files
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.SessionManager.Mutex.Lock()
			for id, sess := range srv.SessionManager.Sessions {
				if time.Since(sess.CreatedAt) > time.Hour {
					sess.Cleanup()
					delete(srv.SessionManager.Sessions, id)
				}
			}
			srv.SessionManager.Mutex.Unlock()
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // batch runs stream progress on this connection
	}

	return server
}
