package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"omniquery/internal/api/handlers"
	"omniquery/internal/config"
	"omniquery/internal/core"
	"omniquery/internal/core/ingest"
	"omniquery/internal/core/query"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, store core.Store, processor *ingest.Processor, engine *query.Engine) *Server {
	filesHandler := handlers.NewFilesHandler(store, processor, cfg)
	queryHandler := handlers.NewQueryHandler(store, engine)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/files/upload", filesHandler.Upload)
		api.Post("/youtube", filesHandler.AddYouTube)
		api.Get("/files", filesHandler.List)
		api.Get("/files/{id}/original", filesHandler.Original)
		api.Delete("/data", filesHandler.ClearAll)

		api.Post("/query", queryHandler.Ask)
		api.Get("/queries", queryHandler.History)
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
