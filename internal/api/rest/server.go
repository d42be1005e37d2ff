package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/courtside/internal/pipeline"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, p *pipeline.Pipeline) *Server {
	handler := NewHandler(p)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/snapshot", handler.GetSnapshot).Methods("GET")
	api.HandleFunc("/players", handler.GetPlayerAverages).Methods("GET")
	api.HandleFunc("/games", handler.GetGames).Methods("GET")
	api.HandleFunc("/games/last", handler.GetLastGame).Methods("GET")
	api.HandleFunc("/team", handler.GetTeamSummary).Methods("GET")
	api.HandleFunc("/refresh", handler.TriggerRefresh).Methods("POST")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
