package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fortuna/augur/internal/scheduler"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, orch *scheduler.Orchestrator, logger *zap.Logger) *Server {
	handler := NewHandler(orch, logger)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Predictions snapshot
	api.HandleFunc("/predictions", handler.GetPredictions).Methods("GET")
	api.HandleFunc("/refresh", handler.TriggerRefresh).Methods("POST")

	// Notifications
	api.HandleFunc("/notifications", handler.GetNotification).Methods("GET")
	api.HandleFunc("/notifications/ack", handler.AcknowledgeNotification).Methods("POST")

	// Scheduler
	api.HandleFunc("/scheduler/status", handler.GetSchedulerStatus).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.server.Handler
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
