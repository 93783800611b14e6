package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/VitalsyncDev/vitalsync-web/internal/db"
	"github.com/VitalsyncDev/vitalsync-web/internal/sync"
)

// Server holds dependencies for API handlers.
type Server struct {
	db             *db.DB
	engine         *sync.Engine
	allowedOrigins []string
	version        string
}

// NewServer creates a new API server.
func NewServer(database *db.DB, engine *sync.Engine, allowedOrigins []string, version string) *Server {
	return &Server{
		db:             database,
		engine:         engine,
		allowedOrigins: allowedOrigins,
		version:        version,
	}
}

// SetupRoutes configures HTTP routes.
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(compressResponses())

	// Health check
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleRoot)

	r.Route("/api", func(r chi.Router) {
		// Sync control
		r.Post("/sync/all", s.handleSyncAll)
		r.Post("/sync/{category}", s.handleSyncCategory)
		r.Get("/sync/status", s.handleSyncStatus)

		// Dashboard reads
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/activities", s.handleListActivities)
		r.Get("/sleep", s.handleListSleep)
		r.Get("/daily", s.handleListDaily)
		r.Get("/heart-rate", s.handleListHeartRate)
		r.Get("/body", s.handleListBody)

		// Journal
		r.Post("/journal", s.handleCreateJournalEntry)
		r.Get("/journal", s.handleListJournalEntries)
		r.Get("/journal/{id}", s.handleGetJournalEntry)
		r.Put("/journal/{id}", s.handleUpdateJournalEntry)
		r.Delete("/journal/{id}", s.handleDeleteJournalEntry)
	})

	return r
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// handleRoot returns API info
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "vitalsync-backend",
		"version": s.version,
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
