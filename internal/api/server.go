package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/agents"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/api/dto"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/automation"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/ports"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/service"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/router"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/store"
)

// Server wires all API dependencies. Bus, truth store and automation client
// may be nil; their routes respond 501 in that case.
type Server struct {
	mux          *chi.Mux
	orchestrator *service.Orchestrator
	roster       *agents.Registry
	commands     *router.Router
	eventBus     ports.EventBus
	truthStore   store.TruthStore
	automation   *automation.Client
}

func NewServer(orchestrator *service.Orchestrator, roster *agents.Registry, commands *router.Router, eventBus ports.EventBus, truthStore store.TruthStore, auto *automation.Client) *Server {
	s := &Server{
		mux:          chi.NewRouter(),
		orchestrator: orchestrator,
		roster:       roster,
		commands:     commands,
		eventBus:     eventBus,
		truthStore:   truthStore,
		automation:   auto,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.mux.Use(middleware.RequestID)
	s.mux.Use(middleware.RealIP)
	s.mux.Use(middleware.Logger)
	s.mux.Use(middleware.Recoverer)
	s.mux.Use(middleware.Timeout(60 * time.Second))
	s.mux.Use(jsonContentType)
}

func (s *Server) setupRoutes() {
	s.mux.Get("/health", s.handleHealth)

	s.mux.Route("/api/v1", func(r chi.Router) {
		r.Post("/triggers", s.handleSubmitTrigger)
		r.Get("/triggers/recent", s.handleRecentTriggers)

		r.Post("/commands", s.handleCommand)

		r.Get("/agents", s.handleListAgents)
		r.Get("/agents/{id}", s.handleGetAgent)
		r.Get("/agents/{id}/truth", s.handleGetTruthFile)
		r.Put("/agents/{id}/truth", s.handlePutTruthFile)

		r.Get("/messages", s.handleListMessages)
		r.Post("/messages", s.handleSendMessage)
		r.Get("/stats", s.handleStats)
		r.Put("/preferences", s.handlePutPreference)

		r.Route("/automation/workflows", func(r chi.Router) {
			r.Get("/", s.handleAutomationList)
			r.Post("/", s.handleAutomationCreate)
			r.Post("/activate", s.handleAutomationBulkActivate)
			r.Get("/{id}", s.handleAutomationGet)
			r.Put("/{id}", s.handleAutomationUpdate)
			r.Delete("/{id}", s.handleAutomationDelete)
			r.Post("/{id}/activate", s.handleAutomationActivate)
			r.Post("/{id}/deactivate", s.handleAutomationDeactivate)
			r.Post("/{id}/snapshot", s.handleAutomationSnapshot)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "0.1.0",
	})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
