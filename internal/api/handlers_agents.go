package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/api/dto"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/domain"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/store"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/go-chi/chi/v5"
)

// Handler: GET /api/v1/agents
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.roster.List())
}

// Handler: GET /api/v1/agents/{id}
func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	id := types.AgentID(chi.URLParam(r, "id"))

	agent, ok := s.roster.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "AGENT_NOT_FOUND", "unknown agent: "+string(id))
		return
	}
	respondJSON(w, http.StatusOK, agent)
}

// Handler: GET /api/v1/messages
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	if from := r.URL.Query().Get("from"); from != "" {
		respondJSON(w, http.StatusOK, s.orchestrator.MessagesFrom(types.AgentID(from)))
		return
	}
	respondJSON(w, http.StatusOK, s.orchestrator.Messages())
}

// Handler: POST /api/v1/messages
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.DirectMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "MISSING_TEXT", "text is required")
		return
	}
	if _, ok := s.roster.Get(req.To); !ok {
		respondError(w, http.StatusNotFound, "AGENT_NOT_FOUND", "unknown agent: "+string(req.To))
		return
	}

	msg := domain.NewDirectMessage(req.From, req.To, req.Text)
	s.orchestrator.AppendMessage(msg)

	respondJSON(w, http.StatusCreated, msg)
}

// Handler: GET /api/v1/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := dto.StatsResponse{WorkflowStats: s.orchestrator.Stats()}

	if s.truthStore != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		counters, err := s.truthStore.Counters(ctx)
		if err != nil {
			log.Printf("durable counters: %v", err)
		} else {
			resp.DurableCounters = counters
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// Handler: PUT /api/v1/preferences
func (s *Server) handlePutPreference(w http.ResponseWriter, r *http.Request) {
	var req dto.PreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Key == "" {
		respondError(w, http.StatusBadRequest, "MISSING_KEY", "key is required")
		return
	}

	s.orchestrator.SetPreference(req.Key, req.Value)
	respondJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

// Handler: GET /api/v1/agents/{id}/truth
func (s *Server) handleGetTruthFile(w http.ResponseWriter, r *http.Request) {
	if s.truthStore == nil {
		respondError(w, http.StatusNotImplemented, "TRUTH_STORE_DISABLED", "truth store not configured")
		return
	}
	id := types.AgentID(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tf, err := s.truthStore.GetTruthFile(ctx, id)
	if errors.Is(err, store.ErrTruthFileNotFound) {
		respondError(w, http.StatusNotFound, "TRUTH_FILE_NOT_FOUND", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "TRUTH_QUERY_FAILED", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, tf)
}

// Handler: PUT /api/v1/agents/{id}/truth
func (s *Server) handlePutTruthFile(w http.ResponseWriter, r *http.Request) {
	if s.truthStore == nil {
		respondError(w, http.StatusNotImplemented, "TRUTH_STORE_DISABLED", "truth store not configured")
		return
	}
	id := types.AgentID(chi.URLParam(r, "id"))

	if _, ok := s.roster.Get(id); !ok {
		respondError(w, http.StatusNotFound, "AGENT_NOT_FOUND", "unknown agent: "+string(id))
		return
	}

	var req dto.TruthFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tf, err := s.truthStore.GetTruthFile(ctx, id)
	if err != nil {
		tf = &types.TruthFile{AgentID: id}
	}

	tf.Identity = req.Identity
	tf.CoreTruths = req.CoreTruths
	tf.Principles = req.Principles
	tf.MemoryAnchors = req.MemoryAnchors
	if req.EvolutionNote != "" {
		tf.EvolutionLog = append(tf.EvolutionLog, types.EvolutionEntry{
			At:   time.Now(),
			Note: req.EvolutionNote,
		})
	}

	if err := s.truthStore.SaveTruthFile(ctx, tf); err != nil {
		respondError(w, http.StatusInternalServerError, "TRUTH_SAVE_FAILED", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, tf)
}
