package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/api/dto"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/service"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/google/uuid"
)

// Handler: POST /api/v1/triggers
//
// With a bus configured the trigger is published for a worker and the call
// returns 202; otherwise the pipeline runs inline and the terminal result is
// returned directly.
func (s *Server) handleSubmitTrigger(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitTriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if req.Type == "" {
		respondError(w, http.StatusBadRequest, "MISSING_TYPE", "type is required")
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	trigger := types.WorkflowTrigger{
		ID:        types.TriggerID(uuid.New().String()),
		Type:      req.Type,
		Source:    req.Source,
		Priority:  req.Priority,
		Data:      req.Data,
		CreatedAt: time.Now(),
	}

	s.mirrorTrigger(r.Context(), trigger)

	if s.eventBus != nil {
		event := types.TriggerSubmittedEvent{Trigger: trigger, CreatedAt: trigger.CreatedAt}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.eventBus.PublishTrigger(ctx, event); err != nil {
			respondError(w, http.StatusInternalServerError, "PUBLISH_FAILED", err.Error())
			return
		}

		respondJSON(w, http.StatusAccepted, dto.SubmitTriggerResponse{
			TriggerID: trigger.ID,
			Status:    "accepted",
			CreatedAt: trigger.CreatedAt,
		})
		return
	}

	result, err := s.orchestrator.SubmitTrigger(r.Context(), trigger)
	if errors.Is(err, service.ErrPipelineBusy) {
		respondError(w, http.StatusConflict, "PIPELINE_BUSY", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SUBMIT_FAILED", err.Error())
		return
	}

	status := "completed"
	if !result.Success {
		status = "failed"
	}
	respondJSON(w, http.StatusOK, dto.SubmitTriggerResponse{
		TriggerID: trigger.ID,
		Status:    status,
		Result:    &result,
		CreatedAt: trigger.CreatedAt,
	})
}

// Handler: GET /api/v1/triggers/recent
func (s *Server) handleRecentTriggers(w http.ResponseWriter, r *http.Request) {
	if s.truthStore != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		triggers, err := s.truthStore.RecentTriggers(ctx)
		if err == nil {
			respondJSON(w, http.StatusOK, triggers)
			return
		}
		log.Printf("recent triggers from store: %v", err)
	}

	respondJSON(w, http.StatusOK, s.orchestrator.RecentTriggers())
}

// mirrorTrigger copies the trigger into the durable recent ring, best effort.
func (s *Server) mirrorTrigger(ctx context.Context, trigger types.WorkflowTrigger) {
	if s.truthStore == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.truthStore.PushRecentTrigger(ctx, trigger); err != nil {
		log.Printf("mirror trigger %s: %v", trigger.ID, err)
	}
}
