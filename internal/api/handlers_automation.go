package api

import (
	"encoding/json"
	"net/http"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/api/dto"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/automation"
	"github.com/go-chi/chi/v5"
)

// Automation routes pass through to the external workflow-automation backend.
// They are management surface only; the orchestrator core never calls them.

func (s *Server) automationEnabled(w http.ResponseWriter) bool {
	if s.automation == nil {
		respondError(w, http.StatusNotImplemented, "AUTOMATION_DISABLED", "automation backend not configured")
		return false
	}
	return true
}

// Handler: GET /api/v1/automation/workflows
func (s *Server) handleAutomationList(w http.ResponseWriter, r *http.Request) {
	if !s.automationEnabled(w) {
		return
	}

	workflows, err := s.automation.List(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "AUTOMATION_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, workflows)
}

// Handler: GET /api/v1/automation/workflows/{id}
func (s *Server) handleAutomationGet(w http.ResponseWriter, r *http.Request) {
	if !s.automationEnabled(w) {
		return
	}

	wf, err := s.automation.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadGateway, "AUTOMATION_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, wf)
}

// Handler: POST /api/v1/automation/workflows
func (s *Server) handleAutomationCreate(w http.ResponseWriter, r *http.Request) {
	if !s.automationEnabled(w) {
		return
	}

	var wf automation.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	created, err := s.automation.Create(r.Context(), &wf)
	if err != nil {
		respondError(w, http.StatusBadGateway, "AUTOMATION_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Handler: PUT /api/v1/automation/workflows/{id}
func (s *Server) handleAutomationUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.automationEnabled(w) {
		return
	}

	var wf automation.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	wf.ID = chi.URLParam(r, "id")

	updated, err := s.automation.Update(r.Context(), &wf)
	if err != nil {
		respondError(w, http.StatusBadGateway, "AUTOMATION_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Handler: DELETE /api/v1/automation/workflows/{id}
func (s *Server) handleAutomationDelete(w http.ResponseWriter, r *http.Request) {
	if !s.automationEnabled(w) {
		return
	}

	if err := s.automation.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusBadGateway, "AUTOMATION_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Handler: POST /api/v1/automation/workflows/{id}/activate
func (s *Server) handleAutomationActivate(w http.ResponseWriter, r *http.Request) {
	if !s.automationEnabled(w) {
		return
	}

	if err := s.automation.Activate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusBadGateway, "AUTOMATION_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

// Handler: POST /api/v1/automation/workflows/{id}/deactivate
func (s *Server) handleAutomationDeactivate(w http.ResponseWriter, r *http.Request) {
	if !s.automationEnabled(w) {
		return
	}

	if err := s.automation.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusBadGateway, "AUTOMATION_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "inactive"})
}

// Handler: POST /api/v1/automation/workflows/{id}/snapshot
func (s *Server) handleAutomationSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.automationEnabled(w) {
		return
	}

	snap, err := s.automation.TakeSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadGateway, "AUTOMATION_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, snap)
}

// Handler: POST /api/v1/automation/workflows/activate (bulk)
func (s *Server) handleAutomationBulkActivate(w http.ResponseWriter, r *http.Request) {
	if !s.automationEnabled(w) {
		return
	}

	var req dto.BulkActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(req.WorkflowIDs) == 0 {
		respondError(w, http.StatusBadRequest, "MISSING_IDS", "workflow_ids is required")
		return
	}

	if err := s.automation.BulkActivate(r.Context(), req.WorkflowIDs); err != nil {
		respondError(w, http.StatusBadGateway, "AUTOMATION_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "active"})
}
