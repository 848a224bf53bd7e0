package api

import (
	"encoding/json"
	"net/http"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/api/dto"
)

// Handler: POST /api/v1/commands
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req dto.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Command == "" {
		respondError(w, http.StatusBadRequest, "MISSING_COMMAND", "command is required")
		return
	}

	result := s.commands.Route(r.Context(), req.Command)

	if result.NoAgent {
		respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
