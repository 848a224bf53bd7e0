package dto

import (
	"encoding/json"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

type SubmitTriggerRequest struct {
	Type     string          `json:"type"`
	Source   string          `json:"source"`
	Priority types.Priority  `json:"priority,omitempty"`
	Data     json.RawMessage `json:"data"`
}

type CommandRequest struct {
	Command string `json:"command"`
}

type DirectMessageRequest struct {
	From types.AgentID `json:"from"`
	To   types.AgentID `json:"to"`
	Text string        `json:"text"`
}

type PreferenceRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type TruthFileRequest struct {
	Identity      string   `json:"identity"`
	CoreTruths    []string `json:"core_truths"`
	Principles    []string `json:"principles"`
	MemoryAnchors []string `json:"memory_anchors"`
	EvolutionNote string   `json:"evolution_note,omitempty"`
}

type BulkActivateRequest struct {
	WorkflowIDs []string `json:"workflow_ids"`
}
