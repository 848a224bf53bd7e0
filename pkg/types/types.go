package types

import (
	"encoding/json"
	"time"
)

type AgentID string
type TriggerID string
type Data = json.RawMessage

// AgentStatus lifecycle of a routed agent.
type AgentStatus string

const (
	StatusIdle       AgentStatus = "idle"
	StatusProcessing AgentStatus = "processing"
	StatusSuccess    AgentStatus = "success"
	StatusError      AgentStatus = "error"
)

// AgentCategory fixed role set; agents are seeded at startup and never removed.
type AgentCategory string

const (
	CategoryCoordinator  AgentCategory = "coordinator"
	CategorySearch       AgentCategory = "search"
	CategoryWorkflow     AgentCategory = "workflow"
	CategoryData         AgentCategory = "data"
	CategoryLearning     AgentCategory = "learning"
	CategoryConversation AgentCategory = "conversation"
)

type Agent struct {
	ID           AgentID       `json:"id"`
	Name         string        `json:"name"`
	Category     AgentCategory `json:"category"`
	Status       AgentStatus   `json:"status"`
	Capabilities []string      `json:"capabilities"`
	Active       bool          `json:"active"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasCapability reports whether the agent carries the given tag.
func (a *Agent) HasCapability(tag string) bool {
	for _, c := range a.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// Priority of a workflow trigger.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Elevated reports whether the priority qualifies for the relevance boost.
func (p Priority) Elevated() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Phase of the monitor/contextualize/personalize pipeline.
type Phase string

const (
	PhaseMonitor       Phase = "monitor"
	PhaseContextualize Phase = "contextualize"
	PhasePersonalize   Phase = "personalize"
)

// Next returns the phase that follows, or "" for the terminal phase.
func (p Phase) Next() Phase {
	switch p {
	case PhaseMonitor:
		return PhaseContextualize
	case PhaseContextualize:
		return PhasePersonalize
	default:
		return ""
	}
}

// WorkflowTrigger is one unit of input entering the pipeline.
type WorkflowTrigger struct {
	ID        TriggerID `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Priority  Priority  `json:"priority"`
	Data      Data      `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkflowResult is a per-phase outcome. The terminal result carries the last
// phase's payload plus end-to-end elapsed time.
type WorkflowResult struct {
	Phase      Phase         `json:"phase"`
	Success    bool          `json:"success"`
	Payload    Data          `json:"payload,omitempty"`
	Confidence float64       `json:"confidence"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	NextPhase  Phase         `json:"next_phase,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// WorkflowStats process-wide counters, mutated only by the orchestrator.
type WorkflowStats struct {
	ActiveWorkflows    int64 `json:"active_workflows"`
	CompletedWorkflows int64 `json:"completed_workflows"`
	FailedWorkflows    int64 `json:"failed_workflows"`
}
