package types

import "time"

// MessageKind discriminates the message payload union.
type MessageKind string

const (
	KindDirect           MessageKind = "direct"
	KindPhaseTransition  MessageKind = "phase_transition"
	KindWorkflowRequest  MessageKind = "workflow_request"
	KindWorkflowComplete MessageKind = "workflow_complete"
)

// Message is immutable once created. Exactly one payload pointer matching
// Kind is set; consumers switch on Kind instead of decoding opaque content.
type Message struct {
	ID        string      `json:"id"`
	From      AgentID     `json:"from"`
	To        AgentID     `json:"to"`
	Kind      MessageKind `json:"kind"`
	CreatedAt time.Time   `json:"created_at"`

	Direct     *DirectPayload           `json:"direct,omitempty"`
	Transition *PhaseTransitionPayload  `json:"transition,omitempty"`
	Request    *WorkflowRequestPayload  `json:"request,omitempty"`
	Complete   *WorkflowCompletePayload `json:"complete,omitempty"`
}

type DirectPayload struct {
	Text string `json:"text"`
}

type PhaseTransitionPayload struct {
	TriggerID TriggerID `json:"trigger_id"`
	Phase     Phase     `json:"phase"`
}

type WorkflowRequestPayload struct {
	TriggerID TriggerID `json:"trigger_id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
}

type WorkflowCompletePayload struct {
	TriggerID  TriggerID     `json:"trigger_id"`
	Success    bool          `json:"success"`
	Response   string        `json:"response,omitempty"`
	Confidence float64       `json:"confidence"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}
