package types

import "time"

// TriggerSubmittedEvent is published when a trigger enters the system and
// consumed by the pipeline worker.
type TriggerSubmittedEvent struct {
	Trigger   WorkflowTrigger `json:"trigger"`
	CreatedAt time.Time       `json:"created_at"`
}

// PhaseEvent marks a phase transition of a running pipeline.
type PhaseEvent struct {
	TriggerID TriggerID `json:"trigger_id"`
	Phase     Phase     `json:"phase"`
	StartedAt time.Time `json:"started_at"`
}

// ResultEvent carries the terminal result of a pipeline run.
type ResultEvent struct {
	TriggerID  TriggerID      `json:"trigger_id"`
	Result     WorkflowResult `json:"result"`
	FinishedAt time.Time      `json:"finished_at"`
}
