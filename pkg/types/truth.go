package types

import "time"

// TruthFile is the durable identity record of an agent. It is managed through
// the API and the persistence collaborator, entirely outside the
// orchestrator's write path.
type TruthFile struct {
	AgentID       AgentID          `json:"agent_id"`
	Identity      string           `json:"identity"`
	CoreTruths    []string         `json:"core_truths"`
	Principles    []string         `json:"principles"`
	MemoryAnchors []string         `json:"memory_anchors"`
	EvolutionLog  []EvolutionEntry `json:"evolution_log"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type EvolutionEntry struct {
	At   time.Time `json:"at"`
	Note string    `json:"note"`
}
