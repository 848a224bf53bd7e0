package agents

import (
	"fmt"
	"sync"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

// Registry holds the fixed agent roster. Agents are seeded once at startup;
// only their status mutates during a session and none are ever removed.
type Registry struct {
	mu     sync.RWMutex
	agents map[types.AgentID]*types.Agent
	order  []types.AgentID
}

func NewRegistry(seed []types.Agent) *Registry {
	r := &Registry{agents: make(map[types.AgentID]*types.Agent, len(seed))}
	now := time.Now()
	for i := range seed {
		a := seed[i]
		if a.Status == "" {
			a.Status = types.StatusIdle
		}
		a.UpdatedAt = now
		r.agents[a.ID] = &a
		r.order = append(r.order, a.ID)
	}
	return r
}

// Get returns a copy of the agent record.
func (r *Registry) Get(id types.AgentID) (types.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[id]
	if !ok {
		return types.Agent{}, false
	}
	return *a, true
}

// List returns copies in seed order.
func (r *Registry) List() []types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Agent, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.agents[id])
	}
	return out
}

// SetStatus mutates an agent's status.
func (r *Registry) SetStatus(id types.AgentID, status types.AgentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return fmt.Errorf("unknown agent: %s", id)
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

// FindByCapability returns the first active agent carrying the tag, in seed
// order. Ties resolve deterministically.
func (r *Registry) FindByCapability(tag string) (types.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		a := r.agents[id]
		if a.Active && a.HasCapability(tag) {
			return *a, true
		}
	}
	return types.Agent{}, false
}

// Well-known roster ids the orchestrator addresses directly.
const (
	CoordinatorID types.AgentID = "nexus-coordinator"
	WorkflowID    types.AgentID = "workflow-engine"
)

// DefaultRoster is the seed list supplied at process start.
func DefaultRoster() []types.Agent {
	return []types.Agent{
		{ID: CoordinatorID, Name: "Nexus Coordinator", Category: types.CategoryCoordinator, Capabilities: []string{"coordination"}, Active: true},
		{ID: WorkflowID, Name: "Workflow Engine", Category: types.CategoryWorkflow, Capabilities: []string{"workflow"}, Active: true},
		{ID: "search-scout", Name: "Search Scout", Category: types.CategorySearch, Capabilities: []string{"search"}, Active: true},
		{ID: "data-analyst", Name: "Data Analyst", Category: types.CategoryData, Capabilities: []string{"data-query"}, Active: true},
		{ID: "learning-loop", Name: "Learning Loop", Category: types.CategoryLearning, Capabilities: []string{"learning"}, Active: true},
		{ID: "conversationalist", Name: "Conversationalist", Category: types.CategoryConversation, Capabilities: []string{"conversation"}, Active: true},
	}
}
