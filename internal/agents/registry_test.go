package agents

import (
	"testing"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySeed(t *testing.T) {
	r := NewRegistry(DefaultRoster())

	list := r.List()
	require.Len(t, list, len(DefaultRoster()))

	// Seed order is preserved and everything starts idle.
	assert.Equal(t, CoordinatorID, list[0].ID)
	for _, a := range list {
		assert.Equal(t, types.StatusIdle, a.Status)
		assert.False(t, a.UpdatedAt.IsZero())
	}
}

func TestRegistrySetStatus(t *testing.T) {
	r := NewRegistry(DefaultRoster())

	require.NoError(t, r.SetStatus(WorkflowID, types.StatusProcessing))

	agent, ok := r.Get(WorkflowID)
	require.True(t, ok)
	assert.Equal(t, types.StatusProcessing, agent.Status)

	assert.Error(t, r.SetStatus("nope", types.StatusIdle))
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	r := NewRegistry(DefaultRoster())

	agent, ok := r.Get(WorkflowID)
	require.True(t, ok)
	agent.Status = types.StatusError

	again, _ := r.Get(WorkflowID)
	assert.Equal(t, types.StatusIdle, again.Status)
}

func TestFindByCapability(t *testing.T) {
	r := NewRegistry([]types.Agent{
		{ID: "first", Capabilities: []string{"search"}, Active: true},
		{ID: "second", Capabilities: []string{"search"}, Active: true},
		{ID: "off", Capabilities: []string{"data-query"}, Active: false},
	})

	agent, ok := r.FindByCapability("search")
	require.True(t, ok)
	assert.Equal(t, types.AgentID("first"), agent.ID, "ties break by seed order")

	_, ok = r.FindByCapability("data-query")
	assert.False(t, ok, "inactive agents do not route")

	_, ok = r.FindByCapability("unknown")
	assert.False(t, ok)
}
