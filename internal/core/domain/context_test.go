package domain

import (
	"testing"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestRelevanceScore(t *testing.T) {
	tests := []struct {
		name       string
		hasHistory bool
		priority   types.Priority
		want       float64
	}{
		{"base", false, types.PriorityNormal, 0.5},
		{"history only", true, types.PriorityLow, 0.7},
		{"high priority only", false, types.PriorityHigh, 0.7},
		{"critical priority only", false, types.PriorityCritical, 0.7},
		{"history and high", true, types.PriorityHigh, 0.9},
		{"history and critical", true, types.PriorityCritical, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelevanceScore(tt.hasHistory, tt.priority)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.5)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestBuildContext(t *testing.T) {
	trigger := types.WorkflowTrigger{ID: "t-1", Type: "user_input", Priority: types.PriorityHigh}
	roster := []types.Agent{
		{ID: "a", Active: true, Capabilities: []string{"search", "workflow"}},
		{ID: "b", Active: false, Capabilities: []string{"data-query"}},
		{ID: "c", Active: true, Capabilities: []string{"search"}},
	}
	messages := []types.Message{
		{ID: "m1", CreatedAt: time.Now()},
		{ID: "m2", CreatedAt: time.Now()},
	}

	wctx := BuildContext(trigger, messages, roster, map[string]string{"tone": "concise"})

	assert.Equal(t, trigger.ID, wctx.Trigger.ID)
	assert.True(t, wctx.User.HasHistory())
	assert.Len(t, wctx.User.RecentMessages, 2)
	assert.Contains(t, wctx.User.ProfileSummary, "returning user")
	assert.Contains(t, wctx.User.ProfileSummary, "concise")

	// Inactive agents are excluded; capability tags are deduplicated.
	assert.Equal(t, []types.AgentID{"a", "c"}, wctx.System.ActiveAgents)
	assert.Equal(t, []string{"search", "workflow"}, wctx.System.Resources)
	assert.Equal(t, 3, wctx.System.AgentCount)
	assert.Equal(t, 2, wctx.System.MessageCount)
}

func TestBuildContextEmpty(t *testing.T) {
	wctx := BuildContext(types.WorkflowTrigger{}, nil, nil, nil)

	assert.False(t, wctx.User.HasHistory())
	assert.Equal(t, "new user, no interaction history", wctx.User.ProfileSummary)
	assert.NotNil(t, wctx.User.Preferences)
}

func TestBuildContextWindowsRecentMessages(t *testing.T) {
	messages := make([]types.Message, recentMessageWindow+10)
	wctx := BuildContext(types.WorkflowTrigger{}, messages, nil, nil)

	assert.Len(t, wctx.User.RecentMessages, recentMessageWindow)
	assert.Equal(t, len(messages), wctx.System.MessageCount)
}

func TestInteractionSummary(t *testing.T) {
	assert.Equal(t, "no recent interactions", InteractionSummary(nil, time.Hour))

	msgs := []types.Message{
		{CreatedAt: time.Now().Add(-10 * time.Minute)},
		{CreatedAt: time.Now().Add(-2 * time.Hour)},
	}
	got := InteractionSummary(msgs, time.Hour)
	assert.Contains(t, got, "2 interactions")
	assert.Contains(t, got, "1 in window")
}
