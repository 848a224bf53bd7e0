package domain

import (
	"fmt"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

// UserContext is derived per run from the session message log.
type UserContext struct {
	Preferences    map[string]string `json:"preferences"`
	RecentMessages []types.Message   `json:"recent_messages"`
	ProfileSummary string            `json:"profile_summary"`
}

// SystemContext is derived per run from the agent roster.
type SystemContext struct {
	ActiveAgents []types.AgentID `json:"active_agents"`
	AgentCount   int             `json:"agent_count"`
	MessageCount int             `json:"message_count"`
	Resources    []string        `json:"resources"`
}

// WorkflowContext lives for the duration of one pipeline run.
type WorkflowContext struct {
	Trigger types.WorkflowTrigger `json:"trigger"`
	User    UserContext           `json:"user"`
	System  SystemContext         `json:"system"`
}

const recentMessageWindow = 20

// BuildContext derives the ephemeral run context from the trigger, the
// session log and the roster snapshot.
func BuildContext(trigger types.WorkflowTrigger, messages []types.Message, roster []types.Agent, prefs map[string]string) WorkflowContext {
	recent := messages
	if len(recent) > recentMessageWindow {
		recent = recent[len(recent)-recentMessageWindow:]
	}
	recentCopy := make([]types.Message, len(recent))
	copy(recentCopy, recent)

	var active []types.AgentID
	var resources []string
	seen := map[string]bool{}
	for _, a := range roster {
		if !a.Active {
			continue
		}
		active = append(active, a.ID)
		for _, c := range a.Capabilities {
			if !seen[c] {
				seen[c] = true
				resources = append(resources, c)
			}
		}
	}

	if prefs == nil {
		prefs = map[string]string{}
	}

	return WorkflowContext{
		Trigger: trigger,
		User: UserContext{
			Preferences:    prefs,
			RecentMessages: recentCopy,
			ProfileSummary: profileSummary(len(messages), prefs),
		},
		System: SystemContext{
			ActiveAgents: active,
			AgentCount:   len(roster),
			MessageCount: len(messages),
			Resources:    resources,
		},
	}
}

func profileSummary(messageCount int, prefs map[string]string) string {
	if messageCount == 0 {
		return "new user, no interaction history"
	}
	tone := prefs["tone"]
	if tone == "" {
		tone = "neutral"
	}
	return fmt.Sprintf("returning user, %d prior messages, preferred tone %s", messageCount, tone)
}

// HasHistory reports whether the user context carries prior interactions.
func (u UserContext) HasHistory() bool {
	return len(u.RecentMessages) > 0
}

// RelevanceScore combines history presence and trigger priority.
// Base 0.5, +0.2 per qualifying condition, capped at 1.0.
func RelevanceScore(hasHistory bool, priority types.Priority) float64 {
	// Tenths keep the score exact; float accumulation would drift
	// (0.5+0.2+0.2 != 0.9 in float64).
	tenths := 5
	if hasHistory {
		tenths += 2
	}
	if priority.Elevated() {
		tenths += 2
	}
	if tenths > 10 {
		tenths = 10
	}
	return float64(tenths) / 10
}

// InteractionSummary describes recent user interaction frequency.
func InteractionSummary(recent []types.Message, window time.Duration) string {
	if len(recent) == 0 {
		return "no recent interactions"
	}
	cutoff := time.Now().Add(-window)
	count := 0
	for _, m := range recent {
		if m.CreatedAt.After(cutoff) {
			count++
		}
	}
	return fmt.Sprintf("%d interactions in the last %s (%d in window)", len(recent), window, count)
}
