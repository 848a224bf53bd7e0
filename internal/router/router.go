// Package router classifies free-text commands and dispatches them to a
// capability-tagged agent.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/agents"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/ports"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

// Category is the resolved intent of a command.
type Category string

const (
	CategorySearch       Category = "search"
	CategoryWorkflow     Category = "workflow"
	CategoryData         Category = "data"
	CategoryLearning     Category = "learning"
	CategoryConversation Category = "conversation"
)

// rule pairs a predicate with the capability tag its handler dispatches to.
// Rules are checked in declaration order; the first match wins, so the
// priority search > workflow > data > learning > conversation is fixed.
type rule struct {
	category   Category
	capability string
	keywords   []string
}

var rules = []rule{
	{CategorySearch, "search", []string{"search", "find", "look up"}},
	{CategoryWorkflow, "workflow", []string{"workflow", "automate", "pipeline"}},
	{CategoryData, "data-query", []string{"query", "data", "report"}},
	{CategoryLearning, "learning", []string{"learn", "train", "teach"}},
}

// conversationRule is the default when nothing else matches.
var conversationRule = rule{CategoryConversation, "conversation", nil}

// Result of routing one command. NoAgent marks the "no suitable agent"
// outcome; it is a structured result, not an error.
type Result struct {
	Category Category      `json:"category"`
	AgentID  types.AgentID `json:"agent_id,omitempty"`
	Reply    string        `json:"reply,omitempty"`
	NoAgent  bool          `json:"no_agent,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type Router struct {
	roster *agents.Registry
	gen    ports.Generator
}

func New(roster *agents.Registry, gen ports.Generator) *Router {
	return &Router{roster: roster, gen: gen}
}

// Classify resolves the command's category and the capability tag to dispatch
// to. Deterministic: same command always yields the same category.
func Classify(command string) (Category, string) {
	lowered := strings.ToLower(command)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.category, r.capability
			}
		}
	}
	return conversationRule.category, conversationRule.capability
}

// Route dispatches the command to the first active agent carrying the
// resolved capability, tracking its status through the attempt.
func (r *Router) Route(ctx context.Context, command string) Result {
	category, capability := Classify(command)

	agent, ok := r.roster.FindByCapability(capability)
	if !ok {
		return Result{
			Category: category,
			NoAgent:  true,
			Error:    fmt.Sprintf("no suitable agent for capability %q", capability),
		}
	}

	_ = r.roster.SetStatus(agent.ID, types.StatusProcessing)

	reply, err := r.handle(ctx, category, agent, command)
	if err != nil {
		_ = r.roster.SetStatus(agent.ID, types.StatusError)
		return Result{Category: category, AgentID: agent.ID, Error: err.Error()}
	}

	_ = r.roster.SetStatus(agent.ID, types.StatusSuccess)
	return Result{Category: category, AgentID: agent.ID, Reply: reply}
}

func (r *Router) handle(ctx context.Context, category Category, agent types.Agent, command string) (string, error) {
	switch category {
	case CategorySearch:
		return fmt.Sprintf("%s is searching for: %s", agent.Name, command), nil
	case CategoryWorkflow:
		return fmt.Sprintf("%s queued a workflow run for: %s", agent.Name, command), nil
	case CategoryData:
		return fmt.Sprintf("%s is preparing a data view for: %s", agent.Name, command), nil
	case CategoryLearning:
		return fmt.Sprintf("%s recorded a training note: %s", agent.Name, command), nil
	default:
		return r.converse(ctx, agent, command)
	}
}

// converse consults the generator when configured. Generator failures surface
// as a routing-level error, never as a crash.
func (r *Router) converse(ctx context.Context, agent types.Agent, command string) (string, error) {
	if r.gen == nil {
		return fmt.Sprintf("%s heard: %s", agent.Name, command), nil
	}

	gen, err := r.gen.Generate(ctx, []ports.ChatMessage{
		{Role: "system", Content: "You are " + agent.Name + ", a conversational agent."},
		{Role: "user", Content: command},
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return gen.Content, nil
}
