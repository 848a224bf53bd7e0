package domain

import (
	"fmt"
	"strings"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/tidwall/sjson"
)

// Phase confidence constants. These values are part of the system's
// behavioral contract and must not drift.
const (
	MonitorConfidence       = 0.95
	ContextualizeConfidence = 0.88
	PersonalizeConfidence   = 0.91
)

// Snippet is one scored result from the relevance search.
type Snippet struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Enrichment is the contextualize phase's output.
type Enrichment struct {
	Snippets           []Snippet `json:"snippets"`
	InteractionSummary string    `json:"interaction_summary"`
	Relevance          float64   `json:"relevance"`
}

// FallbackSnippets serves the relevance search when no index is configured.
func FallbackSnippets(triggerType string) []Snippet {
	return []Snippet{
		{Title: "recent activity", Content: "summary of recent " + triggerType + " activity", Score: 0.82},
		{Title: "related workflows", Content: "workflows associated with " + triggerType, Score: 0.74},
		{Title: "knowledge base", Content: "background notes for " + triggerType, Score: 0.61},
	}
}

// MonitorPayload marks the trigger as captured.
func MonitorPayload(t types.WorkflowTrigger) types.Data {
	out := "{}"
	out, _ = sjson.Set(out, "captured", true)
	out, _ = sjson.Set(out, "trigger_id", string(t.ID))
	out, _ = sjson.Set(out, "type", t.Type)
	out, _ = sjson.Set(out, "source", t.Source)
	out, _ = sjson.Set(out, "priority", string(t.Priority))
	return types.Data(out)
}

// ContextualizePayload serializes the enrichment.
func ContextualizePayload(enr Enrichment) types.Data {
	out := "{}"
	out, _ = sjson.Set(out, "relevance", enr.Relevance)
	out, _ = sjson.Set(out, "interaction_summary", enr.InteractionSummary)
	for i, s := range enr.Snippets {
		out, _ = sjson.Set(out, fmt.Sprintf("snippets.%d.title", i), s.Title)
		out, _ = sjson.Set(out, fmt.Sprintf("snippets.%d.content", i), s.Content)
		out, _ = sjson.Set(out, fmt.Sprintf("snippets.%d.score", i), s.Score)
	}
	return types.Data(out)
}

// PersonalizePayload carries the synthesized response.
func PersonalizePayload(response string, enr Enrichment) types.Data {
	out := "{}"
	out, _ = sjson.Set(out, "response", response)
	out, _ = sjson.Set(out, "relevance", enr.Relevance)
	out, _ = sjson.Set(out, "snippet_count", len(enr.Snippets))
	return types.Data(out)
}

// ComposeResponse builds the deterministic response template used when no
// generator is configured, from the trigger type, enrichment and preference
// hints.
func ComposeResponse(wctx WorkflowContext, enr Enrichment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Handled %s trigger from %s", wctx.Trigger.Type, wctx.Trigger.Source)
	if len(enr.Snippets) > 0 {
		fmt.Fprintf(&b, " with %d relevant references (top: %s)", len(enr.Snippets), enr.Snippets[0].Title)
	}
	fmt.Fprintf(&b, "; relevance %.2f", enr.Relevance)
	if tone := wctx.User.Preferences["tone"]; tone != "" {
		fmt.Fprintf(&b, "; tone %s", tone)
	}
	return b.String()
}

// GeneratorPrompt is the instruction sent to the LLM in the personalize phase.
func GeneratorPrompt(wctx WorkflowContext, enr Enrichment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Respond to a %s trigger from %s (priority %s, relevance %.2f).\n",
		wctx.Trigger.Type, wctx.Trigger.Source, wctx.Trigger.Priority, enr.Relevance)
	fmt.Fprintf(&b, "User profile: %s.\n", wctx.User.ProfileSummary)
	if len(enr.Snippets) > 0 {
		b.WriteString("Context:\n")
		for _, s := range enr.Snippets {
			fmt.Fprintf(&b, "- %s: %s\n", s.Title, s.Content)
		}
	}
	if tone := wctx.User.Preferences["tone"]; tone != "" {
		fmt.Fprintf(&b, "Use a %s tone.\n", tone)
	}
	return b.String()
}
