package ports

import "context"

// ChatMessage is one role-tagged message sent to the text-generation service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage token counters reported by the service, when available.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Generation is the service's reply.
type Generation struct {
	Content      string `json:"content"`
	Usage        *Usage `json:"usage,omitempty"`
	Model        string `json:"model"`
	FinishReason string `json:"finish_reason"`
}

// Generator is the LLM text-generation contract. Failures must be caught by
// callers and surfaced as phase- or routing-level errors, never as a crash.
type Generator interface {
	Generate(ctx context.Context, messages []ChatMessage) (*Generation, error)
}
