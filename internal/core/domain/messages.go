package domain

import (
	"sync"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/google/uuid"
)

// MessageLog is the append-only session log. Insertion order is causal order;
// entries are never mutated or removed.
type MessageLog struct {
	mu       sync.Mutex
	messages []types.Message
}

func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

func (l *MessageLog) Append(msg types.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

// All returns a copy in insertion order.
func (l *MessageLog) All() []types.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// From returns messages sent by the given agent, in insertion order.
func (l *MessageLog) From(id types.AgentID) []types.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []types.Message
	for _, m := range l.messages {
		if m.From == id {
			out = append(out, m)
		}
	}
	return out
}

func NewDirectMessage(from, to types.AgentID, text string) types.Message {
	return types.Message{
		ID:        uuid.New().String(),
		From:      from,
		To:        to,
		Kind:      types.KindDirect,
		CreatedAt: time.Now(),
		Direct:    &types.DirectPayload{Text: text},
	}
}

func NewTransitionMessage(from, to types.AgentID, triggerID types.TriggerID, phase types.Phase) types.Message {
	return types.Message{
		ID:         uuid.New().String(),
		From:       from,
		To:         to,
		Kind:       types.KindPhaseTransition,
		CreatedAt:  time.Now(),
		Transition: &types.PhaseTransitionPayload{TriggerID: triggerID, Phase: phase},
	}
}

func NewRequestMessage(from, to types.AgentID, t types.WorkflowTrigger) types.Message {
	return types.Message{
		ID:        uuid.New().String(),
		From:      from,
		To:        to,
		Kind:      types.KindWorkflowRequest,
		CreatedAt: time.Now(),
		Request:   &types.WorkflowRequestPayload{TriggerID: t.ID, Type: t.Type, Source: t.Source},
	}
}

func NewCompleteMessage(from, to types.AgentID, triggerID types.TriggerID, result types.WorkflowResult, response string) types.Message {
	return types.Message{
		ID:        uuid.New().String(),
		From:      from,
		To:        to,
		Kind:      types.KindWorkflowComplete,
		CreatedAt: time.Now(),
		Complete: &types.WorkflowCompletePayload{
			TriggerID:  triggerID,
			Success:    result.Success,
			Response:   response,
			Confidence: result.Confidence,
			Elapsed:    result.Elapsed,
		},
	}
}
