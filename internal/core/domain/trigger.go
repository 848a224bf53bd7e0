package domain

import (
	"errors"
	"sync"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/tidwall/gjson"
)

// ErrUnstructuredData rejects triggers whose payload is null, absent or a
// bare primitive. The monitor phase only captures structured values.
var ErrUnstructuredData = errors.New("trigger data must be a structured value")

// ValidateTriggerData accepts JSON objects and arrays only.
func ValidateTriggerData(data types.Data) error {
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return ErrUnstructuredData
	}
	parsed := gjson.ParseBytes(data)
	if parsed.IsObject() || parsed.IsArray() {
		return nil
	}
	return ErrUnstructuredData
}

// HistorySize bounds the recent-trigger ring.
const HistorySize = 10

// TriggerHistory keeps the last HistorySize triggers, newest first.
type TriggerHistory struct {
	mu      sync.Mutex
	entries []types.WorkflowTrigger
}

func NewTriggerHistory() *TriggerHistory {
	return &TriggerHistory{entries: make([]types.WorkflowTrigger, 0, HistorySize)}
}

// Push prepends the trigger, evicting the oldest entry beyond the bound.
func (h *TriggerHistory) Push(t types.WorkflowTrigger) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]types.WorkflowTrigger{t}, h.entries...)
	if len(h.entries) > HistorySize {
		h.entries = h.entries[:HistorySize]
	}
}

// Recent returns a copy, newest first.
func (h *TriggerHistory) Recent() []types.WorkflowTrigger {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]types.WorkflowTrigger, len(h.entries))
	copy(out, h.entries)
	return out
}
