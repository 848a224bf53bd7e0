package domain

import (
	"fmt"
	"testing"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTriggerData(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"object", `{"text":"hello"}`, false},
		{"array", `[1,2,3]`, false},
		{"empty object", `{}`, false},
		{"null", `null`, true},
		{"string primitive", `"explain"`, true},
		{"number primitive", `42`, true},
		{"bool primitive", `true`, true},
		{"missing", ``, true},
		{"garbage", `not json`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTriggerData(types.Data(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnstructuredData)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTriggerHistoryBound(t *testing.T) {
	h := NewTriggerHistory()

	for i := 0; i < HistorySize+5; i++ {
		h.Push(types.WorkflowTrigger{ID: types.TriggerID(fmt.Sprintf("t-%d", i))})
	}

	recent := h.Recent()
	require.Len(t, recent, HistorySize)

	// Newest first: the last pushed trigger leads, the oldest five are gone.
	assert.Equal(t, types.TriggerID("t-14"), recent[0].ID)
	assert.Equal(t, types.TriggerID("t-5"), recent[HistorySize-1].ID)
}

func TestTriggerHistoryCopies(t *testing.T) {
	h := NewTriggerHistory()
	h.Push(types.WorkflowTrigger{ID: "a"})

	got := h.Recent()
	got[0].ID = "mutated"

	assert.Equal(t, types.TriggerID("a"), h.Recent()[0].ID)
}
