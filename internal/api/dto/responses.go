package dto

import (
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

type SubmitTriggerResponse struct {
	TriggerID types.TriggerID       `json:"trigger_id"`
	Status    string                `json:"status"` // accepted | completed | failed
	Result    *types.WorkflowResult `json:"result,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

type StatsResponse struct {
	types.WorkflowStats
	DurableCounters map[string]int64 `json:"durable_counters,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
