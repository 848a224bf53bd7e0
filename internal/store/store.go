package store

import (
	"context"
	"errors"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

var ErrTruthFileNotFound = errors.New("truth file not found")

// TruthStore is the persistence collaborator. It holds agent truth files,
// the mirrored recent-trigger ring and durable stat counters; the
// orchestrator core itself keeps no durable state.
type TruthStore interface {
	// Truth files
	SaveTruthFile(ctx context.Context, tf *types.TruthFile) error
	GetTruthFile(ctx context.Context, agentID types.AgentID) (*types.TruthFile, error)
	ListTruthAgents(ctx context.Context) ([]types.AgentID, error)

	// Recent-trigger mirror
	PushRecentTrigger(ctx context.Context, trigger types.WorkflowTrigger) error
	RecentTriggers(ctx context.Context) ([]types.WorkflowTrigger, error)

	// Durable counters
	IncrCounter(ctx context.Context, name string) error
	Counters(ctx context.Context) (map[string]int64, error)

	Close() error
}
