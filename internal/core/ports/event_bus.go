package ports

import (
	"context"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

// EventBus is the narrow messaging surface the core depends on.
// Implemented over NATS in the adapters layer.
type EventBus interface {
	PublishTrigger(ctx context.Context, event types.TriggerSubmittedEvent) error
	PublishPhase(ctx context.Context, event types.PhaseEvent) error
	PublishResult(ctx context.Context, event types.ResultEvent) error

	SubscribeTriggers(ctx context.Context, handler TriggerHandler) error

	Close() error
}

type TriggerHandler func(ctx context.Context, trigger types.WorkflowTrigger) error
