package events

import (
	"context"
	"encoding/json"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/ports"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/events"
	natsevents "github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/events/nats"
	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/pkg/types"
)

// EventBusImpl adapts the NATS bus to the core port.
type EventBusImpl struct {
	bus *natsevents.NATSBus
}

var _ ports.EventBus = (*EventBusImpl)(nil)

func NewEventBus(bus *natsevents.NATSBus) *EventBusImpl {
	return &EventBusImpl{bus: bus}
}

func (e *EventBusImpl) PublishTrigger(ctx context.Context, event types.TriggerSubmittedEvent) error {
	return e.bus.PublishEvent(ctx, "nexus.trigger.submitted", event)
}

func (e *EventBusImpl) PublishPhase(ctx context.Context, event types.PhaseEvent) error {
	return e.bus.PublishEvent(ctx, "nexus.phase."+string(event.Phase), event)
}

func (e *EventBusImpl) PublishResult(ctx context.Context, event types.ResultEvent) error {
	return e.bus.PublishEvent(ctx, "nexus.result.completed", event)
}

func (e *EventBusImpl) SubscribeTriggers(ctx context.Context, handler ports.TriggerHandler) error {
	_, err := e.bus.Subscribe("nexus.trigger.submitted", func(ctx context.Context, msg events.Message) error {
		var event types.TriggerSubmittedEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			// Poison message: ack it away instead of redelivering forever.
			return msg.Ack()
		}

		if err := handler(ctx, event.Trigger); err != nil {
			return err
		}
		return msg.Ack()
	})
	return err
}

func (e *EventBusImpl) Close() error {
	return e.bus.Close()
}
