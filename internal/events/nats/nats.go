package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/events"
	"github.com/nats-io/nats.go"
)

type NATSBus struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

var _ events.Bus = (*NATSBus)(nil)

type Config struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

func New(cfg Config) (*NATSBus, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Name("nexus-bus"),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connection failed: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream init failed: %w", err)
	}

	return &NATSBus{conn: conn, js: js}, nil
}

// CreateStream creates the stream if it does not exist yet.
func (n *NATSBus) CreateStream(cfg events.StreamConfig) error {
	storage := nats.FileStorage
	if cfg.Storage == events.StorageMemory {
		storage = nats.MemoryStorage
	}

	retention := nats.LimitsPolicy
	switch cfg.Retention {
	case events.RetentionInterest:
		retention = nats.InterestPolicy
	case events.RetentionWorkQueue:
		retention = nats.WorkQueuePolicy
	}

	_, err := n.js.AddStream(&nats.StreamConfig{
		Name:      cfg.Name,
		Subjects:  cfg.Subjects,
		Retention: retention,
		MaxMsgs:   cfg.MaxMsgs,
		MaxAge:    cfg.MaxAge,
		Storage:   storage,
	})

	if err == nats.ErrStreamNameAlreadyInUse {
		return nil
	}

	return err
}

// SetupNexusStreams creates the default stream set.
func (n *NATSBus) SetupNexusStreams() error {
	// Triggers: consumed once by a pipeline worker
	if err := n.CreateStream(events.StreamConfig{
		Name:      "NEXUS_TRIGGERS",
		Subjects:  []string{"nexus.trigger.>"},
		Retention: events.RetentionWorkQueue,
		MaxMsgs:   10000,
		MaxAge:    24 * time.Hour,
		Storage:   events.StorageFile,
	}); err != nil {
		return fmt.Errorf("triggers stream: %w", err)
	}

	// Phase transitions: fan out to dashboards
	if err := n.CreateStream(events.StreamConfig{
		Name:      "NEXUS_PHASES",
		Subjects:  []string{"nexus.phase.>"},
		Retention: events.RetentionLimits,
		MaxMsgs:   100000,
		MaxAge:    24 * time.Hour,
		Storage:   events.StorageMemory,
	}); err != nil {
		return fmt.Errorf("phases stream: %w", err)
	}

	// Terminal results: kept for history
	if err := n.CreateStream(events.StreamConfig{
		Name:      "NEXUS_RESULTS",
		Subjects:  []string{"nexus.result.>"},
		Retention: events.RetentionLimits,
		MaxMsgs:   1000000,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   events.StorageFile,
	}); err != nil {
		return fmt.Errorf("results stream: %w", err)
	}

	return nil
}

// Publish sends a raw message.
func (n *NATSBus) Publish(ctx context.Context, subject string, payload []byte) error {
	_, err := n.js.Publish(subject, payload)
	return err
}

// PublishEvent serializes and sends.
func (n *NATSBus) PublishEvent(ctx context.Context, subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.Publish(ctx, subject, data)
}

// Subscribe registers a push handler with a durable consumer derived from the
// subject. No ack on handler error means automatic redelivery.
func (n *NATSBus) Subscribe(subject string, handler events.Handler) (events.Subscription, error) {
	callback := func(msg *nats.Msg) {
		wrapped := &natsMessage{msg: msg}
		if err := handler(context.Background(), wrapped); err != nil {
			return
		}
	}

	sub, err := n.js.Subscribe(subject, callback, nats.Durable(durableFromSubject(subject)), nats.ManualAck())
	if err != nil {
		return nil, err
	}
	return &natsSubscription{sub: sub}, nil
}

func durableFromSubject(subject string) string {
	var b strings.Builder
	b.Grow(len(subject))
	for _, r := range subject {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// DeleteStream removes a stream.
func (n *NATSBus) DeleteStream(name string) error {
	return n.js.DeleteStream(name)
}

// Close shuts the connection down.
func (n *NATSBus) Close() error {
	n.conn.Close()
	return nil
}

type natsMessage struct {
	msg *nats.Msg
}

func (m *natsMessage) Data() []byte {
	return m.msg.Data
}

func (m *natsMessage) Subject() string {
	return m.msg.Subject
}

func (m *natsMessage) Ack() error {
	return m.msg.Ack()
}

func (m *natsMessage) Nak(delay ...time.Duration) error {
	if len(delay) > 0 {
		return m.msg.NakWithDelay(delay[0])
	}
	return m.msg.Nak()
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (s *natsSubscription) Unsubscribe() error {
	return s.sub.Unsubscribe()
}
