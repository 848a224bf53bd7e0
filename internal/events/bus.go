package events

import (
	"context"
	"time"
)

// Bus abstracts the event queue.
type Bus interface {
	Publish(ctx context.Context, subject string, payload []byte) error
	PublishEvent(ctx context.Context, subject string, event interface{}) error

	// Push subscription (callback)
	Subscribe(subject string, handler Handler) (Subscription, error)

	// Streams
	CreateStream(cfg StreamConfig) error
	DeleteStream(name string) error

	Close() error
}

// Handler processes messages. Returning an error withholds the ack so the
// message is redelivered.
type Handler func(ctx context.Context, msg Message) error

type Message interface {
	Data() []byte
	Subject() string
	Ack() error
	Nak(delay ...time.Duration) error
}

type Subscription interface {
	Unsubscribe() error
}

type StreamConfig struct {
	Name      string
	Subjects  []string
	Retention RetentionPolicy
	MaxMsgs   int64
	MaxAge    time.Duration
	Storage   StorageType
}

type RetentionPolicy int

const (
	RetentionLimits RetentionPolicy = iota
	RetentionInterest
	RetentionWorkQueue
)

type StorageType int

const (
	StorageFile StorageType = iota
	StorageMemory
)
