package events

import (
	"context"
	"errors"
	"sync"
	"time"
)

type EventType string

const (
	EventStatementExecuted EventType = "statement_executed"
	EventStatementFailed   EventType = "statement_failed"
)

// Event describes one top-level statement handled by a session.
type Event struct {
	Type      EventType
	SessionID string
	Source    string
	Line      int
	Duration  time.Duration
	Err       error
	Timestamp time.Time
}

type Handler func(ctx context.Context, event Event) error

// Bus delivers events synchronously, in subscription order, on the
// publishing goroutine.
type Bus struct {
	handlers map[EventType][]Handler
	mu       sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish calls every handler subscribed to event.Type. All handlers run even
// when one fails; their errors are joined.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
