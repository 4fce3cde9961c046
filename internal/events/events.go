// Package events carries storage-change notifications from the components
// that write storage to the views that display it.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Change reports that a storage key was rewritten. Count is the number of
// entries stored under the key after the write.
type Change struct {
	Key    string    `json:"key"`
	Count  int       `json:"count"`
	Origin string    `json:"origin,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher is implemented by anything that accepts change notifications.
type Publisher interface {
	Publish(c Change)
}

// NopPublisher discards every change.
type NopPublisher struct{}

func (NopPublisher) Publish(Change) {}

type originKey struct{}

// WithOrigin tags ctx with the id of the view issuing a write, so that view
// is not notified about its own change.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFrom returns the origin stored by WithOrigin, or "".
func OriginFrom(ctx context.Context) string {
	if v, ok := ctx.Value(originKey{}).(string); ok {
		return v
	}
	return ""
}

// Subscription is one listener on a Bus.
type Subscription struct {
	ID     string
	Origin string
	C      <-chan Change

	ch   chan Change
	once sync.Once
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.ch) })
}

// Bus fans changes out to subscribers. Delivery is non-blocking: a
// subscriber whose buffer is full misses the change.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	buffer int
	closed bool
	logger *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[string]*Subscription),
		buffer: 16,
		logger: logger,
	}
}

// Subscribe registers a listener. Changes published with the same origin are
// not delivered to it. An empty origin receives everything.
func (b *Bus) Subscribe(origin string) *Subscription {
	ch := make(chan Change, b.buffer)
	sub := &Subscription{
		ID:     uuid.NewString(),
		Origin: origin,
		C:      ch,
		ch:     ch,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.close()
		return sub
	}
	b.subs[sub.ID] = sub
	return sub
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()

	if ok {
		sub.close()
	}
}

func (b *Bus) Publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if c.Origin != "" && sub.Origin == c.Origin {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			b.logger.Warn("dropped change for slow subscriber",
				zap.String("subscriber", sub.ID),
				zap.String("key", c.Key))
		}
	}
}

// Len reports the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		sub.close()
		delete(b.subs, id)
	}
}
