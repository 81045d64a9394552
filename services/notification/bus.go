package notification

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type registration struct {
	id      uint64
	handler Handler
}

// DefaultBus is the in-process implementation. Delivery is synchronous, on
// the publisher's goroutine, in subscription order.
type DefaultBus struct {
	mu     sync.RWMutex
	nextID uint64
	table  map[Topic][]registration
	logger *zap.Logger
}

func NewDefaultBus(logger *zap.Logger) *DefaultBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBus{
		table:  make(map[Topic][]registration),
		logger: logger,
	}
}

func (b *DefaultBus) Subscribe(topic Topic, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.table[topic] = append(b.table[topic], registration{id: b.nextID, handler: handler})
	return &subscription{bus: b, topic: topic, id: b.nextID}
}

// Publish calls every handler registered for topic. The first handler error
// stops delivery and is returned; later handlers are not called.
func (b *DefaultBus) Publish(topic Topic) error {
	b.mu.RLock()
	regs := make([]registration, len(b.table[topic]))
	copy(regs, b.table[topic])
	b.mu.RUnlock()

	for i, r := range regs {
		if err := r.handler(topic); err != nil {
			b.logger.Warn("Notification handler failed",
				zap.String("topic", string(topic)),
				zap.Int("handler", i),
				zap.Error(err))
			return fmt.Errorf("Publish %s: handler %d: %w", topic, i, err)
		}
	}
	return nil
}

// SubscriberCount reports how many handlers are registered for topic.
func (b *DefaultBus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.table[topic])
}

func (b *DefaultBus) unsubscribe(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.table[topic]
	for i, r := range regs {
		if r.id == id {
			b.table[topic] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.table[topic]) == 0 {
		delete(b.table, topic)
	}
}

type subscription struct {
	once  sync.Once
	bus   *DefaultBus
	topic Topic
	id    uint64
}

// Cancel is idempotent.
func (s *subscription) Cancel() {
	s.once.Do(func() { s.bus.unsubscribe(s.topic, s.id) })
}
