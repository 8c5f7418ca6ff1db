// Package notify is an in-process event broker. Services publish lifecycle
// events and any number of subscribers (the SSE endpoint, tests) receive
// them. The broker is injected where it is needed; nothing in the
// application reaches for a package-level instance.
package notify

import (
	"sync"
	"time"
)

// Event types published by the services.
const (
	EventMonthFinalized   = "month_finalized"
	EventMonthUnfinalized = "month_unfinalized"
	EventRecalculated     = "budget_recalculated"
	EventFeedbackReceived = "feedback_received"
)

// Event is one notification.
type Event struct {
	Type      string    `json:"type"`
	BudgetID  string    `json:"budget_id,omitempty"`
	MonthKey  string    `json:"month,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// subscriberBuffer is the per-subscriber channel capacity. Publish never
// blocks: events beyond a stalled subscriber's buffer are dropped for that
// subscriber only.
const subscriberBuffer = 16

// Broker fans events out to subscribers.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan Event)}
}

// Publish delivers the event to every current subscriber. A zero CreatedAt
// is stamped with the current time.
func (b *Broker) Publish(event Event) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// removes the subscription and closes the channel; it is safe to call
// more than once.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Close shuts the broker down, closing every subscriber channel. Publish
// and Subscribe become no-ops.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
