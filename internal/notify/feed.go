// Package notify is the notification surface of a page visit.
package notify

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/authentiq/portal/internal/models"
)

// MaxPending bounds the queue of undrained notifications. The oldest entry
// is dropped when a new one would exceed it.
const MaxPending = 50

// EventType discriminates feed events.
type EventType string

const (
	EventNotification EventType = "notification"
	EventState        EventType = "state"
)

// Event is delivered to feed subscribers.
type Event struct {
	Type         EventType            `json:"type"`
	Notification *models.Notification `json:"notification,omitempty"`
	State        models.DeskState     `json:"state,omitempty"`
	At           time.Time            `json:"at"`
}

// Hook observes every published notification.
type Hook func(n models.Notification)

// Feed buffers notifications until drained and fans events out to live
// subscribers. Slow subscribers miss events rather than block publishers.
type Feed struct {
	mu      sync.Mutex
	pending []models.Notification
	subs    map[int]chan Event
	nextSub int
	closed  bool
	hook    Hook
	clock   clockwork.Clock
}

// NewFeed creates an empty feed stamping events with clock. A nil clock
// selects the real one; hook may be nil.
func NewFeed(clock clockwork.Clock, hook Hook) *Feed {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Feed{
		pending: make([]models.Notification, 0),
		subs:    make(map[int]chan Event),
		hook:    hook,
		clock:   clock,
	}
}

// Publish queues a notification and forwards it to subscribers.
func (f *Feed) Publish(n models.Notification) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	if len(f.pending) >= MaxPending {
		f.pending = append(f.pending[:0], f.pending[len(f.pending)-MaxPending+1:]...)
	}
	f.pending = append(f.pending, n)
	f.broadcastLocked(Event{Type: EventNotification, Notification: &n, At: f.clock.Now()})
	f.mu.Unlock()

	if f.hook != nil {
		f.hook(n)
	}
}

// PublishState forwards a desk state change to subscribers. State changes
// are not queued.
func (f *Feed) PublishState(state models.DeskState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.broadcastLocked(Event{Type: EventState, State: state, At: f.clock.Now()})
}

func (f *Feed) broadcastLocked(ev Event) {
	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Pending returns the queued notifications without removing them.
func (f *Feed) Pending() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Notification, len(f.pending))
	copy(out, f.pending)
	return out
}

// Drain returns the queued notifications oldest first and empties the queue.
func (f *Feed) Drain() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.pending
	f.pending = make([]models.Notification, 0)
	return out
}

// Subscribe registers a listener. The returned cancel func is idempotent.
func (f *Feed) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := f.nextSub
	f.nextSub++
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if sub, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(sub)
			}
		})
	}
}

// Close disconnects all subscribers. Later publishes are dropped.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
