package sync

import (
	stdsync "sync"

	"github.com/rs/zerolog"
)

// Hub fans change notifications out to in-process subscribers. Each
// subscriber gets its own buffered queue and pump goroutine, so one slow
// consumer cannot stall delivery to the rest; a full queue drops events,
// which the at-least-once contract permits because every subscriber
// reconciles against the store after a resync announcement.
type Hub struct {
	mu     stdsync.Mutex
	nextID uint64
	subs   map[uint64]*Subscription
	logger zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[uint64]*Subscription),
		logger: logger.With().Str("component", "sync_hub").Logger(),
	}
}

type message struct {
	event  Event
	resync bool
}

// Subscription is one registered observer. Dispose deregisters it and
// blocks until any in-flight callback has returned; no callback runs after
// Dispose returns.
type Subscription struct {
	hub      *Hub
	id       uint64
	family   Family
	onChange func(Event)
	onResync func()
	queue    chan message
	done     chan struct{}
}

// subscription queue depth; sized for bursts of order updates, not backlog.
const queueDepth = 64

// Subscribe registers onChange for every mutation event on the given
// family.
func (h *Hub) Subscribe(family Family, onChange func(Event)) *Subscription {
	return h.SubscribeWithResync(family, onChange, nil)
}

// SubscribeWithResync additionally registers onResync, invoked whenever the
// underlying transport (re)establishes its session. Subscribers use it to
// run a full reconciliation fetch covering any notifications missed while
// the transport was down.
func (h *Hub) SubscribeWithResync(family Family, onChange func(Event), onResync func()) *Subscription {
	sub := &Subscription{
		hub:      h,
		family:   family,
		onChange: onChange,
		onResync: onResync,
		queue:    make(chan message, queueDepth),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	h.nextID++
	sub.id = h.nextID
	h.subs[sub.id] = sub
	h.mu.Unlock()

	go sub.pump()
	return sub
}

func (s *Subscription) pump() {
	defer close(s.done)
	for msg := range s.queue {
		if msg.resync {
			if s.onResync != nil {
				s.onResync()
			}
			continue
		}
		s.onChange(msg.event)
	}
}

// Dispose deregisters the subscription and waits for its pump to finish.
// It is safe to call at any time, including while a notification is being
// delivered, and safe to call more than once.
func (s *Subscription) Dispose() {
	s.hub.mu.Lock()
	_, registered := s.hub.subs[s.id]
	if registered {
		delete(s.hub.subs, s.id)
		close(s.queue)
	}
	s.hub.mu.Unlock()

	<-s.done
}

// Publish delivers an event to every subscription registered for its
// family. Delivery to a subscriber with a full queue is dropped.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if sub.family != ev.Family {
			continue
		}
		select {
		case sub.queue <- message{event: ev}:
		default:
			h.logger.Warn().
				Str("family", string(ev.Family)).
				Str("record_id", ev.RecordID).
				Msg("subscriber queue full, dropping event")
		}
	}
}

// AnnounceResync tells every subscriber, regardless of family, that the
// transport session was (re)established and a reconciliation fetch is due.
func (h *Hub) AnnounceResync() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		select {
		case sub.queue <- message{resync: true}:
		default:
			h.logger.Warn().Msg("subscriber queue full, dropping resync signal")
		}
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
