// Package realtime delivers fire-and-forget event intents to connected
// clients. Services publish through the Emitter interface; the Hub fans each
// event out to the subscribers of a room without ever blocking the caller.
//
// Rooms follow the naming used by clients:
//
//	user-<id>       private channel of a single user
//	community-<id>  broadcast channel of a community
//
// A subscriber whose buffer is full is dropped (its channel is closed) rather
// than slowing down the publisher. Clients are expected to reconnect.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-social-backend/internal/observability"
)

// Event is one realtime intent as delivered to a subscriber.
type Event struct {
	Name    string    `json:"event"`
	Room    string    `json:"room"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Emitter publishes an event to a room. Implementations must not block and
// must not fail the caller; delivery is best effort.
type Emitter interface {
	Emit(ctx context.Context, room, event string, payload any)
}

// Nop is an Emitter that discards everything.
type Nop struct{}

// Emit implements Emitter.
func (Nop) Emit(context.Context, string, string, any) {}

// UserRoom returns the private room of a user.
func UserRoom(userID string) string { return "user-" + userID }

// CommunityRoom returns the broadcast room of a community.
func CommunityRoom(communityID string) string { return "community-" + communityID }

// Subscriber receives events for the rooms it joined. C is closed when the
// subscriber is removed, either by Unsubscribe or because it fell behind.
type Subscriber struct {
	C <-chan Event

	ch     chan Event
	rooms  []string
	closed bool
}

// Rooms returns the rooms the subscriber joined.
func (s *Subscriber) Rooms() []string {
	out := make([]string, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// Hub is an in-process room registry. The zero value is not usable; call NewHub.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Subscriber]struct{}
	buffer int
	now    func() time.Time
}

// NewHub returns a Hub whose subscribers buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		rooms:  make(map[string]map[*Subscriber]struct{}),
		buffer: buffer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe registers a new subscriber in the given rooms. Duplicate and empty
// room names are ignored.
func (h *Hub) Subscribe(rooms ...string) *Subscriber {
	ch := make(chan Event, h.buffer)
	s := &Subscriber{C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		subs, ok := h.rooms[r]
		if !ok {
			subs = make(map[*Subscriber]struct{})
			h.rooms[r] = subs
		}
		subs[s] = struct{}{}
		s.rooms = append(s.rooms, r)
	}
	observability.RealtimeSubscribers.Inc()
	return s
}

// Unsubscribe removes s from every room and closes its channel. Calling it
// more than once is safe.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

func (h *Hub) removeLocked(s *Subscriber) {
	if s.closed {
		return
	}
	for _, r := range s.rooms {
		if subs, ok := h.rooms[r]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(h.rooms, r)
			}
		}
	}
	s.closed = true
	close(s.ch)
	observability.RealtimeSubscribers.Dec()
}

// Emit delivers an event to every subscriber of room. It never blocks:
// subscribers whose buffer is full are dropped after the fan-out.
func (h *Hub) Emit(ctx context.Context, room, event string, payload any) {
	ev := Event{Name: event, Room: room, Payload: payload, At: h.now()}

	var slow []*Subscriber
	h.mu.RLock()
	for s := range h.rooms[room] {
		select {
		case s.ch <- ev:
			observability.RealtimeEvents.WithLabelValues(event, "delivered").Inc()
		default:
			observability.RealtimeEvents.WithLabelValues(event, "dropped").Inc()
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, s := range slow {
		h.removeLocked(s)
	}
	h.mu.Unlock()
	zerolog.Ctx(ctx).Warn().
		Str("room", room).
		Str("event", event).
		Int("dropped", len(slow)).
		Msg("realtime subscribers dropped")
}

// RoomSize returns the number of subscribers currently in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
