// Package notify fans session events out to websocket listeners.
package notify

import (
	"sync"

	"NameMyChild/internal/models"
)

const (
	EventSignedIn  = "SIGNED_IN"
	EventSignedOut = "SIGNED_OUT"
)

// Event is the JSON frame pushed on /ws/session.
type Event struct {
	Type        string       `json:"event"`
	AccessToken string       `json:"access_token,omitempty"`
	User        *models.User `json:"user,omitempty"`
}

func RequestKey(requestID string) string { return "request:" + requestID }

func SessionKey(sessionID string) string { return "session:" + sessionID }

const bufferSize = 4

// Hub is safe for concurrent use. Publish never blocks: a listener whose
// buffer is full misses the event.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe returns a channel of events for key and a cancel func that
// unregisters and closes it. Cancel may be called more than once.
func (h *Hub) Subscribe(key string) (<-chan Event, func()) {
	ch := make(chan Event, bufferSize)

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan Event]struct{})
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[key], ch)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish returns how many listeners received the event.
func (h *Hub) Publish(key string, ev Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for ch := range h.subs[key] {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) Listeners(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key])
}
