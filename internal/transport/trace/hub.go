package trace

import (
	"encoding/json"
	"sync"

	"gridvale.ai/internal/sim/behavior"
)

// Hub fans firing records out to subscribed trace sessions. Publishing
// never blocks the tick loop: a session that cannot keep up loses
// records.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*subscription
}

type subscription struct {
	out chan []byte

	// names filters firings by handler/event name; empty means all.
	names map[string]bool
}

func NewHub() *Hub {
	return &Hub{subs: map[uint64]*subscription{}}
}

func (h *Hub) Publish(rec behavior.FiringRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.subs) == 0 {
		return
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	for _, sub := range h.subs {
		if len(sub.names) > 0 && !sub.names[rec.Name] {
			continue
		}
		select {
		case sub.out <- b:
		default:
		}
	}
}

func (h *Hub) subscribe(names []string) (uint64, chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	sub := &subscription{out: make(chan []byte, 4096)}
	if len(names) > 0 {
		sub.names = make(map[string]bool, len(names))
		for _, n := range names {
			sub.names[n] = true
		}
	}
	h.subs[h.nextID] = sub
	return h.nextID, sub.out
}

func (h *Hub) setFilter(id uint64, names []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub, ok := h.subs[id]
	if !ok {
		return
	}
	sub.names = nil
	if len(names) > 0 {
		sub.names = make(map[string]bool, len(names))
		for _, n := range names {
			sub.names[n] = true
		}
	}
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}
