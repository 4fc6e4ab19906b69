package app

import (
	"sync"
	"time"
)

// AccuracySnapshot is pushed to live subscribers whenever a user's ledger
// changes.
type AccuracySnapshot struct {
	UserID    string          `json:"userId"`
	Rates     map[int]float64 `json:"rates"`
	Total     int             `json:"total"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// statsHub fans accuracy snapshots out to per-user subscriber channels.
type statsHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan AccuracySnapshot]struct{}
}

func newStatsHub() *statsHub {
	return &statsHub{subscribers: make(map[string]map[chan AccuracySnapshot]struct{})}
}

// subscribe registers a channel for one user's snapshots, primed with the
// current state. The caller must invoke the returned cancel function to
// avoid leaks.
func (h *statsHub) subscribe(userID string, initial AccuracySnapshot) (<-chan AccuracySnapshot, func()) {
	ch := make(chan AccuracySnapshot, 8)

	h.mu.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan AccuracySnapshot]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}
	h.mu.Unlock()

	ch <- initial

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subscribers[userID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subscribers, userID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// publish delivers a snapshot to every subscriber of the user. Slow clients
// have their stale update dropped rather than blocking the publisher.
func (h *statsHub) publish(snapshot AccuracySnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[snapshot.UserID] {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}
