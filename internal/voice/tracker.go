package voice

import (
	"sync"
	"time"
)

// Tracker records the latest status of each call and fans transitions out to
// subscribers. Subscriber channels are buffered; slow consumers drop updates
// rather than block the worker.
type Tracker struct {
	mu     sync.RWMutex
	latest map[string]StatusUpdate
	subs   map[string]map[chan StatusUpdate]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		latest: make(map[string]StatusUpdate),
		subs:   make(map[string]map[chan StatusUpdate]struct{}),
	}
}

// Set records a transition and notifies subscribers of the call.
func (t *Tracker) Set(callID, status, detail string) StatusUpdate {
	update := StatusUpdate{
		CallID:    callID,
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}

	t.mu.Lock()
	t.latest[callID] = update
	for ch := range t.subs[callID] {
		select {
		case ch <- update:
		default:
		}
	}
	t.mu.Unlock()
	return update
}

// Latest returns the most recent status for a call, if any.
func (t *Tracker) Latest(callID string) (StatusUpdate, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	u, ok := t.latest[callID]
	return u, ok
}

// Subscribe registers for transitions of a call. The returned cancel func must
// be called to release the subscription.
func (t *Tracker) Subscribe(callID string) (<-chan StatusUpdate, func()) {
	ch := make(chan StatusUpdate, 8)

	t.mu.Lock()
	if t.subs[callID] == nil {
		t.subs[callID] = make(map[chan StatusUpdate]struct{})
	}
	t.subs[callID][ch] = struct{}{}
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		if set, ok := t.subs[callID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(t.subs, callID)
			}
		}
		t.mu.Unlock()
	}
	return ch, cancel
}
