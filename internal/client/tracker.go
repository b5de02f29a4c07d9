package client

import (
	"context"
	"sync"
)

// Tracker keeps at most one live request per key. Starting a new request
// for a key cancels the previous one, and its Ticket stops being current so
// a late response can be dropped.
type Tracker struct {
	mu      sync.Mutex
	seq     map[string]uint64
	cancels map[string]context.CancelFunc
}

func NewTracker() *Tracker {
	return &Tracker{seq: make(map[string]uint64), cancels: make(map[string]context.CancelFunc)}
}

type Ticket struct {
	tracker *Tracker
	key     string
	n       uint64
}

func (t *Tracker) Begin(ctx context.Context, key string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.cancels[key]; ok {
		prev()
	}
	t.seq[key]++
	t.cancels[key] = cancel
	return ctx, Ticket{tracker: t, key: key, n: t.seq[key]}
}

// Current reports whether no newer request for the key has started.
func (tk Ticket) Current() bool {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()
	return tk.tracker.seq[tk.key] == tk.n
}

// Done releases the ticket's context. Superseded tickets were already
// cancelled by Begin.
func (tk Ticket) Done() {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()
	if tk.tracker.seq[tk.key] != tk.n {
		return
	}
	if cancel, ok := tk.tracker.cancels[tk.key]; ok {
		cancel()
		delete(tk.tracker.cancels, tk.key)
	}
}
