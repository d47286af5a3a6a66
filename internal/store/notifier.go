package store

import "sync"

// Change identifies a committed write. ID is zero for writes that touch an
// unknown set of rows (bulk deletes).
type Change struct {
	Table string `json:"table"`
	ID    int64  `json:"id,omitempty"`
}

// Notifier fans committed writes out to live subscribers in commit order.
// Reads that must stay fresh subscribe here instead of polling.
type Notifier struct {
	mu     sync.Mutex
	subs   map[int]chan Change
	nextID int
	closed bool
}

func newNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan Change)}
}

// Subscribe registers a listener for every subsequent change. The returned
// cancel func must be called on teardown; after cancel the channel is closed.
func (n *Notifier) Subscribe() (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	ch := make(chan Change, 64)
	if n.closed {
		close(ch)
		return ch, func() {}
	}
	n.subs[id] = ch
	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if c, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// publish delivers c to every subscriber. A subscriber that stopped
// draining loses events rather than blocking writers.
func (n *Notifier) publish(c Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

func (n *Notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
