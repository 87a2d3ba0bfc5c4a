package session

import (
	"sync"
	"time"
)

// DefaultNotificationTTL is how long a notification stays visible
const DefaultNotificationTTL = 3500 * time.Millisecond

// Notifications is a single-slot ephemeral toast. A burst of messages
// collapses to the most recent one; each Show supersedes any outstanding
// dismissal timer.
type Notifications struct {
	mu      sync.Mutex
	ttl     time.Duration
	message string
	timer   *time.Timer
	gen     uint64
}

// NewNotifications returns a notification slot with the given display
// duration. A ttl <= 0 uses the default.
func NewNotifications(ttl time.Duration) *Notifications {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}

	return &Notifications{ttl: ttl}
}

// Show replaces the displayed message and restarts the dismissal timer
func (n *Notifications) Show(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}

	n.gen++
	gen := n.gen
	n.message = message
	n.timer = time.AfterFunc(n.ttl, func() {
		n.expire(gen)
	})
}

// Current returns the visible message, or "" if none is live
func (n *Notifications) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.message
}

func (n *Notifications) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	// a newer Show superseded this timer
	if gen != n.gen {
		return
	}

	n.message = ""
	n.timer = nil
}
