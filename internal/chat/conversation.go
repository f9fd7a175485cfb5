package chat

import (
	"sync"
	"time"
)

// Conversation states. The only multi-turn flow is the search prompt: the
// bot asks for a keyword and the user's next plain message answers it.
// States expire after a TTL so a half-finished prompt cannot leak forever.
type convState int

const (
	stateIdle convState = iota
	stateAwaitingKeyword
)

type conversation struct {
	state convState
	since time.Time
}

// Tracker is the per-user conversation state machine.
type Tracker struct {
	mu    sync.Mutex
	ttl   time.Duration
	users map[int64]conversation

	now func() time.Time // overridable for tests
}

// NewTracker creates a tracker whose AwaitingKeyword states expire after ttl.
func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		ttl:   ttl,
		users: make(map[int64]conversation),
		now:   time.Now,
	}
}

// AwaitKeyword moves the user into AwaitingKeyword, restarting the TTL.
func (t *Tracker) AwaitKeyword(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.users[userID] = conversation{state: stateAwaitingKeyword, since: t.now()}
}

// ClaimKeyword consumes an unexpired AwaitingKeyword state. Returns true
// exactly once per prompt: the state transitions back to Idle whether or not
// it had expired.
func (t *Tracker) ClaimKeyword(userID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	conv, ok := t.users[userID]
	if !ok || conv.state != stateAwaitingKeyword {
		return false
	}
	delete(t.users, userID)
	return t.now().Sub(conv.since) <= t.ttl
}

// Reap drops all expired states. Called periodically by a background job.
func (t *Tracker) Reap() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.ttl)
	reaped := 0
	for userID, conv := range t.users {
		if conv.since.Before(cutoff) {
			delete(t.users, userID)
			reaped++
		}
	}
	return reaped
}

// Pending returns the number of users currently awaiting a keyword prompt.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.users)
}
