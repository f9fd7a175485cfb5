// Package cooldown rate-limits successful searches per user. The state is
// process-local and deliberately not persisted: it is an abuse heuristic,
// not a security boundary, and resets to empty on restart.
package cooldown

import (
	"sync"
	"time"
)

// Gate tracks the timestamp of each user's last successful search.
type Gate struct {
	mu       sync.Mutex
	duration time.Duration
	last     map[int64]time.Time

	now func() time.Time // overridable for tests
}

// NewGate creates a gate with the given minimum interval between successful
// searches.
func NewGate(duration time.Duration) *Gate {
	return &Gate{
		duration: duration,
		last:     make(map[int64]time.Time),
		now:      time.Now,
	}
}

// Check reports whether the user may search now. When denied, remaining is
// the time left until the cooldown expires. There is no explicit reset
// transition: the cooldown lapses purely by elapsed wall-clock time.
func (g *Gate) Check(userID int64) (allowed bool, remaining time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	last, ok := g.last[userID]
	if !ok {
		return true, 0
	}
	remaining = g.duration - g.now().Sub(last)
	if remaining <= 0 {
		return true, 0
	}
	return false, remaining
}

// MarkSuccess starts the user's cooldown. Called only for searches that
// yielded at least one new line; denied and empty searches do not reset the
// timer.
func (g *Gate) MarkSuccess(userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last[userID] = g.now()
}
