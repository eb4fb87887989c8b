package chat

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cooltech/fridgebot/core"
)

const (
	// DefaultMaxTurns bounds the per-session transcript; the oldest turn
	// is evicted beyond it.
	DefaultMaxTurns = 20

	// DefaultSessionTTL is how long a session may sit idle before it
	// expires.
	DefaultSessionTTL = 30 * time.Minute
)

// session holds the transcript of one conversation. The mutex serializes
// turns: transcript order is the order turns were admitted, not the order
// their generations completed. lastActive is atomic because admission reads
// it under the orchestrator lock while finished turns write it under the
// session lock.
type session struct {
	mu         sync.Mutex
	turns      []core.Turn
	lastActive atomic.Int64 // unix nanoseconds
}

// touch records activity at t.
func (s *session) touch(t time.Time) {
	s.lastActive.Store(t.UnixNano())
}

// idleSince reports how long the session has been idle as of t.
func (s *session) idleSince(t time.Time) time.Duration {
	return time.Duration(t.UnixNano() - s.lastActive.Load())
}

// append records a finished turn, evicting the oldest beyond the cap.
// Caller holds the session mutex.
func (s *session) append(turn core.Turn, maxTurns int) {
	s.turns = append(s.turns, turn)
	if len(s.turns) > maxTurns {
		s.turns = s.turns[len(s.turns)-maxTurns:]
	}
}

// snapshot copies the transcript. Caller holds the session mutex.
func (s *session) snapshot() []core.Turn {
	out := make([]core.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}
