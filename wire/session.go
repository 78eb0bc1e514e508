package wire

import (
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/ShikharGupta-75/Video-Call-translator/etc"
)

// Role says which side of the connection this process is.
type Role int

const (
	RoleHost Role = iota
	RoleClient
)

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "client"
}

// State is the lifecycle of a session. It only ever moves forward:
// Idle, Connecting, Connected, Closed.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Session tracks one peer connection attempt from idle to closed. The
// transport owns all writes; everyone else may poll State.
type Session struct {
	ID    string
	Role  Role
	state atomic.Int32
	log   *log.Logger
}

func newSession(role Role, logger *log.Logger) *Session {
	s := &Session{
		ID:   etc.NewFreshID(),
		Role: role,
		log:  logger,
	}
	s.state.Store(int32(StateIdle))
	return s
}

func (s *Session) State() State {
	return State(s.state.Load())
}

// advance moves the session forward. Backward moves are ignored so a
// late Close cannot resurrect a finished session.
func (s *Session) advance(next State) {
	for {
		cur := State(s.state.Load())
		if next <= cur {
			return
		}
		if s.state.CompareAndSwap(int32(cur), int32(next)) {
			s.log.Debug("session state", "id", s.ID, "role", s.Role, "from", cur, "to", next)
			return
		}
	}
}
