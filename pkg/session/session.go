package session

import (
	"bytes"
	"sync"

	"github.com/openuwb/uwb/pkg/params"
)

// Handle identifies a session towards the caller. It is independent of
// the UCI session ID so a client can reuse IDs across reopens.
type Handle uint64

// Session is one ranging session. All lifecycle work for a session runs
// on its own worker goroutine, so operations on one session are totally
// ordered while distinct sessions progress independently.
type Session struct {
	handle   Handle
	id       uint32
	protocol params.Protocol
	params   any

	mu         sync.Mutex
	cond       *sync.Cond
	queue      []func()
	stopped    bool
	state      State
	controlees [][]byte
}

func newSession(handle Handle, id uint32, protocol params.Protocol, p any) *Session {
	s := &Session{
		handle:   handle,
		id:       id,
		protocol: protocol,
		params:   p,
		state:    StateDeinit,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// run drains the session's command queue until the session is stopped
// and the queue is empty.
func (s *Session) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.stopped {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
	}
}

// enqueue schedules fn on the session worker. It reports false once the
// session has been stopped.
func (s *Session) enqueue(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.queue = append(s.queue, fn)
	s.cond.Signal()
	return true
}

// stop lets the worker exit after the pending queue drains.
func (s *Session) stop() {
	s.mu.Lock()
	s.stopped = true
	s.cond.Signal()
	s.mu.Unlock()
}

// Handle returns the caller-side session handle.
func (s *Session) Handle() Handle { return s.handle }

// ID returns the UCI session ID.
func (s *Session) ID() uint32 { return s.id }

// Protocol returns the session's ranging protocol.
func (s *Session) Protocol() params.Protocol { return s.protocol }

// Params returns the parameters the session was opened with.
func (s *Session) Params() any { return s.params }

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	s.state = state
	return prev
}

func (s *Session) setParams(p any) {
	s.mu.Lock()
	s.params = p
	s.mu.Unlock()
}

// Controlees returns a copy of the confirmed controlee address list.
func (s *Session) Controlees() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.controlees))
	for i, addr := range s.controlees {
		out[i] = append([]byte(nil), addr...)
	}
	return out
}

func (s *Session) controleeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.controlees)
}

func (s *Session) hasControlee(addr []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.controlees {
		if bytes.Equal(c, addr) {
			return true
		}
	}
	return false
}

func (s *Session) addControlee(addr []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.controlees {
		if bytes.Equal(c, addr) {
			return
		}
	}
	s.controlees = append(s.controlees, append([]byte(nil), addr...))
}

func (s *Session) removeControlee(addr []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.controlees {
		if bytes.Equal(c, addr) {
			s.controlees = append(s.controlees[:i], s.controlees[i+1:]...)
			return
		}
	}
}
