package net

import (
	"net"
	"sync"
)

// Session scopes the network resources of one fetch. It is opened before the
// first socket operation and must be closed on every exit path; Close is
// idempotent and releases exactly once.
type Session struct {
	mu        sync.Mutex
	conn      net.Conn
	closed    bool
	onRelease func()
}

// OpenSession acquires a session. onRelease may be nil.
func OpenSession(onRelease func()) *Session {
	return &Session{onRelease: onRelease}
}

// Attach hands conn to the session, which then owns closing it. Attaching to
// a closed session closes conn immediately.
func (s *Session) Attach(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		conn.Close()
		return
	}
	s.conn = conn
}

// Closed reports whether the session has been released.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close closes the attached connection, if any, and runs the release hook.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.conn = nil
	hook := s.onRelease
	s.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	if hook != nil {
		hook()
	}
	return err
}
