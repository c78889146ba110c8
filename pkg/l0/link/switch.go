// Package link provides byte stream transports carrying the host channel.
package link

import (
	"io"
	"sync"

	"github.com/golang/glog"
)

// Switch is a byte stream over the most recently attached connection.
// Reads wait until a connection is attached. Writes without a connection are
// discarded, as are writes failing on a broken connection, so a host going
// away never stops the firmware.
type Switch struct {
	lock   sync.Mutex
	cond   *sync.Cond
	conn   io.ReadWriteCloser
	done   chan struct{}
	closed bool
}

// NewSwitch creates a Switch.
func NewSwitch() *Switch {
	s := &Switch{}
	s.cond = sync.NewCond(&s.lock)
	return s
}

// Attach makes conn the active connection, closing the previous one.
// The returned channel is closed when conn is detached.
func (s *Switch) Attach(conn io.ReadWriteCloser) <-chan struct{} {
	done := make(chan struct{})
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		conn.Close()
		close(done)
		return done
	}
	prev, prevDone := s.conn, s.done
	s.conn, s.done = conn, done
	s.cond.Broadcast()
	s.lock.Unlock()
	if prev != nil {
		glog.Infof("link: connection replaced")
		prev.Close()
		close(prevDone)
	}
	return done
}

// Connected tells if a connection is attached.
func (s *Switch) Connected() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.conn != nil
}

func (s *Switch) detach(conn io.ReadWriteCloser) {
	s.lock.Lock()
	var done chan struct{}
	if s.conn == conn {
		done = s.done
		s.conn, s.done = nil, nil
	}
	s.lock.Unlock()
	conn.Close()
	if done != nil {
		close(done)
	}
}

func (s *Switch) current() (io.ReadWriteCloser, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for s.conn == nil && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return nil, io.EOF
	}
	return s.conn, nil
}

// Read implements io.Reader. It returns io.EOF only after Close.
func (s *Switch) Read(p []byte) (int, error) {
	for {
		conn, err := s.current()
		if err != nil {
			return 0, err
		}
		n, err := conn.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil {
			glog.V(1).Infof("link: connection lost: %v", err)
			s.detach(conn)
		}
	}
}

// Write implements io.Writer.
func (s *Switch) Write(p []byte) (int, error) {
	s.lock.Lock()
	conn := s.conn
	s.lock.Unlock()
	if conn == nil {
		return len(p), nil
	}
	if _, err := conn.Write(p); err != nil {
		glog.Warningf("link: write failed: %v", err)
		s.detach(conn)
	}
	return len(p), nil
}

// Close implements io.Closer. Pending and future reads return io.EOF.
func (s *Switch) Close() error {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return nil
	}
	s.closed = true
	conn, done := s.conn, s.done
	s.conn, s.done = nil, nil
	s.cond.Broadcast()
	s.lock.Unlock()
	if conn != nil {
		conn.Close()
		close(done)
	}
	return nil
}
