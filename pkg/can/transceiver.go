package can

import (
	"sync"
)

// Transceiver sends and receives frames on one bus without blocking.
type Transceiver interface {
	// TrySend queues a frame for transmission and reports whether it was accepted.
	TrySend(Frame) bool
	// TryReceive returns the next received frame if one is pending.
	TryReceive() (Frame, bool)
}

// Waker is implemented by transceivers which can notify about received frames.
type Waker interface {
	SetWakeFunc(func())
}

// DefaultQueueSize is the default depth of receive queues.
const DefaultQueueSize = 64

// Loopback is an in-memory transceiver. Frames injected are received, frames
// sent are recorded.
type Loopback struct {
	lock   sync.Mutex
	rxCap  int
	rx     []Frame
	sent   []Frame
	wakeFn func()
}

// NewLoopback creates a Loopback holding up to queueSize pending frames.
func NewLoopback(queueSize int) *Loopback {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loopback{rxCap: queueSize}
}

// SetWakeFunc implements Waker.
func (l *Loopback) SetWakeFunc(fn func()) {
	l.lock.Lock()
	l.wakeFn = fn
	l.lock.Unlock()
}

// Inject queues a frame as if received from the bus.
// It returns false when the queue is full, the frame is dropped.
func (l *Loopback) Inject(f Frame) bool {
	l.lock.Lock()
	if len(l.rx) >= l.rxCap {
		l.lock.Unlock()
		return false
	}
	l.rx = append(l.rx, f)
	fn := l.wakeFn
	l.lock.Unlock()
	if fn != nil {
		fn()
	}
	return true
}

// TrySend implements Transceiver.
func (l *Loopback) TrySend(f Frame) bool {
	l.lock.Lock()
	l.sent = append(l.sent, f)
	l.lock.Unlock()
	return true
}

// TryReceive implements Transceiver.
func (l *Loopback) TryReceive() (f Frame, ok bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.rx) == 0 {
		return
	}
	f, l.rx = l.rx[0], l.rx[1:]
	return f, true
}

// Pending returns the number of frames waiting to be received.
func (l *Loopback) Pending() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.rx)
}

// Sent returns and clears the frames sent so far.
func (l *Loopback) Sent() []Frame {
	l.lock.Lock()
	defer l.lock.Unlock()
	sent := l.sent
	l.sent = nil
	return sent
}
