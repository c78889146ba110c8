package ebyte

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/hil.go/pkg/can"
	fx "github.com/robotalks/hil.go/pkg/framework"
)

// Defaults of Adapter.
const (
	DefaultReconnectDelay = 2 * time.Second
	DefaultWriteTimeout   = 50 * time.Millisecond
)

// Adapter implements can.Transceiver over the adapter's TCP port.
// Run must be running for frames to be received. TrySend fails while the
// adapter is disconnected.
type Adapter struct {
	Address        string
	ReconnectDelay time.Duration
	WriteTimeout   time.Duration

	rxCh   chan can.Frame
	lock   sync.Mutex
	conn   net.Conn
	wakeFn func()
}

// NewAdapter creates an Adapter.
func NewAdapter(address string, queueSize int) *Adapter {
	if queueSize <= 0 {
		queueSize = can.DefaultQueueSize
	}
	return &Adapter{
		Address:        address,
		ReconnectDelay: DefaultReconnectDelay,
		WriteTimeout:   DefaultWriteTimeout,
		rxCh:           make(chan can.Frame, queueSize),
	}
}

// Name implements Named.
func (a *Adapter) Name() string {
	return "ebyte:" + a.Address
}

// SetWakeFunc implements can.Waker.
func (a *Adapter) SetWakeFunc(fn func()) {
	a.lock.Lock()
	a.wakeFn = fn
	a.lock.Unlock()
}

// TrySend implements can.Transceiver.
func (a *Adapter) TrySend(f can.Frame) bool {
	buf, err := AppendFrame(make([]byte, 0, FrameSize), f)
	if err != nil {
		glog.Warningf("%s: refuse frame: %v", a.Name(), err)
		return false
	}
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.conn == nil {
		return false
	}
	a.conn.SetWriteDeadline(time.Now().Add(a.WriteTimeout))
	if _, err := a.conn.Write(buf); err != nil {
		glog.Warningf("%s: write error: %v", a.Name(), err)
		return false
	}
	return true
}

// TryReceive implements can.Transceiver.
func (a *Adapter) TryReceive() (can.Frame, bool) {
	select {
	case f := <-a.rxCh:
		return f, true
	default:
		return can.Frame{}, false
	}
}

// Run implements Runnable. It keeps reconnecting until ctx is done.
func (a *Adapter) Run(ctx context.Context) error {
	delay := a.ReconnectDelay
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}
	for {
		err := a.connectAndServe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		glog.Warningf("%s: %v", a.Name(), err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (a *Adapter) connectAndServe(ctx context.Context) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", a.Address)
	if err != nil {
		return fmt.Errorf("dial adapter: %w", err)
	}
	glog.Infof("%s: connected", a.Name())
	a.setConn(conn)
	defer func() {
		a.setConn(nil)
		glog.Infof("%s: disconnected", a.Name())
	}()
	return fx.RunWithContextCloser(ctx, conn, func() error {
		return a.readFrames(conn)
	})
}

func (a *Adapter) setConn(conn net.Conn) {
	a.lock.Lock()
	a.conn = conn
	a.lock.Unlock()
}

func (a *Adapter) readFrames(conn net.Conn) error {
	buf := make([]byte, 4096)
	frameBuf := make([]byte, 0, 4096)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("adapter read: %w", err)
		}
		frameBuf = append(frameBuf, buf[:n]...)
		var received bool
		for len(frameBuf) >= FrameSize {
			f, err := ParseFrame(frameBuf[:FrameSize])
			frameBuf = frameBuf[FrameSize:]
			if err != nil {
				glog.V(2).Infof("%s: discarding frame: %v", a.Name(), err)
				continue
			}
			select {
			case a.rxCh <- f:
				received = true
			default:
				glog.Warningf("%s: rx queue full, drop %s", a.Name(), can.EncodeSLCAN(f))
			}
		}
		if received {
			a.lock.Lock()
			fn := a.wakeFn
			a.lock.Unlock()
			if fn != nil {
				fn()
			}
		}
	}
}
