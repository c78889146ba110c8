package comm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
)

// DefaultBacklog is the default number of host bytes buffered ahead of the
// engine.
const DefaultBacklog = 256

// HostChannel is the device end of the host byte stream.
// Bytes are read by Run in the background so that TryReadByte never blocks.
// Only one goroutine may call TryReadByte. Write is safe for concurrent use.
type HostChannel struct {
	ReadWriter io.ReadWriter
	// Backlog must be set before the first use.
	Backlog int
	// OnData is invoked whenever bytes are queued, e.g. to wake a loop.
	OnData func()

	initOnce  sync.Once
	byteCh    chan byte
	errCh     chan error
	err       error
	writeLock sync.Mutex
}

// NewHostChannel creates a HostChannel.
func NewHostChannel(rw io.ReadWriter) *HostChannel {
	return &HostChannel{ReadWriter: rw, Backlog: DefaultBacklog}
}

func (h *HostChannel) init() {
	h.initOnce.Do(func() {
		backlog := h.Backlog
		if backlog <= 0 {
			backlog = DefaultBacklog
		}
		h.byteCh = make(chan byte, backlog)
		h.errCh = make(chan error, 1)
	})
}

// TryReadByte returns the next host byte if one is available.
// Once the stream failed, queued bytes are still returned before the error.
func (h *HostChannel) TryReadByte() (byte, bool, error) {
	h.init()
	select {
	case b := <-h.byteCh:
		return b, true, nil
	default:
	}
	if h.err == nil {
		select {
		case h.err = <-h.errCh:
		default:
			return 0, false, nil
		}
		select {
		case b := <-h.byteCh:
			return b, true, nil
		default:
		}
	}
	return 0, false, h.err
}

// Write sends bytes to the host.
func (h *HostChannel) Write(p []byte) (int, error) {
	h.writeLock.Lock()
	defer h.writeLock.Unlock()
	return h.ReadWriter.Write(p)
}

// Run reads the stream until it fails or ctx is done.
func (h *HostChannel) Run(ctx context.Context) error {
	h.init()
	doneCh := make(chan struct{})
	defer close(doneCh)
	if closer, ok := h.ReadWriter.(io.Closer); ok {
		go func() {
			select {
			case <-ctx.Done():
				closer.Close()
			case <-doneCh:
			}
		}()
	}
	err := h.readLoop(ctx)
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	h.errCh <- err
	if fn := h.OnData; fn != nil {
		fn()
	}
	return err
}

func (h *HostChannel) readLoop(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		n, err := h.ReadWriter.Read(buf)
		for _, b := range buf[:n] {
			select {
			case h.byteCh <- b:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if n > 0 {
			if glog.V(3) {
				glog.Infof("HOST RX % x", buf[:n])
			}
			if fn := h.OnData; fn != nil {
				fn()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrClosed
			}
			return fmt.Errorf("host read: %w", err)
		}
	}
}
