//go:build !linux

package socketcan

import (
	"errors"

	"github.com/robotalks/hil.go/pkg/can"
)

// ErrUnsupported is returned on platforms without SocketCAN.
var ErrUnsupported = errors.New("socketcan: only supported on linux")

// Bus is unavailable on this platform.
type Bus struct {
	Interface string
}

// Open always fails on this platform.
func Open(ifname string) (*Bus, error) {
	return nil, ErrUnsupported
}

// TrySend implements can.Transceiver.
func (b *Bus) TrySend(can.Frame) bool { return false }

// TryReceive implements can.Transceiver.
func (b *Bus) TryReceive() (can.Frame, bool) { return can.Frame{}, false }

// Close implements io.Closer.
func (b *Bus) Close() error { return nil }
