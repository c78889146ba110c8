//go:build linux

package socketcan

import (
	"errors"
	"fmt"
	"net"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"

	"github.com/robotalks/hil.go/pkg/can"
)

// Bus is a non-blocking raw CAN socket bound to one interface.
type Bus struct {
	Interface string

	fd  int
	buf [FrameSize]byte
}

// Open binds a raw CAN socket to the named interface, e.g. "can0".
func Open(ifname string) (*Bus, error) {
	ifi, err := net.InterfaceByName(ifname)
	if err != nil {
		return nil, fmt.Errorf("socketcan: %w", err)
	}
	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("socketcan: socket: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrCAN{Ifindex: ifi.Index}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("socketcan: bind %s: %w", ifname, err)
	}
	return &Bus{Interface: ifname, fd: fd}, nil
}

// TrySend implements can.Transceiver.
func (b *Bus) TrySend(f can.Frame) bool {
	buf, err := Marshal(f)
	if err != nil {
		glog.Warningf("socketcan %s: refuse frame: %v", b.Interface, err)
		return false
	}
	if _, err := unix.Write(b.fd, buf); err != nil {
		if !errors.Is(err, unix.EAGAIN) {
			glog.Warningf("socketcan %s: write: %v", b.Interface, err)
		}
		return false
	}
	return true
}

// TryReceive implements can.Transceiver. Remote and error frames are skipped.
func (b *Bus) TryReceive() (can.Frame, bool) {
	for {
		n, err := unix.Read(b.fd, b.buf[:])
		if err != nil {
			if !errors.Is(err, unix.EAGAIN) {
				glog.Warningf("socketcan %s: read: %v", b.Interface, err)
			}
			return can.Frame{}, false
		}
		f, err := Unmarshal(b.buf[:n])
		if err != nil {
			glog.V(2).Infof("socketcan %s: skip frame: %v", b.Interface, err)
			continue
		}
		return f, true
	}
}

// Close implements io.Closer.
func (b *Bus) Close() error {
	return unix.Close(b.fd)
}
