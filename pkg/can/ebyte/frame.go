// Package ebyte drives EByte CAN-to-Ethernet adapters in TCP server mode.
package ebyte

import (
	"encoding/binary"
	"fmt"

	"github.com/robotalks/hil.go/pkg/can"
)

// FrameSize defines the fixed size of the binary frames exchanged with the
// adapter.
const FrameSize = 13

const (
	flagExtended = 0x80
	flagRemote   = 0x40
)

// ErrRemoteFrame is returned when parsing a remote transmission request.
var ErrRemoteFrame = fmt.Errorf("ebyte: remote frame")

// ParseFrame converts the 13-byte binary frame emitted by the adapter.
// Layout: header (flags | DLC), big-endian identifier, 8 data bytes.
func ParseFrame(raw []byte) (can.Frame, error) {
	var f can.Frame
	if len(raw) != FrameSize {
		return f, fmt.Errorf("ebyte: invalid frame size %d", len(raw))
	}
	header := raw[0]
	if header&flagRemote != 0 {
		return f, ErrRemoteFrame
	}
	f.Len = header & 0x0f
	f.Extended = header&flagExtended != 0
	f.ID = binary.BigEndian.Uint32(raw[1:5])
	copy(f.Data[:], raw[5:])
	return f, f.Validate()
}

// AppendFrame appends the 13-byte binary representation of f to buf.
func AppendFrame(buf []byte, f can.Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return buf, err
	}
	header := f.Len & 0x0f
	if f.Extended {
		header |= flagExtended
	}
	buf = append(buf, header)
	buf = binary.BigEndian.AppendUint32(buf, f.ID)
	var data [8]byte
	copy(data[:], f.Payload())
	return append(buf, data[:]...), nil
}
