// Package socketcan drives Linux SocketCAN interfaces with raw sockets.
package socketcan

import (
	"encoding/binary"
	"fmt"

	"github.com/robotalks/hil.go/pkg/can"
)

// FrameSize is the size of struct can_frame.
const FrameSize = 16

// can_id flags, see linux/can.h.
const (
	effFlag = 0x80000000
	rtrFlag = 0x40000000
	errFlag = 0x20000000
)

// ErrNotData is returned when decoding remote or error frames.
var ErrNotData = fmt.Errorf("socketcan: not a data frame")

// Marshal encodes f into the struct can_frame layout. can_id is in host
// byte order.
func Marshal(f can.Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	id := f.ID
	if f.Extended {
		id |= effFlag
	}
	buf := make([]byte, FrameSize)
	binary.NativeEndian.PutUint32(buf[0:4], id)
	buf[4] = f.Len
	copy(buf[8:], f.Payload())
	return buf, nil
}

// Unmarshal decodes a struct can_frame.
func Unmarshal(buf []byte) (can.Frame, error) {
	var f can.Frame
	if len(buf) < FrameSize {
		return f, fmt.Errorf("socketcan: need %d bytes, got %d", FrameSize, len(buf))
	}
	id := binary.NativeEndian.Uint32(buf[0:4])
	if id&(rtrFlag|errFlag) != 0 {
		return f, ErrNotData
	}
	f.Extended = id&effFlag != 0
	if f.Extended {
		f.ID = id & can.MaxExtID
	} else {
		f.ID = id & can.MaxStdID
	}
	f.Len = buf[4]
	copy(f.Data[:], buf[8:16])
	return f, f.Validate()
}
