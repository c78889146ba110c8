// Package can provides the bus frame and transceiver abstractions.
package can

import (
	"errors"
)

// Identifier limits.
const (
	MaxStdID = 0x7ff
	MaxExtID = 0x1fffffff
)

var (
	// ErrInvalidID indicates the identifier does not fit the addressing mode.
	ErrInvalidID = errors.New("can: invalid identifier")
	// ErrInvalidLen indicates a payload longer than 8 bytes.
	ErrInvalidLen = errors.New("can: invalid data length")
)

// Frame is a classical CAN data frame.
type Frame struct {
	ID       uint32
	Extended bool
	Len      uint8
	Data     [8]byte
}

// NewFrame creates an extended frame carrying payload.
func NewFrame(id uint32, payload []byte) (Frame, error) {
	f := Frame{ID: id, Extended: true}
	if len(payload) > len(f.Data) {
		return f, ErrInvalidLen
	}
	f.Len = uint8(len(payload))
	copy(f.Data[:], payload)
	return f, f.Validate()
}

// Validate returns an error if the frame is not valid.
func (f Frame) Validate() error {
	if f.Len > 8 {
		return ErrInvalidLen
	}
	if f.Extended {
		if f.ID > MaxExtID {
			return ErrInvalidID
		}
	} else if f.ID > MaxStdID {
		return ErrInvalidID
	}
	return nil
}

// Payload returns the valid data bytes.
func (f Frame) Payload() []byte {
	l := f.Len
	if l > 8 {
		l = 8
	}
	return f.Data[:l]
}
