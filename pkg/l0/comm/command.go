package comm

import "encoding/binary"

// Command is a decoded host frame. The set of commands is closed.
type Command interface {
	Opcode() Opcode
	command()
}

// Identify queries the device identity.
type Identify struct{}

// WritePin drives a digital pin.
type WritePin struct {
	Pin   byte
	Value bool
}

// ReleasePin puts a digital pin into high impedance.
type ReleasePin struct {
	Pin byte
}

// ReadPin samples a digital pin.
type ReadPin struct {
	Pin byte
}

// WriteOutput sets a voltage output channel.
type WriteOutput struct {
	Channel byte
	Value   byte
}

// PowerDownOutput powers down a voltage output channel.
type PowerDownOutput struct {
	Channel byte
}

// ReadAnalog samples an analog input.
type ReadAnalog struct {
	Pin byte
}

// WriteLoad sets the steps of a resistive load channel.
type WriteLoad struct {
	Channel byte
	Value   byte
}

// SendBusFrame transmits a frame on a bus.
// Len may exceed MaxPayload; the dispatcher rejects it.
type SendBusFrame struct {
	Bus  byte
	ID   uint32
	Len  byte
	Data [MaxPayload]byte
}

// Unknown is any frame which is not a host command.
type Unknown struct {
	Code byte
}

// Opcode implements Command.
func (Identify) Opcode() Opcode { return ReadID }

// Opcode implements Command.
func (WritePin) Opcode() Opcode { return WriteGPIO }

// Opcode implements Command.
func (ReleasePin) Opcode() Opcode { return HiZGPIO }

// Opcode implements Command.
func (ReadPin) Opcode() Opcode { return ReadGPIO }

// Opcode implements Command.
func (WriteOutput) Opcode() Opcode { return WriteDAC }

// Opcode implements Command.
func (PowerDownOutput) Opcode() Opcode { return HiZDAC }

// Opcode implements Command.
func (ReadAnalog) Opcode() Opcode { return ReadADC }

// Opcode implements Command.
func (WriteLoad) Opcode() Opcode { return WritePot }

// Opcode implements Command.
func (SendBusFrame) Opcode() Opcode { return SendCAN }

// Opcode implements Command.
func (c Unknown) Opcode() Opcode { return Opcode(c.Code) }

func (Identify) command()        {}
func (WritePin) command()        {}
func (ReleasePin) command()      {}
func (ReadPin) command()         {}
func (WriteOutput) command()     {}
func (PowerDownOutput) command() {}
func (ReadAnalog) command()      {}
func (WriteLoad) command()       {}
func (SendBusFrame) command()    {}
func (Unknown) command()         {}

// Decode converts a frame produced by Assembler into a Command.
// A frame whose length disagrees with the opcode decodes to Unknown.
func Decode(f Frame) Command {
	if len(f) == 0 {
		return Unknown{}
	}
	op := f.Opcode()
	if l, ok := FrameLen(op); !ok || l != len(f) {
		return Unknown{Code: byte(op)}
	}
	switch op {
	case ReadID:
		return Identify{}
	case WriteGPIO:
		return WritePin{Pin: f[1], Value: f[2] != 0}
	case HiZGPIO:
		return ReleasePin{Pin: f[1]}
	case ReadGPIO:
		return ReadPin{Pin: f[1]}
	case WriteDAC:
		return WriteOutput{Channel: f[1], Value: f[2]}
	case HiZDAC:
		return PowerDownOutput{Channel: f[1]}
	case ReadADC:
		return ReadAnalog{Pin: f[1]}
	case WritePot:
		return WriteLoad{Channel: f[1], Value: f[2]}
	case SendCAN:
		cmd := SendBusFrame{
			Bus: f[1],
			ID:  binary.BigEndian.Uint32(f[2:6]),
			Len: f[6],
		}
		copy(cmd.Data[:], f[7:])
		return cmd
	}
	return Unknown{Code: byte(op)}
}

// Encode converts a Command into the host frame. It is the inverse of Decode
// and is used by tools driving the firmware.
func Encode(cmd Command) Frame {
	switch c := cmd.(type) {
	case Identify:
		return Frame{byte(ReadID)}
	case WritePin:
		var v byte
		if c.Value {
			v = 1
		}
		return Frame{byte(WriteGPIO), c.Pin, v}
	case ReleasePin:
		return Frame{byte(HiZGPIO), c.Pin}
	case ReadPin:
		return Frame{byte(ReadGPIO), c.Pin}
	case WriteOutput:
		return Frame{byte(WriteDAC), c.Channel, c.Value}
	case PowerDownOutput:
		return Frame{byte(HiZDAC), c.Channel}
	case ReadAnalog:
		return Frame{byte(ReadADC), c.Pin}
	case WriteLoad:
		return Frame{byte(WritePot), c.Channel, c.Value}
	case SendBusFrame:
		f := make(Frame, sendCANLen)
		f[0], f[1] = byte(SendCAN), c.Bus
		binary.BigEndian.PutUint32(f[2:6], c.ID)
		f[6] = c.Len
		copy(f[7:], c.Data[:])
		return f
	case Unknown:
		return Frame{c.Code}
	}
	return nil
}
