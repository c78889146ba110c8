package comm

// Frame is a complete host frame, opcode first.
type Frame []byte

// Opcode returns the leading byte.
func (f Frame) Opcode() Opcode {
	return Opcode(f[0])
}

// Assembler assembles host frames from a byte stream.
// The zero value is ready to use.
type Assembler struct {
	buf     [MaxFrameLen]byte
	recvLen int
	wantLen int
}

// Feed consumes one byte and returns the completed frame once the number of
// bytes received equals the length declared for the opcode, otherwise nil.
// The assembler is reset before Feed returns a frame.
func (a *Assembler) Feed(b byte) Frame {
	if a.recvLen == 0 {
		a.wantLen, _ = FrameLen(Opcode(b))
	}
	a.buf[a.recvLen] = b
	a.recvLen++
	if a.recvLen < a.wantLen {
		return nil
	}
	frame := make(Frame, a.recvLen)
	copy(frame, a.buf[:a.recvLen])
	a.Reset()
	return frame
}

// Pending returns the number of bytes of the in-flight frame.
func (a *Assembler) Pending() int {
	return a.recvLen
}

// Reset drops the in-flight frame.
func (a *Assembler) Reset() {
	a.recvLen, a.wantLen = 0, 0
}

// Timeout notifies the assembler that the peer stalled and drops the partial
// frame. It returns the number of bytes discarded.
func (a *Assembler) Timeout() int {
	n := a.recvLen
	a.Reset()
	return n
}
