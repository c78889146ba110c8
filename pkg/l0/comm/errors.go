package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed indicates the host channel is no longer readable.
	ErrClosed = errors.New("host channel closed")
)

// CommandError reports a command refused by the device.
// It carries no reason, the host infers it from the command it sent.
type CommandError struct {
	Code Opcode
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command error %s", e.Code)
}

// Reply encodes the error frame sent to the host.
func (e *CommandError) Reply() Reply {
	return ErrorReply(e.Code)
}
