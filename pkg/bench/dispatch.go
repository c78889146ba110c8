package bench

import (
	"github.com/golang/glog"

	"github.com/robotalks/hil.go/pkg/can"
	"github.com/robotalks/hil.go/pkg/l0/comm"
	"github.com/robotalks/hil.go/pkg/periph"
)

// Dispatch executes a decoded command against the board and buses.
// It returns the reply to send, if any. A refused command returns a
// *comm.CommandError and leaves all peripherals untouched.
func (e *Engine) Dispatch(cmd comm.Command) (comm.Reply, error) {
	switch c := cmd.(type) {
	case comm.Identify:
		return comm.IdentityReply(e.board.Identity), nil
	case comm.WritePin:
		pin, err := e.pin(c, c.Pin)
		if err != nil {
			return nil, err
		}
		pin.ConfigureAsOutput()
		pin.Write(c.Value)
	case comm.ReleasePin:
		pin, err := e.pin(c, c.Pin)
		if err != nil {
			return nil, err
		}
		pin.ConfigureAsInput()
	case comm.ReadPin:
		pin, err := e.pin(c, c.Pin)
		if err != nil {
			return nil, err
		}
		pin.ConfigureAsInput()
		return comm.PinReply(pin.Read()), nil
	case comm.WriteOutput:
		if int(c.Channel) >= len(e.board.Outputs) {
			return nil, reject(c)
		}
		out := e.board.Outputs[c.Channel]
		if e.power[c.Channel] == periph.PoweredDown {
			out.Wake()
			e.power[c.Channel] = periph.Awake
		}
		out.SetValue(c.Value)
	case comm.PowerDownOutput:
		if int(c.Channel) >= len(e.board.Outputs) {
			return nil, reject(c)
		}
		e.board.Outputs[c.Channel].PowerDown()
		e.power[c.Channel] = periph.PoweredDown
	case comm.ReadAnalog:
		if e.board.Analogs == nil {
			return nil, reject(c)
		}
		in, ok := e.board.Analogs.Analog(c.Pin)
		if !ok {
			return nil, reject(c)
		}
		return comm.AnalogReply(in.Read()), nil
	case comm.WriteLoad:
		if int(c.Channel) >= len(e.board.Loads) {
			return nil, reject(c)
		}
		e.board.Loads[c.Channel].SetSteps(c.Value)
	case comm.SendBusFrame:
		return nil, e.sendBusFrame(c)
	default:
		return nil, reject(cmd)
	}
	return nil, nil
}

func (e *Engine) pin(cmd comm.Command, n byte) (periph.DigitalPin, error) {
	if e.board.Pins == nil {
		return nil, reject(cmd)
	}
	pin, ok := e.board.Pins.Pin(n)
	if !ok {
		return nil, reject(cmd)
	}
	return pin, nil
}

func (e *Engine) sendBusFrame(c comm.SendBusFrame) error {
	if int(c.Bus) >= len(e.buses) || e.buses[c.Bus] == nil || c.Len > comm.MaxPayload {
		return reject(c)
	}
	f := can.Frame{ID: c.ID, Extended: true, Len: c.Len}
	copy(f.Data[:], c.Data[:c.Len])
	if err := f.Validate(); err != nil {
		return reject(c)
	}
	if !e.buses[c.Bus].TrySend(f) {
		glog.V(1).Infof("bus %s busy, frame %08x dropped", BusName(c.Bus), f.ID)
		return nil
	}
	if glog.V(2) {
		glog.Infof("SEND bus %s %s", BusName(c.Bus), can.EncodeSLCAN(f))
	}
	if e.observer != nil {
		e.observer.FrameSent(c.Bus, f)
	}
	return nil
}

func reject(cmd comm.Command) error {
	return &comm.CommandError{Code: cmd.Opcode()}
}
