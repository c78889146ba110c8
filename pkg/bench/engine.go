// Package bench implements the HIL bench firmware engine: host frame
// assembly, command dispatch and bus relaying in one cooperative loop.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/hil.go/pkg/can"
	fx "github.com/robotalks/hil.go/pkg/framework"
	"github.com/robotalks/hil.go/pkg/l0/comm"
	"github.com/robotalks/hil.go/pkg/periph"
)

// HostPort is the engine end of the host channel.
type HostPort interface {
	// TryReadByte returns the next host byte without blocking.
	TryReadByte() (byte, bool, error)
	io.Writer
}

// Observer is notified about bus traffic handled by the engine.
// Calls are made from the loop and must not block.
type Observer interface {
	FrameRelayed(bus byte, f can.Frame)
	FrameSent(bus byte, f can.Frame)
}

// Source names in priority order.
const (
	SourceDispatch = "dispatch"
	SourceHost     = "host"
	SourceBusA     = "bus-a"
	SourceBusB     = "bus-b"
)

// Engine is the firmware core. It is driven by a single loop and is not safe
// for concurrent use.
type Engine struct {
	Config

	board     periph.Board
	host      HostPort
	buses     [2]can.Transceiver
	relays    [2]*Relay
	observer  Observer
	assembler comm.Assembler
	ready     comm.Frame
	power     []periph.PowerState
	lastByte  time.Time
	now       func() time.Time
}

// NewEngine creates an Engine. All output channels start powered down.
func NewEngine(conf Config, board periph.Board, host HostPort, busA, busB can.Transceiver) *Engine {
	e := &Engine{
		Config: conf,
		board:  board,
		host:   host,
		buses:  [2]can.Transceiver{busA, busB},
		power:  make([]periph.PowerState, len(board.Outputs)),
		now:    time.Now,
	}
	for n := range e.power {
		e.power[n] = periph.PoweredDown
	}
	e.relays[comm.BusA] = &Relay{Bus: comm.BusA, Transceiver: busA, Host: host}
	e.relays[comm.BusB] = &Relay{Bus: comm.BusB, Transceiver: busB, Host: host}
	return e
}

// SetObserver installs an Observer for bus traffic.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
	for _, r := range e.relays {
		r.Observer = o
	}
}

// Sources returns the engine's work sources from highest to lowest priority:
// dispatch a ready frame, consume one host byte, relay from bus A, relay from
// bus B.
func (e *Engine) Sources() []fx.Source {
	return []fx.Source{
		fx.NewSource(SourceDispatch, e.pollDispatch),
		fx.NewSource(SourceHost, e.pollHost),
		e.relays[comm.BusA],
		e.relays[comm.BusB],
	}
}

// AddToLoop implements LoopAdder.
func (e *Engine) AddToLoop(loop *fx.Loop) {
	if e.IdleInterval > 0 {
		loop.Interval = e.IdleInterval
	}
	loop.AddSource(e.Sources()...)
	for _, bus := range e.buses {
		if w, ok := bus.(can.Waker); ok {
			w.SetWakeFunc(loop.TriggerNext)
		}
	}
}

// PowerState returns the tracked power state of an output channel.
func (e *Engine) PowerState(channel int) periph.PowerState {
	return e.power[channel]
}

// FrameReady reports whether a completed frame awaits dispatch.
func (e *Engine) FrameReady() bool {
	return e.ready != nil
}

func (e *Engine) pollDispatch(ctx context.Context) (bool, error) {
	if e.ready == nil {
		return false, nil
	}
	frame := e.ready
	e.ready = nil
	return true, e.Execute(frame)
}

func (e *Engine) pollHost(ctx context.Context) (bool, error) {
	b, ok, err := e.host.TryReadByte()
	if err != nil {
		return false, err
	}
	if !ok {
		e.checkStalled()
		return false, nil
	}
	e.lastByte = e.now()
	if frame := e.assembler.Feed(b); frame != nil {
		e.ready = frame
	}
	return true, nil
}

func (e *Engine) checkStalled() {
	if e.FrameTimeout <= 0 || e.assembler.Pending() == 0 {
		return
	}
	if e.now().Sub(e.lastByte) >= e.FrameTimeout {
		n := e.assembler.Timeout()
		glog.V(1).Infof("host stalled, dropped %d bytes of partial frame", n)
	}
}

// Execute decodes and dispatches a frame and writes the reply if any.
func (e *Engine) Execute(frame comm.Frame) error {
	reply, err := e.Dispatch(comm.Decode(frame))
	var cmdErr *comm.CommandError
	if errors.As(err, &cmdErr) {
		glog.V(3).Infof("reject % x: %v", []byte(frame), err)
		reply = cmdErr.Reply()
	} else if err != nil {
		return err
	}
	if len(reply) == 0 {
		return nil
	}
	if _, err := reply.WriteTo(e.host); err != nil {
		return fmt.Errorf("host write: %w", err)
	}
	return nil
}
