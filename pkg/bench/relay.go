package bench

import (
	"context"
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/hil.go/pkg/can"
	"github.com/robotalks/hil.go/pkg/l0/comm"
)

// BusName returns the short name of a bus: "a" or "b".
func BusName(bus byte) string {
	switch bus {
	case comm.BusA:
		return "a"
	case comm.BusB:
		return "b"
	}
	return fmt.Sprintf("%d", bus)
}

// Relay forwards frames received on one bus to the host.
type Relay struct {
	Bus         byte
	Transceiver can.Transceiver
	Host        io.Writer
	Observer    Observer
}

// Name implements Named.
func (r *Relay) Name() string {
	return "bus-" + BusName(r.Bus)
}

// Poll implements Source. At most one frame is relayed per call.
func (r *Relay) Poll(ctx context.Context) (bool, error) {
	if r.Transceiver == nil {
		return false, nil
	}
	f, ok := r.Transceiver.TryReceive()
	if !ok {
		return false, nil
	}
	if glog.V(2) {
		glog.Infof("RELAY bus %s %s", BusName(r.Bus), can.EncodeSLCAN(f))
	}
	if _, err := comm.RelayReply(r.Bus, f.ID, f.Payload()).WriteTo(r.Host); err != nil {
		return true, fmt.Errorf("host write: %w", err)
	}
	if r.Observer != nil {
		r.Observer.FrameRelayed(r.Bus, f)
	}
	return true, nil
}
