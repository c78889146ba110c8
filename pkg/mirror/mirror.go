// Package mirror publishes bench bus traffic to an MQTT broker and accepts
// frames to inject into simulated buses.
package mirror

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/hil.go/pkg/bench"
	"github.com/robotalks/hil.go/pkg/can"
	"github.com/robotalks/hil.go/pkg/l0/comm"
)

// DefaultQueueSize is the number of events buffered before dropping.
const DefaultQueueSize = 256

const metaTimeout = time.Second

// Injector accepts frames as if received from a bus.
type Injector interface {
	Inject(can.Frame) bool
}

// BusMeta describes a bus in the meta document.
type BusMeta struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Inject bool   `json:"inject"`
}

// Meta is the retained document published at <name>/meta.
type Meta struct {
	Identity byte      `json:"identity"`
	Buses    []BusMeta `json:"buses"`
}

type event struct {
	topic   string
	payload []byte
}

// Mirror implements bench.Observer and Runnable.
type Mirror struct {
	Queue *Queue
	Name  string
	Meta  Meta

	injectors [2]Injector
	eventCh   chan event
}

var _ bench.Observer = (*Mirror)(nil)

// ClientID returns the default MQTT client id derived from the machine id.
func ClientID() string {
	id, err := machineid.ProtectedID("hild")
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return ""
	}
	if len(id) > 16 {
		id = id[:16]
	}
	return "hil:" + id
}

// New creates a Mirror over an existing queue.
func New(queue *Queue, name string, queueSize int) *Mirror {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	m := &Mirror{
		Queue:   queue,
		Name:    name,
		eventCh: make(chan event, queueSize),
	}
	queue.OnConnect = func(*Queue) { m.publishMeta() }
	return m
}

// NewFromURL creates a Mirror connecting to the broker at brokerURL.
func NewFromURL(brokerURL, name string, queueSize int) (*Mirror, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+name+"/meta", nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID(ClientID())
	}
	return New(NewQueue(opts, topicPrefix), name, queueSize), nil
}

// SetInjector enables injection into a bus.
func (m *Mirror) SetInjector(bus byte, inj Injector) {
	m.injectors[bus] = inj
	for n := range m.Meta.Buses {
		if m.Meta.Buses[n].Name == bench.BusName(bus) {
			m.Meta.Buses[n].Inject = inj != nil
		}
	}
}

// FrameRelayed implements bench.Observer.
func (m *Mirror) FrameRelayed(bus byte, f can.Frame) {
	m.post(m.busTopic(bus, "rx"), f)
}

// FrameSent implements bench.Observer.
func (m *Mirror) FrameSent(bus byte, f can.Frame) {
	m.post(m.busTopic(bus, "tx"), f)
}

func (m *Mirror) busTopic(bus byte, dir string) string {
	return m.Name + "/bus/" + bench.BusName(bus) + "/" + dir
}

func (m *Mirror) post(topic string, f can.Frame) {
	select {
	case m.eventCh <- event{topic: topic, payload: []byte(can.EncodeSLCAN(f))}:
	default:
		glog.V(2).Infof("mirror queue full, dropped %s", topic)
	}
}

// Run implements Runnable.
func (m *Mirror) Run(ctx context.Context) error {
	sub := m.Queue.Sub(m.Name+"/bus/+/inject", m.handleInject)
	defer sub.Close()
	if token := m.Queue.Connect(); token.WaitTimeout(metaTimeout) && token.Error() != nil {
		glog.Warningf("mqtt connect: %v", token.Error())
	}
	for {
		select {
		case <-ctx.Done():
			m.Queue.PubWith(m.Name+"/meta", nil, 1, true).WaitTimeout(metaTimeout)
			m.Queue.Close()
			return nil
		case ev := <-m.eventCh:
			m.Queue.Pub(ev.topic, ev.payload)
		}
	}
}

func (m *Mirror) publishMeta() {
	meta, err := json.Marshal(&m.Meta)
	if err != nil {
		glog.Errorf("encode meta: %v", err)
		return
	}
	m.Queue.PubWith(m.Name+"/meta", meta, 1, true)
}

// handleInject accepts <name>/bus/<a|b>/inject carrying an SLCAN frame.
func (m *Mirror) handleInject(topic string, payload []byte) {
	tokens := strings.Split(topic, "/")
	if len(tokens) < 3 {
		return
	}
	var bus byte
	switch tokens[len(tokens)-2] {
	case bench.BusName(comm.BusA):
		bus = comm.BusA
	case bench.BusName(comm.BusB):
		bus = comm.BusB
	default:
		glog.Warningf("inject: unknown bus in %q", topic)
		return
	}
	inj := m.injectors[bus]
	if inj == nil {
		glog.Warningf("inject: bus %s does not accept injection", bench.BusName(bus))
		return
	}
	f, err := can.ParseSLCAN(string(payload))
	if err != nil {
		glog.Warningf("inject: %v", err)
		return
	}
	if !inj.Inject(f) {
		glog.Warningf("inject: bus %s queue full", bench.BusName(bus))
	}
}
