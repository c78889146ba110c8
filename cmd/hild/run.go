package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/robotalks/hil.go/pkg/bench"
	"github.com/robotalks/hil.go/pkg/can"
	"github.com/robotalks/hil.go/pkg/can/ebyte"
	"github.com/robotalks/hil.go/pkg/can/socketcan"
	fx "github.com/robotalks/hil.go/pkg/framework"
	"github.com/robotalks/hil.go/pkg/l0/comm"
	"github.com/robotalks/hil.go/pkg/l0/link"
	"github.com/robotalks/hil.go/pkg/mirror"
	"github.com/robotalks/hil.go/pkg/periph/sim"
)

var configFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bench firmware",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

func init() {
	fs := runCmd.Flags()
	fs.StringVarP(&configFile, "config", "c", "", "TOML config file, explicit flags take precedence.")
	fs.StringVar(&runOpts.Name, "name", runOpts.Name, "Bench name used in MQTT topics.")
	fs.StringVar(&runOpts.Host, "host", runOpts.Host, "Host transport: serial device path, tcp://addr or ws://addr/path.")
	fs.IntVar(&runOpts.Baud, "baud", link.DefaultBaudRate, "Baud rate of a serial host transport.")
	fs.StringVar(&runOpts.BusA, "bus-a", runOpts.BusA, "Bus A transceiver: loopback, ebyte://host:port, socketcan://ifname or none.")
	fs.StringVar(&runOpts.BusB, "bus-b", runOpts.BusB, "Bus B transceiver.")
	fs.IntVar(&runOpts.BusQueue, "bus-queue", runOpts.BusQueue, "Received frames buffered per bus.")
	fs.StringVar(&runOpts.MQTTURL, "mqtt", runOpts.MQTTURL, "MQTT broker URL for the bus mirror, defaults to $"+mqttURLEnv+".")
	fs.IntVar(&runOpts.MirrorQueue, "mirror-queue", mirror.DefaultQueueSize, "Mirror events buffered before dropping.")
	bench.SetupFlags(fs)
	sim.SetupFlags(fs)
}

type hostTransport struct {
	rw     io.ReadWriter
	runner fx.Runnable
}

// openHost opens the host transport described by target.
func openHost(target string, baud int) (*hostTransport, error) {
	if !strings.Contains(target, "://") {
		port, err := link.OpenSerial(target, baud)
		if err != nil {
			return nil, err
		}
		return &hostTransport{rw: port}, nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid host %q: %w", target, err)
	}
	switch u.Scheme {
	case "serial":
		port, err := link.OpenSerial(u.Path, baud)
		if err != nil {
			return nil, err
		}
		return &hostTransport{rw: port}, nil
	case "tcp":
		srv, err := link.ListenTCP(u.Host)
		if err != nil {
			return nil, err
		}
		glog.Infof("host listening on tcp %s", srv.Addr())
		return &hostTransport{rw: srv, runner: fx.NamedRun("host-tcp", srv)}, nil
	case "ws":
		srv, err := link.ListenWebSocket(u.Host, u.Path)
		if err != nil {
			return nil, err
		}
		glog.Infof("host listening on websocket %s", srv.Addr())
		return &hostTransport{rw: srv, runner: fx.NamedRun("host-ws", srv)}, nil
	}
	return nil, fmt.Errorf("unsupported host transport %q", u.Scheme)
}

type busTransceiver struct {
	kind     string
	tr       can.Transceiver
	loopback *can.Loopback
	runner   fx.Runnable
	closer   io.Closer
}

// openBus opens the transceiver described by target.
func openBus(target string, queueSize int) (*busTransceiver, error) {
	switch target {
	case "", "none":
		return &busTransceiver{kind: "none"}, nil
	case "loopback":
		lb := can.NewLoopback(queueSize)
		return &busTransceiver{kind: "loopback", tr: lb, loopback: lb}, nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid bus %q: %w", target, err)
	}
	switch u.Scheme {
	case "ebyte":
		if u.Host == "" {
			return nil, fmt.Errorf("invalid bus %q: missing address", target)
		}
		adapter := ebyte.NewAdapter(u.Host, queueSize)
		return &busTransceiver{kind: "ebyte", tr: adapter, runner: fx.NamedRun(adapter.Name(), adapter)}, nil
	case "socketcan":
		bus, err := socketcan.Open(u.Host)
		if err != nil {
			return nil, err
		}
		return &busTransceiver{kind: "socketcan", tr: bus, closer: bus}, nil
	}
	return nil, fmt.Errorf("unsupported bus %q", target)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	conf := newDaemonConfig()
	if configFile != "" {
		if err := conf.overlayFile(configFile, cmd.Flags().Changed); err != nil {
			return err
		}
	}
	if err := conf.validate(); err != nil {
		return err
	}

	host, err := openHost(conf.Host, conf.Baud)
	if err != nil {
		return err
	}
	var buses [2]*busTransceiver
	for n, target := range []string{conf.BusA, conf.BusB} {
		bus, err := openBus(target, conf.BusQueue)
		if err != nil {
			return err
		}
		if bus.closer != nil {
			defer bus.closer.Close()
		}
		buses[n] = bus
	}

	board := conf.Board.NewBoard()
	channel := comm.NewHostChannel(host.rw)
	engine := conf.Bench.NewEngine(board.Periph(), channel, buses[comm.BusA].tr, buses[comm.BusB].tr)
	loop := fx.NewLoop().Add(engine)
	channel.OnData = loop.TriggerNext
	glog.Infof("loop order: %s", strings.Join(loop.Order(), ", "))

	meta := mirror.Meta{Identity: conf.Board.Identity}
	for n, bus := range buses {
		meta.Buses = append(meta.Buses, mirror.BusMeta{Name: bench.BusName(byte(n)), Kind: bus.kind})
	}
	var m *mirror.Mirror
	if conf.MQTTURL != "" {
		if m, err = mirror.NewFromURL(conf.MQTTURL, conf.Name, conf.MirrorQueue); err != nil {
			return err
		}
		m.Meta = meta
		for n, bus := range buses {
			if bus.loopback != nil {
				m.SetInjector(byte(n), bus.loopback)
			}
		}
		engine.SetObserver(m)
	}

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("loop", loop), fx.NamedRun("host", channel))
	if host.runner != nil {
		runner.Go(host.runner)
	}
	for _, bus := range buses {
		if bus.runner != nil {
			runner.Go(bus.runner)
		}
	}
	if m != nil {
		runner.Go(fx.NamedRun("mirror", m))
	}
	return runner.Wait()
}
