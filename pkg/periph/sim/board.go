// Package sim provides an in-memory bench.
package sim

import (
	"sync"

	"github.com/spf13/pflag"

	"github.com/robotalks/hil.go/pkg/periph"
)

// Config defines the shape of the simulated bench.
type Config struct {
	Identity byte
	Pins     int
	Analogs  int
	Outputs  int
	Loads    int
}

var defaultConfig = Config{
	Identity: 1,
	Pins:     64,
	Analogs:  16,
	Outputs:  8,
	Loads:    6,
}

// SetupFlags sets command line flags.
func SetupFlags(fs *pflag.FlagSet) {
	fs.Uint8Var(&defaultConfig.Identity, "id", defaultConfig.Identity, "Identity byte reported by READ_ID.")
	fs.IntVar(&defaultConfig.Pins, "pins", defaultConfig.Pins, "Number of digital pins.")
	fs.IntVar(&defaultConfig.Analogs, "analogs", defaultConfig.Analogs, "Number of analog inputs.")
	fs.IntVar(&defaultConfig.Outputs, "outputs", defaultConfig.Outputs, "Number of voltage output channels.")
	fs.IntVar(&defaultConfig.Loads, "loads", defaultConfig.Loads, "Number of resistive load channels.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewBoard creates a Board using the config.
func (c *Config) NewBoard() *Board {
	return NewBoard(*c)
}

// Board is an in-memory bench. All peripherals share one lock so the board
// can be inspected while the firmware runs.
type Board struct {
	Config Config

	lock    sync.Mutex
	pins    []*Pin
	analogs []*Analog
	outputs []*Output
	loads   []*Load
}

// NewBoard creates a Board.
func NewBoard(conf Config) *Board {
	b := &Board{Config: conf}
	for i := 0; i < conf.Pins; i++ {
		b.pins = append(b.pins, &Pin{lock: &b.lock})
	}
	for i := 0; i < conf.Analogs; i++ {
		b.analogs = append(b.analogs, &Analog{lock: &b.lock})
	}
	for i := 0; i < conf.Outputs; i++ {
		b.outputs = append(b.outputs, &Output{lock: &b.lock})
	}
	for i := 0; i < conf.Loads; i++ {
		b.loads = append(b.loads, &Load{lock: &b.lock})
	}
	return b
}

// Periph returns the board as seen by the firmware.
func (b *Board) Periph() periph.Board {
	pb := periph.Board{
		Identity: b.Config.Identity,
		Pins:     pinBank{b},
		Analogs:  analogBank{b},
	}
	for _, o := range b.outputs {
		pb.Outputs = append(pb.Outputs, o)
	}
	for _, l := range b.loads {
		pb.Loads = append(pb.Loads, l)
	}
	return pb
}

// PinAt returns a simulated pin, nil if out of range.
func (b *Board) PinAt(n int) *Pin {
	if n < 0 || n >= len(b.pins) {
		return nil
	}
	return b.pins[n]
}

// AnalogAt returns a simulated analog input, nil if out of range.
func (b *Board) AnalogAt(n int) *Analog {
	if n < 0 || n >= len(b.analogs) {
		return nil
	}
	return b.analogs[n]
}

// OutputAt returns a simulated output channel, nil if out of range.
func (b *Board) OutputAt(n int) *Output {
	if n < 0 || n >= len(b.outputs) {
		return nil
	}
	return b.outputs[n]
}

// LoadAt returns a simulated load channel, nil if out of range.
func (b *Board) LoadAt(n int) *Load {
	if n < 0 || n >= len(b.loads) {
		return nil
	}
	return b.loads[n]
}

// Wire connects an analog input to an output channel, so that the input
// reads the channel's voltage scaled to the analog range.
func (b *Board) Wire(analog, output int) {
	a, o := b.AnalogAt(analog), b.OutputAt(output)
	if a == nil || o == nil {
		return
	}
	b.lock.Lock()
	a.source = o
	b.lock.Unlock()
}

type pinBank struct{ b *Board }

func (p pinBank) Pin(n byte) (periph.DigitalPin, bool) {
	if pin := p.b.PinAt(int(n)); pin != nil {
		return pin, true
	}
	return nil, false
}

type analogBank struct{ b *Board }

func (a analogBank) Analog(n byte) (periph.AnalogInput, bool) {
	if in := a.b.AnalogAt(int(n)); in != nil {
		return in, true
	}
	return nil, false
}
