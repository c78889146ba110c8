// Package periph defines the peripherals driven by the bench firmware.
package periph

// DigitalPin is a general purpose I/O pin.
type DigitalPin interface {
	ConfigureAsOutput()
	// ConfigureAsInput leaves the pin floating (high impedance).
	ConfigureAsInput()
	Write(level bool)
	Read() bool
}

// AnalogInput samples a voltage.
type AnalogInput interface {
	// Read returns a value in [0, 4095].
	Read() uint16
}

// OutputChannel is a programmable voltage output.
type OutputChannel interface {
	Wake()
	PowerDown()
	SetValue(byte)
}

// LoadChannel is a programmable resistive load.
type LoadChannel interface {
	SetSteps(byte)
}

// PinBank resolves digital pins by number.
type PinBank interface {
	Pin(n byte) (DigitalPin, bool)
}

// AnalogBank resolves analog inputs by pin number.
type AnalogBank interface {
	Analog(n byte) (AnalogInput, bool)
}

// Board is the set of peripherals wired to the firmware.
type Board struct {
	Identity byte
	Pins     PinBank
	Analogs  AnalogBank
	Outputs  []OutputChannel
	Loads    []LoadChannel
}

// PowerState is the power state of an output channel.
type PowerState int

const (
	// PoweredDown is the state after reset and after an explicit power down.
	PoweredDown PowerState = iota
	// Awake means the channel has been woken by a write.
	Awake
)

// String implements fmt.Stringer.
func (s PowerState) String() string {
	if s == Awake {
		return "awake"
	}
	return "powered-down"
}
