package sim

import "sync"

// Pin is a simulated digital pin.
type Pin struct {
	lock     *sync.Mutex
	output   bool
	level    bool
	external bool
}

// ConfigureAsOutput implements periph.DigitalPin.
func (p *Pin) ConfigureAsOutput() {
	p.lock.Lock()
	p.output = true
	p.lock.Unlock()
}

// ConfigureAsInput implements periph.DigitalPin.
func (p *Pin) ConfigureAsInput() {
	p.lock.Lock()
	p.output = false
	p.lock.Unlock()
}

// Write implements periph.DigitalPin.
func (p *Pin) Write(level bool) {
	p.lock.Lock()
	p.level = level
	p.lock.Unlock()
}

// Read implements periph.DigitalPin. An output reads back its driven level,
// an input reads the external level.
func (p *Pin) Read() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.output {
		return p.level
	}
	return p.external
}

// SetExternal sets the level applied to the pin from outside.
func (p *Pin) SetExternal(level bool) {
	p.lock.Lock()
	p.external = level
	p.lock.Unlock()
}

// State returns whether the pin is an output and the level it drives.
func (p *Pin) State() (output, level bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.output, p.level
}

// Analog is a simulated analog input.
type Analog struct {
	lock   *sync.Mutex
	value  uint16
	source *Output
}

// Read implements periph.AnalogInput.
func (a *Analog) Read() uint16 {
	a.lock.Lock()
	defer a.lock.Unlock()
	if o := a.source; o != nil {
		if !o.awake {
			return 0
		}
		return uint16(uint32(o.value) * 4095 / 255)
	}
	return a.value
}

// Set sets the sampled value, clamped to 4095.
func (a *Analog) Set(value uint16) {
	if value > 4095 {
		value = 4095
	}
	a.lock.Lock()
	a.value = value
	a.lock.Unlock()
}

// Output is a simulated voltage output channel.
type Output struct {
	lock       *sync.Mutex
	awake      bool
	value      byte
	wakes      int
	powerDowns int
}

// Wake implements periph.OutputChannel.
func (o *Output) Wake() {
	o.lock.Lock()
	o.awake = true
	o.wakes++
	o.lock.Unlock()
}

// PowerDown implements periph.OutputChannel.
func (o *Output) PowerDown() {
	o.lock.Lock()
	o.awake = false
	o.powerDowns++
	o.lock.Unlock()
}

// SetValue implements periph.OutputChannel. A powered down channel latches
// the value without driving it.
func (o *Output) SetValue(v byte) {
	o.lock.Lock()
	o.value = v
	o.lock.Unlock()
}

// OutputState is a snapshot of an Output.
type OutputState struct {
	Awake      bool
	Value      byte
	Wakes      int
	PowerDowns int
}

// State returns a snapshot.
func (o *Output) State() OutputState {
	o.lock.Lock()
	defer o.lock.Unlock()
	return OutputState{Awake: o.awake, Value: o.value, Wakes: o.wakes, PowerDowns: o.powerDowns}
}

// Load is a simulated resistive load channel.
type Load struct {
	lock   *sync.Mutex
	steps  byte
	writes int
}

// SetSteps implements periph.LoadChannel.
func (l *Load) SetSteps(v byte) {
	l.lock.Lock()
	l.steps = v
	l.writes++
	l.lock.Unlock()
}

// State returns the current steps and the number of writes.
func (l *Load) State() (steps byte, writes int) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.steps, l.writes
}
