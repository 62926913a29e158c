package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// OutputDriver is the abstract GPIO interface the PWM engine drives.
// Platform-specific implementations handle actual hardware control.
type OutputDriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false).
	// Called from the tick interrupt, so it must not block or allocate.
	SetPin(pin GPIOPin, value bool)
}

// InputReader samples digital inputs (rotary encoder lines, push button)
type InputReader interface {
	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// ReadPin reads the current pin level
	ReadPin(pin GPIOPin) bool
}

// MemoryGPIO is an OutputDriver and InputReader backed by plain memory.
// The simulator and tests use it in place of real pins.
type MemoryGPIO struct {
	levels  map[GPIOPin]bool
	outputs map[GPIOPin]bool
	writes  uint64
}

// NewMemoryGPIO creates an empty MemoryGPIO
func NewMemoryGPIO() *MemoryGPIO {
	return &MemoryGPIO{
		levels:  make(map[GPIOPin]bool),
		outputs: make(map[GPIOPin]bool),
	}
}

// ConfigureOutput marks the pin as an output
func (m *MemoryGPIO) ConfigureOutput(pin GPIOPin) error {
	m.outputs[pin] = true
	return nil
}

// ConfigureInputPullUp configures the pin as an input idling high
func (m *MemoryGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	delete(m.outputs, pin)
	m.levels[pin] = true
	return nil
}

// SetPin records the level of a pin
func (m *MemoryGPIO) SetPin(pin GPIOPin, value bool) {
	m.levels[pin] = value
	m.writes++
}

// ReadPin returns the last level of a pin
func (m *MemoryGPIO) ReadPin(pin GPIOPin) bool {
	return m.levels[pin]
}

// IsOutput reports whether ConfigureOutput was called for the pin
func (m *MemoryGPIO) IsOutput(pin GPIOPin) bool {
	return m.outputs[pin]
}

// Writes returns the number of SetPin calls so far
func (m *MemoryGPIO) Writes() uint64 {
	return m.writes
}
