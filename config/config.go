// Package config holds the device configuration: identity, timing and
// the channel pin map.
package config

// NumPins is the number of output channels
const NumPins = 8

// Config is the complete device configuration
type Config struct {
	Device DeviceConfig `json:"device"`
	Timing TimingConfig `json:"timing"`
	Serial SerialConfig `json:"serial"`
	// Pins lists the output pin of each channel in channel order
	Pins []uint32 `json:"pins"`
}

// DeviceConfig is what the device reports about itself
type DeviceConfig struct {
	HWVersion string `json:"hw_version"`
	SWVersion string `json:"sw_version"`
}

// TimingConfig holds the tick rate and the UI timings
type TimingConfig struct {
	// TickRate is the engine tick frequency in Hz
	TickRate uint32 `json:"tick_rate"`
	// Scale is the tick count of one period at a frequency of 1
	Scale uint32 `json:"scale"`

	DebounceMs  uint32 `json:"debounce_ms"`
	HoldMs      uint32 `json:"hold_ms"`
	WrongPassMs uint32 `json:"wrong_pass_ms"`
	UITimeoutS  uint32 `json:"ui_timeout_s"`
	BootDelayS  uint32 `json:"boot_delay_s"`
	WarnDelayS  uint32 `json:"warn_delay_s"`
	SlowStepMs  uint32 `json:"slow_step_ms"`
}

// SerialConfig configures the UART
type SerialConfig struct {
	Baud int `json:"baud"`
}

// Default returns the configuration of the hardware 2.3 board
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// applyDefaults fills in missing configuration values
func applyDefaults(c *Config) {
	if c.Device.HWVersion == "" {
		c.Device.HWVersion = "2.3"
	}
	if c.Device.SWVersion == "" {
		c.Device.SWVersion = "2.0"
	}

	t := &c.Timing
	if t.TickRate == 0 {
		t.TickRate = 20000
	}
	if t.Scale == 0 {
		t.Scale = 200000
	}
	if t.DebounceMs == 0 {
		t.DebounceMs = 100
	}
	if t.HoldMs == 0 {
		t.HoldMs = 2000
	}
	if t.WrongPassMs == 0 {
		t.WrongPassMs = 2000
	}
	if t.UITimeoutS == 0 {
		t.UITimeoutS = 30
	}
	if t.BootDelayS == 0 {
		t.BootDelayS = 3
	}
	if t.WarnDelayS == 0 {
		t.WarnDelayS = 3
	}
	if t.SlowStepMs == 0 {
		t.SlowStepMs = 500
	}

	if c.Serial.Baud == 0 {
		c.Serial.Baud = 115200
	}

	// Virtual pin numbers; targets override them with real ones
	if len(c.Pins) != NumPins {
		c.Pins = make([]uint32, NumPins)
		for i := range c.Pins {
			c.Pins[i] = uint32(i)
		}
	}
}

// PinArray returns the pin map as a fixed array
func (c *Config) PinArray() [NumPins]uint32 {
	var out [NumPins]uint32
	copy(out[:], c.Pins)
	return out
}
