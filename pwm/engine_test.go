package pwm

import (
	"testing"

	"pwmbox/core"
)

var testPins = [NumChannels]core.GPIOPin{10, 11, 12, 13, 14, 15, 16, 17}

func newTestEngine(t *testing.T) (*Engine, *Bank, *core.MemoryGPIO) {
	t.Helper()
	gpio := core.NewMemoryGPIO()
	engine := NewEngine(gpio)
	bank := NewBank(engine, nil, DefaultScale)
	if err := bank.Init(testPins); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return engine, bank, gpio
}

// countHigh ticks the engine n times and counts the ticks the pin was high
func countHigh(e *Engine, gpio *core.MemoryGPIO, pin core.GPIOPin, n int) int {
	high := 0
	for i := 0; i < n; i++ {
		e.Tick()
		if gpio.ReadPin(pin) {
			high++
		}
	}
	return high
}

func TestEngineDutyOverPeriod(t *testing.T) {
	tests := []struct {
		name    string
		on      uint32
		total   uint32
		periods int
	}{
		{"half", 5, 10, 4},
		{"quarter", 25, 100, 3},
		{"one tick", 1, 7, 5},
		{"almost full", 6, 7, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, gpio := newTestEngine(t)
			ch := &engine.channels[0]
			ch.Mode = ModePWM
			ch.CyclesOn = tt.on
			ch.CyclesTotal = tt.total
			ch.Counter = 0

			// First pass brings the counter to the period edge
			countHigh(engine, gpio, ch.Pin, int(tt.total))

			for p := 0; p < tt.periods; p++ {
				got := countHigh(engine, gpio, ch.Pin, int(tt.total))
				if got != int(tt.on) {
					t.Errorf("Period %d: high for %d ticks, want %d", p, got, tt.on)
				}
			}
		})
	}
}

func TestEngineZeroOnStaysLow(t *testing.T) {
	engine, _, gpio := newTestEngine(t)
	ch := &engine.channels[2]
	ch.Mode = ModePWM
	ch.CyclesOn = 0
	ch.CyclesTotal = 8

	if got := countHigh(engine, gpio, ch.Pin, 100); got != 0 {
		t.Errorf("Pin high for %d ticks with CyclesOn=0", got)
	}
}

func TestEngineFullOnStaysHigh(t *testing.T) {
	engine, _, gpio := newTestEngine(t)
	ch := &engine.channels[3]
	ch.Mode = ModePWM
	ch.CyclesOn = 8
	ch.CyclesTotal = 8
	ch.Counter = 8

	if got := countHigh(engine, gpio, ch.Pin, 80); got != 80 {
		t.Errorf("Pin high for %d of 80 ticks with CyclesOn=CyclesTotal", got)
	}
}

func TestEngineStaticModes(t *testing.T) {
	engine, bank, gpio := newTestEngine(t)

	bank.SetMode(0, ModeOn)
	bank.SetMode(1, ModeOff)
	engine.Tick()

	if !gpio.ReadPin(testPins[0]) {
		t.Error("On channel should be high")
	}
	if gpio.ReadPin(testPins[1]) {
		t.Error("Off channel should be low")
	}

	bank.SetMode(0, ModeOff)
	engine.Tick()
	if gpio.ReadPin(testPins[0]) {
		t.Error("Channel switched Off should go low")
	}

	if engine.Ticks() != 2 {
		t.Errorf("Expected 2 ticks, got %d", engine.Ticks())
	}
}

func TestModeString(t *testing.T) {
	if ModeOff.String() != "OFF" || ModePWM.String() != "PWM" || ModeOn.String() != "ON" {
		t.Error("Unexpected mode names")
	}
}
