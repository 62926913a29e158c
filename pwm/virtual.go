package pwm

import "pwmbox/core"

// Parameter ranges accepted by the Bank. Anything outside is clamped.
const (
	MaxFrequency = 4000
	MaxDuty      = 100
	MaxPhase     = 99

	// DefaultScale maps frequency units onto engine ticks:
	// CyclesTotal = Scale / Frequency.
	DefaultScale = 200000
)

// Settings is the user-facing part of a channel
type Settings struct {
	Mode      Mode
	Frequency uint16
	Duty      uint8
	Phase     int8
}

// Settings returns the user-facing part of the channel
func (c Channel) Settings() Settings {
	return Settings{Mode: c.Mode, Frequency: c.Frequency, Duty: c.Duty, Phase: c.Phase}
}

// Bank is the main-loop view of the engine channels
type Bank struct {
	engine *Engine
	clock  Clock
	scale  uint32
	log    *core.Logger
}

// NewBank wraps an engine. clock may be nil when ticks are delivered by
// something that never needs pausing.
func NewBank(engine *Engine, clock Clock, scale uint32) *Bank {
	if scale == 0 {
		scale = DefaultScale
	}
	return &Bank{engine: engine, clock: clock, scale: scale}
}

// SetLogger sets the debug logger
func (b *Bank) SetLogger(log *core.Logger) {
	b.log = log
}

// Init binds the channel pins and resets every channel to Off
func (b *Bank) Init(pins [NumChannels]core.GPIOPin) error {
	state := core.DisableInterrupts()
	for i := range b.engine.channels {
		b.engine.channels[i] = Channel{Pin: pins[i]}
	}
	core.RestoreInterrupts(state)

	for i := range pins {
		state = core.DisableInterrupts()
		err := b.engine.out.ConfigureOutput(pins[i])
		if err == nil {
			b.engine.out.SetPin(pins[i], false)
		}
		core.RestoreInterrupts(state)
		if err != nil {
			return err
		}
		b.SetConfig(i, 0, 0)
	}
	return nil
}

func valid(ch int) bool {
	return ch >= 0 && ch < NumChannels
}

// SetMode changes the channel mode. Unknown modes are treated as On.
func (b *Bank) SetMode(ch int, mode Mode) {
	if !valid(ch) {
		return
	}
	if mode > ModeOn {
		mode = ModeOn
	}

	state := core.DisableInterrupts()
	b.engine.channels[ch].Mode = mode
	core.RestoreInterrupts(state)
}

// SetConfig clamps frequency and duty, then recomputes the tick thresholds
func (b *Bank) SetConfig(ch, frequency, duty int) {
	if !valid(ch) {
		return
	}
	frequency = core.Limit(frequency, 0, MaxFrequency)
	duty = core.Limit(duty, 0, MaxDuty)

	divisor := uint32(frequency)
	if divisor == 0 {
		divisor = 1
	}
	total := b.scale / divisor
	on := uint32(uint64(total) * uint64(duty) / 100)

	state := core.DisableInterrupts()
	c := &b.engine.channels[ch]
	err := b.engine.out.ConfigureOutput(c.Pin)
	c.Frequency = uint16(frequency)
	c.Duty = uint8(duty)
	c.CyclesTotal = total
	c.CyclesOn = on
	core.RestoreInterrupts(state)

	b.log.Error("configure output", err)
}

// phaseOffset returns total*phase/100 as a position inside [0, total]
func phaseOffset(total uint32, phase int) int64 {
	return int64(total) * int64(phase) / 100
}

// normalize folds a counter value back into one period
func normalize(v int64, total uint32) uint32 {
	t := int64(total)
	if t == 0 {
		return 0
	}
	if v < 0 || v > t {
		v = ((v % t) + t) % t
	}
	return uint32(v)
}

// SetPhase shifts the channel counter by the phase difference so the new
// phase takes effect without a resync
func (b *Bank) SetPhase(ch, phase int) {
	if !valid(ch) {
		return
	}
	phase = core.Limit(phase, -MaxPhase, MaxPhase)

	state := core.DisableInterrupts()
	c := &b.engine.channels[ch]
	delta := phaseOffset(c.CyclesTotal, phase) - phaseOffset(c.CyclesTotal, int(c.Phase))
	c.Counter = normalize(int64(c.Counter)+delta, c.CyclesTotal)
	c.Phase = int8(phase)
	core.RestoreInterrupts(state)
}

// Apply sets mode, config and phase of one channel
func (b *Bank) Apply(ch int, s Settings) {
	b.SetMode(ch, s.Mode)
	b.SetConfig(ch, int(s.Frequency), int(s.Duty))
	b.SetPhase(ch, int(s.Phase))
}

// Load applies settings to every channel and resynchronizes them
func (b *Bank) Load(settings [NumChannels]Settings) {
	for i := range settings {
		b.Apply(i, settings[i])
	}
	b.Sync()
}

// Sync pauses the tick clock and restarts every counter at its phase
// offset, so all channels share one reference edge. A stopped clock
// stays stopped.
func (b *Bank) Sync() {
	running := b.clock != nil && b.clock.Running()
	if running {
		b.clock.Stop()
	}

	state := core.DisableInterrupts()
	for i := range b.engine.channels {
		c := &b.engine.channels[i]
		c.Counter = normalize(phaseOffset(c.CyclesTotal, int(c.Phase)), c.CyclesTotal)
	}
	core.RestoreInterrupts(state)

	if running {
		b.clock.Start()
	}
	b.log.Println("channels synchronized")
}

// Channel returns a copy of one channel
func (b *Bank) Channel(ch int) Channel {
	if !valid(ch) {
		return Channel{}
	}
	state := core.DisableInterrupts()
	c := b.engine.channels[ch]
	core.RestoreInterrupts(state)
	return c
}

// Snapshot returns a copy of every channel
func (b *Bank) Snapshot() [NumChannels]Channel {
	state := core.DisableInterrupts()
	c := b.engine.channels
	core.RestoreInterrupts(state)
	return c
}

// Settings returns the user-facing settings of every channel
func (b *Bank) Settings() [NumChannels]Settings {
	var out [NumChannels]Settings
	for i, c := range b.Snapshot() {
		out[i] = c.Settings()
	}
	return out
}
