// Package firmware ties the PWM box together: it owns every component,
// boots them in order, and runs the cooperative main loop.
//
// Interrupt handlers only touch the engine, the input decoders, the
// framer and the event queue. Everything else runs from Poll.
package firmware

import (
	"io"
	"sync/atomic"

	"pwmbox/config"
	"pwmbox/core"
	"pwmbox/input"
	"pwmbox/menu"
	"pwmbox/protocol"
	"pwmbox/pwm"
	"pwmbox/sequence"
	"pwmbox/store"
)

// Options are the platform bindings of a System
type Options struct {
	Config  *config.Config
	Output  core.OutputDriver
	Backend store.Backend
	Display menu.Display
	// Serial receives protocol replies
	Serial io.Writer
	Time   core.TimeSource
	// NewClock creates the tick source for the engine. Nil gives a
	// ManualClock, which only ticks through OnTick.
	NewClock func(*pwm.Engine) pwm.Clock
	Log      *core.Logger
}

// System is the firmware state. There is exactly one per device and it is
// passed around by reference.
type System struct {
	cfg    *config.Config
	time   core.TimeSource
	serial io.Writer
	log    *core.Logger

	engine *pwm.Engine
	clock  pwm.Clock
	bank   *pwm.Bank
	store  *store.Store
	player *sequence.Player
	menu   *menu.Controller
	proto  *protocol.Engine

	sched  core.Scheduler
	events core.EventQueue
	framer protocol.Framer
	rotary input.Decoder
	button *input.Button

	second core.Timer
	step   core.Timer

	// Written from interrupt context
	idle      atomic.Uint32
	bootPush  atomic.Bool
	bootPress bool
	dropped   atomic.Uint32

	warn     uint32
	booted   bool
	lastMenu menu.Menu
	panics   uint32
	frame    [protocol.BufferSize]byte
}

// New builds a System and runs the boot sequence up to, but not
// including, starting the tick clock
func New(opts Options) (*System, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	s := &System{
		cfg:    cfg,
		time:   opts.Time,
		serial: opts.Serial,
		log:    opts.Log,
		button: input.NewButton(cfg.Timing.DebounceMs, cfg.Timing.HoldMs),
	}

	s.engine = pwm.NewEngine(opts.Output)
	if opts.NewClock != nil {
		s.clock = opts.NewClock(s.engine)
	} else {
		s.clock = &pwm.ManualClock{Engine: s.engine}
	}
	s.bank = pwm.NewBank(s.engine, s.clock, cfg.Timing.Scale)
	s.bank.SetLogger(s.log.With("pwm"))

	var pins [pwm.NumChannels]core.GPIOPin
	for i, p := range cfg.PinArray() {
		pins[i] = core.GPIOPin(p)
	}
	if err := s.bank.Init(pins); err != nil {
		return nil, err
	}

	s.store = store.New(opts.Backend)
	s.store.SetLogger(s.log.With("store"))
	fresh, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if fresh {
		s.log.Println("initialized storage")
	}

	s.player = sequence.NewPlayer(s.bank, sequence.Builtin)
	s.player.SetLogger(s.log.With("slow"))

	s.menu = menu.New(menu.Options{
		Display:    opts.Display,
		Bank:       s.bank,
		Store:      s.store,
		Player:     s.player,
		Scheduler:  &s.sched,
		Time:       s.time,
		HWVersion:  cfg.Device.HWVersion,
		SWVersion:  cfg.Device.SWVersion,
		WrongDelay: cfg.Timing.WrongPassMs,
		Log:        s.log.With("menu"),
	})

	s.proto = protocol.NewEngine(s.store, protocol.Info{
		HWVersion: cfg.Device.HWVersion,
		SWVersion: cfg.Device.SWVersion,
	})
	s.proto.SetLogger(s.log.With("serial"))
	s.proto.SetHooks(protocol.Hooks{
		UploadStarted:   s.menu.UnloadActiveSlot,
		Changed:         s.menu.SlotsChanged,
		PasswordChanged: s.menu.PasswordChanged,
		Full: func() {
			s.menu.SlotsChanged()
			s.menu.Change(menu.Warn)
		},
	})

	// A default preset survives boot; otherwise every channel starts off
	active := store.NoSlot
	if ui := s.store.DefaultUI(); ui >= 0 {
		if slot, ok := s.store.Slot(ui); ok {
			s.bank.Load(slot.Settings())
			active = s.store.DefaultSlot()
			s.log.Value("default slot loaded", "slot", ui)
		}
	}
	s.menu.Setup(active, active == store.NoSlot)

	s.second.Handler = s.everySecond
	s.step.Handler = s.everyStep
	return s, nil
}

// Start starts the tick clock and the main-loop timers and shows the
// boot screen
func (s *System) Start() {
	s.clock.Start()

	now := s.time.Millis()
	s.second.WakeTime = now + 1000
	s.sched.Schedule(&s.second)
	s.step.WakeTime = now + s.cfg.Timing.SlowStepMs
	s.sched.Schedule(&s.step)

	s.lastMenu = s.menu.Current()
	s.menu.Reload()
	s.log.Println("started")
}

// Menu returns the menu controller
func (s *System) Menu() *menu.Controller {
	return s.menu
}

// Bank returns the virtual PWM layer
func (s *System) Bank() *pwm.Bank {
	return s.bank
}

// Engine returns the PWM engine
func (s *System) Engine() *pwm.Engine {
	return s.engine
}

// Clock returns the tick source
func (s *System) Clock() pwm.Clock {
	return s.clock
}

// Store returns the configuration store
func (s *System) Store() *store.Store {
	return s.store
}

// Player returns the slow-sequence player
func (s *System) Player() *sequence.Player {
	return s.player
}

// Protocol returns the serial protocol engine
func (s *System) Protocol() *protocol.Engine {
	return s.proto
}

// Idle returns the seconds since the last user input
func (s *System) Idle() uint32 {
	return s.idle.Load()
}

// Booted reports whether the boot screen delay is over
func (s *System) Booted() bool {
	return s.booted
}

// Panics returns the number of main-loop iterations that panicked
func (s *System) Panics() uint32 {
	return s.panics
}

// DroppedEvents returns the number of events lost to a full queue
func (s *System) DroppedEvents() uint32 {
	return s.dropped.Load()
}
