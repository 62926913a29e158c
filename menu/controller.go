// Package menu implements the local user interface: six screens driven
// by rotary scroll, press and hold events.
//
// Every screen keeps its own cursor and editing state. The only state
// shared between screens is the PWM bank, the lock flag, and the active
// slot. Screens redraw completely on every change.
package menu

import (
	"pwmbox/core"
	"pwmbox/pwm"
	"pwmbox/sequence"
	"pwmbox/store"
)

// Menu identifies a screen
type Menu uint8

const (
	Info Menu = iota
	Warn
	List
	Pwm
	Pass
	Slow
)

func (m Menu) String() string {
	switch m {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case List:
		return "list"
	case Pwm:
		return "pwm"
	case Pass:
		return "pass"
	case Slow:
		return "slow"
	}
	return "unknown"
}

// Options wires a Controller
type Options struct {
	Display   Display
	Bank      *pwm.Bank
	Store     *store.Store
	Player    *sequence.Player
	Scheduler *core.Scheduler
	Time      core.TimeSource
	HWVersion string
	SWVersion string
	// WrongDelay is how long a wrong password message stays, in ms
	WrongDelay uint32
	Log        *core.Logger
}

// DefaultWrongDelay is the wrong password message time in ms
const DefaultWrongDelay = 2000

// Controller is the menu state machine
type Controller struct {
	lcd    Display
	bank   *pwm.Bank
	store  *store.Store
	player *sequence.Player
	sched  *core.Scheduler
	clock  core.TimeSource
	log    *core.Logger

	hwVersion string
	swVersion string

	current  Menu
	previous Menu
	locked   bool

	// active is the storage index of the loaded slot, or store.NoSlot
	active     int
	brightness uint8

	list listState
	pwm  pwmState
	pass passState
	slow slowState
}

// New creates a controller showing Info, with List as the screen to
// revert to. Call Setup before use.
func New(opts Options) *Controller {
	c := &Controller{
		lcd:       opts.Display,
		bank:      opts.Bank,
		store:     opts.Store,
		player:    opts.Player,
		sched:     opts.Scheduler,
		clock:     opts.Time,
		log:       opts.Log,
		hwVersion: opts.HWVersion,
		swVersion: opts.SWVersion,
		current:   Info,
		previous:  List,
		locked:    true,
		active:    store.NoSlot,
	}
	delay := opts.WrongDelay
	if delay == 0 {
		delay = DefaultWrongDelay
	}
	c.pass.delay = delay
	c.pass.timer.Handler = c.wrongDone
	if c.player != nil {
		c.player.OnDone(c.Reload)
	}
	return c
}

// Setup loads persistent UI state: glyphs, brightness, lock, active
// slot and channel names. resetOutputs runs the slow screen setup, which
// turns every channel off.
func (c *Controller) Setup(active int, resetOutputs bool) {
	c.brightness = c.store.Brightness()
	c.applyBrightness()
	c.locked = c.store.PasswordSet()
	c.active = store.NoSlot
	if c.store.UIIndex(active) >= 0 {
		c.active = active
	}
	c.updateNames()
	if resetOutputs {
		c.slowSetup()
	}
	c.Reload()
}

// Current returns the screen on display
func (c *Controller) Current() Menu {
	return c.current
}

// Previous returns the screen Revert goes back to
func (c *Controller) Previous() Menu {
	return c.previous
}

// Locked reports whether load, save and delete need the password
func (c *Controller) Locked() bool {
	return c.locked
}

// SetLocked sets the lock flag
func (c *Controller) SetLocked(locked bool) {
	c.locked = locked
}

// ActiveSlot returns the storage index of the loaded slot, or store.NoSlot
func (c *Controller) ActiveSlot() int {
	return c.active
}

// Brightness returns the live backlight value, 0..100
func (c *Controller) Brightness() uint8 {
	return c.brightness
}

// Change switches to next. Switching to the current screen does nothing.
// Entering Slow turns every channel off.
func (c *Controller) Change(next Menu) {
	if next == c.current {
		return
	}
	c.previous = c.current
	c.current = next
	c.log.Value("menu", "screen", int(next))

	if next == Slow {
		c.slowSetup()
	}
	c.Reload()
}

// Revert switches back to the previous screen
func (c *Controller) Revert() {
	c.Change(c.previous)
}

// Reload redraws the current screen
func (c *Controller) Reload() {
	c.lcd.Clear()
	switch c.current {
	case Info:
		c.drawInfo()
	case Warn:
		c.drawWarn()
	case List:
		c.drawList()
	case Pwm:
		c.drawPwm()
	case Pass:
		c.drawPass()
	case Slow:
		c.drawSlow()
	}
}

// Scroll handles one rotary detent; dir is +1 or -1
func (c *Controller) Scroll(dir int) {
	switch c.current {
	case List:
		c.listScroll(dir)
	case Pwm:
		c.pwmScroll(dir)
	case Pass:
		c.passScroll(dir)
	case Slow:
		c.slowScroll(dir)
	}
}

// Press handles a short button press
func (c *Controller) Press() {
	switch c.current {
	case List:
		c.listPress()
	case Pwm:
		c.pwmPress()
	case Pass:
		c.passPress()
	case Slow:
		c.slowPress()
	}
}

// Hold toggles between Slow and List
func (c *Controller) Hold() {
	if c.current == Slow {
		c.Change(List)
	} else {
		c.Change(Slow)
	}
}

// UnloadActiveSlot forgets the loaded slot and turns every channel off
func (c *Controller) UnloadActiveSlot() {
	c.active = store.NoSlot
	for i := 0; i < pwm.NumChannels; i++ {
		c.bank.SetMode(i, pwm.ModeOff)
		c.bank.SetConfig(i, 0, 0)
		c.bank.SetPhase(i, 0)
	}
	c.updateNames()
	c.Reload()
}

// SlotsChanged refreshes state derived from the slot table after it
// was changed behind the menu's back
func (c *Controller) SlotsChanged() {
	if c.active != store.NoSlot && c.store.UIIndex(c.active) < 0 {
		c.active = store.NoSlot
	}
	c.updateNames()
	c.Reload()
}

// PasswordChanged re-derives the lock flag after the password was set
// behind the menu's back. Locking closes a pending load, save or delete;
// clearing the password leaves Pass for List.
func (c *Controller) PasswordChanged() {
	c.locked = c.store.PasswordSet()
	switch {
	case c.locked && c.current == List:
		if c.list.mode != listBrowse && c.list.mode != listBrightness {
			c.list.mode = listBrowse
		}
		c.Reload()
	case !c.locked && c.current == Pass:
		c.pass.editing = false
		c.Change(List)
	}
}

func (c *Controller) applyBrightness() {
	c.lcd.SetBrightness(brightnessLevel(c.brightness))
}

// brightnessLevel maps the stored value to the level shown and applied
func brightnessLevel(b uint8) uint8 {
	return uint8(MaxLevel - int(b)/20)
}

// at moves the display cursor
func (c *Controller) at(x, y int) {
	c.lcd.SetCursor(uint8(x), uint8(y))
}

// selection draws "←text→" starting at column x
func (c *Controller) selection(x, y int, text string) {
	c.at(x, y)
	c.lcd.PutGlyph(GlyphLeft)
	c.lcd.Print(text)
	c.lcd.PutGlyph(GlyphRight)
}
