// Package sequence plays timed output patterns on the PWM channels.
//
// A sequence is a list of steps keyed by half-second counts since the
// sequence started. The player is advanced from the main loop every half
// second; a step runs when the count reaches its time.
package sequence

import (
	"pwmbox/core"
	"pwmbox/pwm"
)

// Action changes one channel. Mode and config changes may be combined.
type Action struct {
	Channel   int
	SetMode   bool
	Mode      pwm.Mode
	SetConfig bool
	Frequency int
	Duty      int
}

// Step is the set of actions due at one point in time
type Step struct {
	At      uint32
	Actions []Action
	End     bool
}

// Sequence is a named list of steps sorted by time
type Sequence struct {
	Name  string
	Steps []Step
}

// Outputs is the part of the PWM bank a sequence drives
type Outputs interface {
	SetMode(ch int, mode pwm.Mode)
	SetConfig(ch, frequency, duty int)
}

// NotRunning is the index reported while idle
const NotRunning = -1

// Player runs one sequence at a time
type Player struct {
	out       Outputs
	sequences []Sequence
	running   int
	half      uint32
	next      int
	onDone    func()
	log       *core.Logger
}

// NewPlayer creates a player over out
func NewPlayer(out Outputs, sequences []Sequence) *Player {
	return &Player{out: out, sequences: sequences, running: NotRunning}
}

// SetLogger sets the debug logger
func (p *Player) SetLogger(log *core.Logger) {
	p.log = log
}

// OnDone sets a callback run when a sequence reaches its last step
func (p *Player) OnDone(fn func()) {
	p.onDone = fn
}

// Count returns the number of sequences
func (p *Player) Count() int {
	return len(p.sequences)
}

// Name returns the name of sequence idx
func (p *Player) Name(idx int) string {
	if idx < 0 || idx >= len(p.sequences) {
		return ""
	}
	return p.sequences[idx].Name
}

// Running reports whether a sequence is playing
func (p *Player) Running() bool {
	return p.running != NotRunning
}

// Index returns the playing sequence, or NotRunning
func (p *Player) Index() int {
	return p.running
}

// Elapsed returns the half seconds since the sequence started
func (p *Player) Elapsed() uint32 {
	return p.half
}

// Start plays sequence idx from the beginning. The steps due at time zero
// run before Start returns.
func (p *Player) Start(idx int) {
	if idx < 0 || idx >= len(p.sequences) {
		return
	}
	p.running = idx
	p.half = 0
	p.next = 0
	p.log.Value("sequence started", "index", idx)
	p.run()
}

// Stop abandons the playing sequence. Outputs keep their last state.
func (p *Player) Stop() {
	p.running = NotRunning
	p.half = 0
	p.next = 0
}

// Advance moves the sequence forward by half a second
func (p *Player) Advance() {
	if p.running == NotRunning {
		return
	}
	p.half++
	p.run()
}

func (p *Player) run() {
	steps := p.sequences[p.running].Steps
	for p.next < len(steps) && steps[p.next].At <= p.half {
		st := &steps[p.next]
		p.next++
		for _, a := range st.Actions {
			if a.SetConfig {
				p.out.SetConfig(a.Channel, a.Frequency, a.Duty)
			}
			if a.SetMode {
				p.out.SetMode(a.Channel, a.Mode)
			}
		}
		if st.End {
			p.log.Value("sequence done", "index", p.running)
			p.Stop()
			if p.onDone != nil {
				p.onDone()
			}
			return
		}
	}
}
