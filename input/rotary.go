// Package input decodes the rotary encoder and its push button.
//
// Both decoders are pure state machines fed with pin levels and, for the
// button, a millisecond timestamp. They are called from the tick
// interrupt and never block.
package input

// State is a position of the quadrature state machine
type State uint8

const (
	StateStart State = iota
	StateCWFinal
	StateCWBegin
	StateCWNext
	StateCCWBegin
	StateCCWFinal
	StateCCWNext

	numStates
)

// Direction is the result of a completed detent
type Direction int8

const (
	DirNone Direction = 0
	DirCW   Direction = 1
	DirCCW  Direction = -1
)

func (d Direction) String() string {
	switch d {
	case DirCW:
		return "CW"
	case DirCCW:
		return "CCW"
	}
	return "none"
}

// Transition is one cell of the table: the next state and the direction
// emitted on entering it
type Transition struct {
	Next State
	Dir  Direction
}

func to(s State) Transition { return Transition{Next: s} }

// table is indexed by [state][a<<1|b]. A direction is emitted only when
// a full detent ends back in the rest position.
var table = [numStates][4]Transition{
	StateStart:    {to(StateStart), to(StateCWBegin), to(StateCCWBegin), to(StateStart)},
	StateCWFinal:  {to(StateCWNext), to(StateStart), to(StateCWFinal), {StateStart, DirCW}},
	StateCWBegin:  {to(StateCWNext), to(StateCWBegin), to(StateStart), to(StateStart)},
	StateCWNext:   {to(StateCWNext), to(StateCWBegin), to(StateCWFinal), to(StateStart)},
	StateCCWBegin: {to(StateCCWNext), to(StateStart), to(StateCCWBegin), to(StateStart)},
	StateCCWFinal: {to(StateCCWNext), to(StateCCWFinal), to(StateStart), {StateStart, DirCCW}},
	StateCCWNext:  {to(StateCCWNext), to(StateCCWFinal), to(StateCCWBegin), to(StateStart)},
}

// Lookup returns the transition for a state and a pin pair
func Lookup(s State, a, b bool) Transition {
	return table[s%numStates][pinState(a, b)]
}

func pinState(a, b bool) uint8 {
	var p uint8
	if a {
		p |= 2
	}
	if b {
		p |= 1
	}
	return p
}

// Decoder follows the encoder pins through the table
type Decoder struct {
	state State
}

// State returns the current table state
func (d *Decoder) State() State {
	return d.state
}

// Reset returns the decoder to the rest position
func (d *Decoder) Reset() {
	d.state = StateStart
}

// Step consumes one sample of the A and B pins
func (d *Decoder) Step(a, b bool) Direction {
	t := Lookup(d.state, a, b)
	d.state = t.Next
	return t.Dir
}
