package input

// Press classifies a button release
type Press uint8

const (
	NoPress Press = iota
	Push
	Hold
)

func (p Press) String() string {
	switch p {
	case Push:
		return "push"
	case Hold:
		return "hold"
	}
	return "none"
}

// Default button timing in milliseconds
const (
	DefaultDebounce = 100
	DefaultHoldTime = 2000
)

// Button turns edges of the push button into presses. A falling edge
// that arrives Debounce or less after the last accepted one is a bounce
// and is dropped. A release is a Hold when the press lasted longer than
// HoldTime, a Push otherwise.
type Button struct {
	Debounce uint32
	HoldTime uint32

	pressed   bool
	lastPress uint32
	accepted  bool
}

// NewButton creates a button with the given timing
func NewButton(debounce, hold uint32) *Button {
	return &Button{Debounce: debounce, HoldTime: hold}
}

// Pressed reports whether an accepted press is in progress
func (b *Button) Pressed() bool {
	return b.pressed
}

// Edge consumes a level change. pressed is the logical state of the
// button and now a millisecond timestamp.
func (b *Button) Edge(pressed bool, now uint32) Press {
	if pressed {
		if b.accepted && now-b.lastPress <= b.Debounce {
			return NoPress
		}
		b.accepted = true
		b.pressed = true
		b.lastPress = now
		return NoPress
	}

	if !b.pressed {
		return NoPress
	}
	b.pressed = false
	if now-b.lastPress > b.HoldTime {
		return Hold
	}
	return Push
}
