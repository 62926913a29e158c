package sequence

import "pwmbox/pwm"

// Channel roles of the built-in sequences
const (
	Blinker     = 0
	Fernlicht   = 1
	FernlichtLR = 2
	FernlichtM  = 3
	Tagfahr     = 4
	Abblend     = 5
)

func mode(ch int, m pwm.Mode) Action {
	return Action{Channel: ch, SetMode: true, Mode: m}
}

func config(ch, frequency, duty int) Action {
	return Action{Channel: ch, SetConfig: true, Frequency: frequency, Duty: duty}
}

func step(at uint32, actions ...Action) Step {
	return Step{At: at, Actions: actions}
}

func last(at uint32, actions ...Action) Step {
	return Step{At: at, Actions: actions, End: true}
}

// Builtin holds the sequences offered by the slow menu, in menu order.
// Frequencies are in tenths of hertz and step times in half seconds.
var Builtin = []Sequence{
	{
		Name: "Blinkers",
		Steps: []Step{
			step(0, config(Blinker, 10, 50), mode(Blinker, pwm.ModePWM)),
			last(10, mode(Blinker, pwm.ModeOff)),
		},
	},
	{
		Name: "Fernlicht",
		Steps: []Step{
			step(0, mode(Fernlicht, pwm.ModeOn)),
			step(40, mode(Fernlicht, pwm.ModeOff)),
			step(64, mode(Fernlicht, pwm.ModePWM), config(Fernlicht, 20, 50)),
			step(76, config(Fernlicht, 100, 50)),
			last(80, mode(Fernlicht, pwm.ModeOff)),
		},
	},
	{
		Name: "Fernlicht L & R",
		Steps: []Step{
			step(0, config(FernlichtLR, 100, 50), mode(FernlichtLR, pwm.ModeOn)),
			step(4, mode(FernlichtLR, pwm.ModePWM)),
			step(12, mode(FernlichtLR, pwm.ModeOn)),
			step(20, mode(FernlichtLR, pwm.ModePWM)),
			step(28, mode(FernlichtLR, pwm.ModeOn)),
			last(40, mode(FernlichtLR, pwm.ModeOff)),
		},
	},
	{
		Name: "Fernlicht M",
		Steps: []Step{
			step(0, config(FernlichtM, 100, 50), mode(FernlichtM, pwm.ModeOn)),
			step(4, mode(FernlichtM, pwm.ModePWM)),
			step(8, mode(FernlichtM, pwm.ModeOn)),
			step(20, mode(FernlichtM, pwm.ModePWM)),
			step(24, mode(FernlichtM, pwm.ModeOn)),
			last(40, mode(FernlichtM, pwm.ModeOff)),
		},
	},
	{
		Name: "Tagfah. & Abblen.",
		Steps: []Step{
			step(0, mode(Tagfahr, pwm.ModeOff), mode(Abblend, pwm.ModeOn)),
			step(36, mode(Tagfahr, pwm.ModeOn), mode(Abblend, pwm.ModeOff)),
			step(40, mode(Tagfahr, pwm.ModeOff), mode(Abblend, pwm.ModeOn)),
			step(80, mode(Tagfahr, pwm.ModeOn), mode(Abblend, pwm.ModeOff)),
			step(86, mode(Tagfahr, pwm.ModeOff), mode(Abblend, pwm.ModeOn)),
			step(92, mode(Tagfahr, pwm.ModeOn), mode(Abblend, pwm.ModeOff)),
			last(120, mode(Tagfahr, pwm.ModeOff), mode(Abblend, pwm.ModeOff)),
		},
	},
}
