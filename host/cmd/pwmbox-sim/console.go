package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/shlex"

	"pwmbox/core"
	"pwmbox/firmware"
	"pwmbox/menu"
	"pwmbox/protocol"
	"pwmbox/pwm"
)

// Button press lengths
const (
	pressTime = 50 * time.Millisecond
	holdTime  = 2100 * time.Millisecond
)

// Encoder line levels for one detent, as a<<1|b
var (
	cwDetent  = []uint8{1, 0, 2, 3}
	ccwDetent = []uint8{2, 0, 1, 3}
)

// console turns typed commands into input edges. It runs on the main
// loop goroutine so it can read the display safely.
type console struct {
	sys  *firmware.System
	lcd  *menu.TextDisplay
	gpio *core.MemoryGPIO
	out  io.Writer

	release time.Time
	redraws int
}

func (c *console) help() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "  l [N] / r [N]   - Turn the encoder left or right N detents")
	fmt.Fprintln(c.out, "  p               - Press the button")
	fmt.Fprintln(c.out, "  h               - Hold the button")
	fmt.Fprintln(c.out, "  send FRAME      - Feed a protocol frame, e.g. send ?,i")
	fmt.Fprintln(c.out, "  show            - Print the display")
	fmt.Fprintln(c.out, "  pins            - Print the channels")
	fmt.Fprintln(c.out, "  quit            - Exit")
}

// run executes one console line. It returns false on quit.
func (c *console) run(line string) bool {
	args, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return true
	}
	if len(args) == 0 {
		return true
	}

	switch args[0] {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		c.help()
	case "l", "r":
		n := 1
		if len(args) > 1 {
			n = core.Limit(core.Atoi(args[1]), 1, 100)
		}
		seq := cwDetent
		if args[0] == "l" {
			seq = ccwDetent
		}
		c.turn(seq, n)
	case "p":
		c.button(pressTime)
	case "h":
		c.button(holdTime)
	case "send":
		if len(args) < 2 {
			fmt.Fprintln(c.out, "send needs a frame")
			break
		}
		c.send(strings.Join(args[1:], " "))
	case "show":
		fmt.Fprint(c.out, c.lcd)
	case "pins":
		c.pins()
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for available commands)\n", args[0])
	}
	return true
}

func (c *console) turn(seq []uint8, n int) {
	for i := 0; i < n; i++ {
		for _, p := range seq {
			core.Critical(func() { c.sys.OnRotaryEdge(p&2 != 0, p&1 != 0) })
		}
	}
}

func (c *console) button(length time.Duration) {
	if !c.release.IsZero() {
		return
	}
	core.Critical(func() { c.sys.OnButtonEdge(true) })
	c.release = time.Now().Add(length)
}

func (c *console) send(frame string) {
	frame = string(protocol.StartByte) + frame + string(protocol.EndByte)
	for i := 0; i < len(frame); i++ {
		b := frame[i]
		core.Critical(func() { c.sys.OnSerialByte(b) })
	}
}

// tick releases a pending button press and prints the display after
// it changed
func (c *console) tick() {
	if !c.release.IsZero() && time.Now().After(c.release) {
		c.release = time.Time{}
		core.Critical(func() { c.sys.OnButtonEdge(false) })
	}
	if d := c.lcd.Redraws(); d != c.redraws {
		c.redraws = d
		fmt.Fprint(c.out, c.lcd)
	}
}

func (c *console) pins() {
	channels := c.sys.Bank().Snapshot()
	var levels [pwm.NumChannels]bool
	core.Critical(func() {
		for i, ch := range channels {
			levels[i] = c.gpio.ReadPin(ch.Pin)
		}
	})
	for i, ch := range channels {
		level := "low"
		if levels[i] {
			level = "high"
		}
		fmt.Fprintf(c.out, "%d %-19s %-3s %6.1f Hz %3d%% %+3d%%  %d/%d %s\n",
			i, c.sys.Menu().ChannelName(i), ch.Mode, float64(ch.Frequency)/10,
			ch.Duty, ch.Phase, ch.CyclesOn, ch.CyclesTotal, level)
	}
}
