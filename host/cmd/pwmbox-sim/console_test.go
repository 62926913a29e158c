package main

import (
	"bytes"
	"strings"
	"testing"

	"go.viam.com/test"

	"pwmbox/core"
	"pwmbox/firmware"
	"pwmbox/menu"
	"pwmbox/store"
)

func newConsole(t *testing.T) (*console, *bytes.Buffer, *core.ManualTime) {
	t.Helper()
	var out, replies bytes.Buffer
	clock := &core.ManualTime{}
	gpio := core.NewMemoryGPIO()
	lcd := menu.NewTextDisplay()
	sys, err := firmware.New(firmware.Options{
		Output:  gpio,
		Backend: store.NewMemory(store.ImageSize),
		Display: lcd,
		Serial:  replyPrinter{out: &replies},
		Time:    clock,
	})
	test.That(t, err, test.ShouldBeNil)
	sys.Start()
	return &console{sys: sys, lcd: lcd, gpio: gpio, out: &out}, &replies, clock
}

func TestConsoleSend(t *testing.T) {
	c, replies, _ := newConsole(t)
	test.That(t, c.run(`send "?,i"`), test.ShouldBeTrue)
	c.sys.Poll()
	test.That(t, replies.String(), test.ShouldEqual, "< ^!,i,77,2.3,2.0,n,15\n")
}

func TestConsoleTurn(t *testing.T) {
	c, _, clock := newConsole(t)
	clock.Set(3000)
	c.sys.Poll()
	test.That(t, c.sys.Menu().Current(), test.ShouldEqual, menu.List)

	c.run("r 2")
	c.sys.Poll()
	c.sys.Poll()
	test.That(t, c.lcd.Line(2), test.ShouldEqual, "→PWM 3")
}

func TestConsoleQuitAndUnknown(t *testing.T) {
	c, _, _ := newConsole(t)
	test.That(t, c.run("bogus"), test.ShouldBeTrue)
	test.That(t, c.out.(*bytes.Buffer).String(), test.ShouldContainSubstring, "Unknown command: bogus")
	test.That(t, c.run(`send "unterminated`), test.ShouldBeTrue)
	test.That(t, c.run("quit"), test.ShouldBeFalse)
}

func TestConsolePins(t *testing.T) {
	c, _, _ := newConsole(t)
	c.pins()
	out := c.out.(*bytes.Buffer).String()
	test.That(t, strings.Count(out, "\n"), test.ShouldEqual, 8)
	test.That(t, out, test.ShouldContainSubstring, "PWM 1")
}
