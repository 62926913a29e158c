package menu

import (
	"pwmbox/core"
	"pwmbox/pwm"
)

// Rows of the channel screen; cursorBack is the back arrow
const (
	cursorMode = iota
	cursorFrequency
	cursorDuty
	cursorPhase
	cursorBack
)

const (
	coarseStep = 10
	fineStep   = 1
)

type pwmState struct {
	cursor  int
	editing bool
	fine    bool
	channel int
}

func (c *Controller) selectChannel(ch int) {
	c.pwm.channel = ch
}

// SelectedChannel returns the channel shown on the channel screen
func (c *Controller) SelectedChannel() int {
	return c.pwm.channel
}

func modeLabel(m pwm.Mode) string {
	switch m {
	case pwm.ModeOff:
		return "OFF"
	case pwm.ModePWM:
		return "PWM"
	}
	return " ON"
}

func (c *Controller) drawPwm() {
	p := &c.pwm
	ch := c.bank.Channel(p.channel)

	if p.cursor < cursorBack {
		c.at(0, p.cursor)
	} else {
		c.at(18, 3)
	}
	c.lcd.PutGlyph(GlyphRight)

	c.at(1, 0)
	c.lcd.Print("MODE " + modeLabel(ch.Mode))

	c.at(1, 1)
	frq := int(ch.Frequency)
	c.lcd.Print("FRQ= " + core.PadInt(frq/10, 3) + "." + core.PadInt(frq%10, 1) + " Hz")
	if p.fine {
		c.lcd.Print("(f)")
	}

	c.at(1, 2)
	c.lcd.Print("DTY= " + core.PadInt(int(ch.Duty), 3) + " %")

	c.at(1, 3)
	sign := "+"
	if ch.Phase < 0 {
		sign = "-"
	}
	c.lcd.Print("PHS= " + sign + core.PadInt(int(ch.Phase), 2) + " %")

	c.at(19, 3)
	c.lcd.PutGlyph(GlyphBack)

	if p.editing {
		c.at(5, p.cursor)
		c.lcd.PutGlyph(GlyphLeft)
		if p.cursor == cursorFrequency {
			c.at(11, p.cursor)
		} else {
			c.at(9, p.cursor)
		}
		c.lcd.PutGlyph(GlyphRight)
	}

	c.at(15, 0)
	c.lcd.Print("PWM " + core.Itoa(p.channel+1))
}

func (c *Controller) pwmScroll(dir int) {
	p := &c.pwm
	if !p.editing {
		p.cursor = core.Wrap(p.cursor+dir, cursorMode, cursorBack)
		c.Reload()
		return
	}

	ch := c.bank.Channel(p.channel)
	frq, dty, phs := int(ch.Frequency), int(ch.Duty), int(ch.Phase)

	switch p.cursor {
	case cursorMode:
		c.bank.SetMode(p.channel, pwm.Mode(core.Wrap(int(ch.Mode)+dir, 0, int(pwm.ModeOn))))
	case cursorFrequency:
		step := coarseStep
		if p.fine {
			step = fineStep
		}
		frq = core.Wrap(frq+dir*step, 0, pwm.MaxFrequency)
		c.bank.SetConfig(p.channel, frq, dty)
		c.bank.SetPhase(p.channel, phs)
	case cursorDuty:
		dty = core.Wrap(dty+dir, 0, pwm.MaxDuty)
		c.bank.SetConfig(p.channel, frq, dty)
		c.bank.SetPhase(p.channel, phs)
	case cursorPhase:
		phs = core.Wrap(phs+dir, -pwm.MaxPhase, pwm.MaxPhase)
		c.bank.SetConfig(p.channel, frq, dty)
		c.bank.SetPhase(p.channel, phs)
		c.bank.Sync()
	}
	c.Reload()
}

func (c *Controller) pwmPress() {
	p := &c.pwm
	enabled := c.bank.Channel(p.channel).Mode != pwm.ModeOff

	switch p.cursor {
	case cursorMode:
		p.editing = !p.editing
	case cursorFrequency:
		if enabled {
			if p.editing && !p.fine {
				p.fine = true
			} else {
				p.editing = !p.editing
				p.fine = false
			}
		}
	case cursorDuty, cursorPhase:
		if enabled {
			p.editing = !p.editing
		}
	case cursorBack:
		c.Change(List)
		return
	}
	c.Reload()
}
