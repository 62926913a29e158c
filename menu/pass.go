package menu

import "pwmbox/core"

// Cursor positions of the password screen
const (
	passBack = 0
	passOK   = 4
)

// passColumns are the x positions of the three digits
var passColumns = [3]int{7, 9, 11}

type passState struct {
	cursor  int
	editing bool
	input   [3]int8
	wrong   bool
	delay   uint32
	timer   core.Timer
}

// PasswordInput returns the digits entered so far
func (c *Controller) PasswordInput() [3]int8 {
	return c.pass.input
}

func (c *Controller) drawPass() {
	p := &c.pass
	if p.wrong {
		c.at(7, 1)
		c.lcd.Print("WRONG ")
		c.lcd.PutGlyph(GlyphSad)
		c.at(5, 2)
		c.lcd.Print("Try again!")
		return
	}

	c.at(2, 0)
	c.lcd.Print("Input password:")

	switch p.cursor {
	case passBack:
		c.at(1, 3)
		c.lcd.PutGlyph(GlyphLeft)
	case passOK:
		c.at(17, 3)
		c.lcd.PutGlyph(GlyphRight)
	default:
		c.at(passColumns[p.cursor-1], 3)
		c.lcd.PutGlyph(GlyphUp)
	}

	if p.editing && p.cursor > passBack && p.cursor < passOK {
		x := passColumns[p.cursor-1]
		c.at(x, 1)
		c.lcd.PutGlyph(GlyphUp)
		c.at(x, 3)
		c.lcd.PutGlyph(GlyphDown)
	}

	for i, x := range passColumns {
		c.at(x, 2)
		c.lcd.Print(core.PadInt(int(p.input[i]), 1))
	}

	c.at(18, 3)
	c.lcd.Print("OK")
	c.at(0, 3)
	c.lcd.PutGlyph(GlyphBack)
}

func (c *Controller) passScroll(dir int) {
	p := &c.pass
	if p.wrong {
		return
	}
	if p.editing {
		d := &p.input[p.cursor-1]
		*d = int8(core.Wrap(int(*d)+dir, 0, 9))
	} else {
		p.cursor = core.Wrap(p.cursor+dir, passBack, passOK)
	}
	c.Reload()
}

func (c *Controller) passPress() {
	p := &c.pass
	if p.wrong {
		return
	}

	switch p.cursor {
	case passBack:
		c.Revert()
	case passOK:
		if p.input == c.store.Password() {
			p.editing = false
			c.locked = false
			c.log.Println("unlocked")
			c.Change(List)
			return
		}
		c.log.Println("wrong password")
		p.wrong = true
		c.Reload()
		p.timer.WakeTime = c.clock.Millis() + p.delay
		c.sched.Schedule(&p.timer)
	default:
		p.editing = !p.editing
		c.Reload()
	}
}

// wrongDone ends the wrong password message
func (c *Controller) wrongDone(*core.Timer) uint8 {
	c.pass.wrong = false
	if c.current == Pass {
		c.Reload()
	}
	return core.SF_DONE
}
