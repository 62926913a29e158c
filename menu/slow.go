package menu

import (
	"pwmbox/core"
	"pwmbox/pwm"
)

type slowState struct {
	row, top int
}

// slowSetup stops any sequence and turns every channel off
func (c *Controller) slowSetup() {
	c.player.Stop()
	for i := 0; i < pwm.NumChannels; i++ {
		c.bank.SetMode(i, pwm.ModeOff)
		c.bank.SetConfig(i, 0, 50)
		c.bank.SetPhase(i, 0)
	}
}

func (c *Controller) drawSlow() {
	s := &c.slow
	if !c.player.Running() {
		c.at(0, s.row)
		c.lcd.PutGlyph(GlyphRight)
		for i := s.top; i < s.top+Height && i < c.player.Count(); i++ {
			c.at(1, i-s.top)
			c.lcd.Print(c.player.Name(i))
		}
		return
	}

	c.at(18, 3)
	c.lcd.PutGlyph(GlyphRight)
	c.lcd.PutGlyph(GlyphBack)
	c.at(5, 1)
	c.lcd.Print("Running...")
	name := c.player.Name(c.player.Index())
	c.at((Width-len(name))/2, 2)
	c.lcd.Print(name)
}

func (c *Controller) slowScroll(dir int) {
	if !c.player.Running() {
		s := &c.slow
		s.row, s.top = core.ScrollWindow(s.row, s.top, dir, Height, c.player.Count())
	}
	c.Reload()
}

func (c *Controller) slowPress() {
	if c.player.Running() {
		c.slowSetup()
	} else {
		c.player.Start(c.slow.top + c.slow.row)
	}
	c.Reload()
}
