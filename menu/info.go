package menu

func (c *Controller) drawInfo() {
	c.at(2, 0)
	c.lcd.Print("GranaSAT PWM BOX")
	c.at(5, 1)
	c.lcd.Print("HW-Ver:" + c.hwVersion)
	c.at(5, 2)
	c.lcd.Print("SW-Ver:" + c.swVersion)
	c.at(2, 3)
	c.lcd.Print("granasat.ugr.es")
}

func (c *Controller) drawWarn() {
	c.at(5, 1)
	c.lcd.Print("ATENCION")
	c.at(2, 2)
	c.lcd.Print("Memoria llena ")
	c.lcd.PutGlyph(GlyphSad)
}
