package menu

import "strings"

// Screen geometry
const (
	Width  = 20
	Height = 4
)

// Glyph is a custom character stored in the display's CGRAM
type Glyph uint8

const (
	GlyphRight Glyph = iota
	GlyphLeft
	GlyphUp
	GlyphDown
	GlyphBack
	GlyphSad

	NumGlyphs
)

// GlyphBitmaps holds the 5x8 patterns for each glyph, one byte per row
var GlyphBitmaps = [NumGlyphs][8]byte{
	GlyphRight: {0x00, 0x08, 0x0C, 0x0E, 0x0E, 0x0C, 0x08, 0x00},
	GlyphLeft:  {0x00, 0x02, 0x06, 0x0E, 0x0E, 0x06, 0x02, 0x00},
	GlyphUp:    {0x00, 0x00, 0x04, 0x0E, 0x1F, 0x00, 0x00, 0x00},
	GlyphDown:  {0x00, 0x00, 0x1F, 0x0E, 0x04, 0x00, 0x00, 0x00},
	GlyphBack:  {0x04, 0x0C, 0x1E, 0x0D, 0x05, 0x01, 0x0E, 0x00},
	GlyphSad:   {0x00, 0x00, 0x0A, 0x00, 0x0E, 0x11, 0x00, 0x00},
}

// Display is a character display with custom glyphs
type Display interface {
	Clear()
	SetCursor(x, y uint8)
	Print(s string)
	PutGlyph(g Glyph)
	// SetBrightness sets the backlight level, 0 (off) to MaxLevel
	SetBrightness(level uint8)
}

// MaxLevel is the brightest backlight level
const MaxLevel = 5

// glyphRunes is how TextDisplay renders glyphs
var glyphRunes = [NumGlyphs]rune{'→', '←', '↑', '↓', '↵', '☹'}

// TextDisplay is an in-memory Display. Text past the right edge is
// dropped.
type TextDisplay struct {
	cells [Height][Width]rune
	x, y  int
	level uint8
	draws int
}

// NewTextDisplay creates a cleared display
func NewTextDisplay() *TextDisplay {
	d := &TextDisplay{level: MaxLevel}
	d.Clear()
	return d
}

// Clear blanks the screen and homes the cursor
func (d *TextDisplay) Clear() {
	for y := range d.cells {
		for x := range d.cells[y] {
			d.cells[y][x] = ' '
		}
	}
	d.x, d.y = 0, 0
	d.draws++
}

// SetCursor moves the write position
func (d *TextDisplay) SetCursor(x, y uint8) {
	d.x, d.y = int(x), int(y)
}

func (d *TextDisplay) put(r rune) {
	if d.y >= 0 && d.y < Height && d.x >= 0 && d.x < Width {
		d.cells[d.y][d.x] = r
	}
	d.x++
}

// Print writes ASCII text at the cursor
func (d *TextDisplay) Print(s string) {
	for i := 0; i < len(s); i++ {
		d.put(rune(s[i]))
	}
}

// PutGlyph writes one custom character at the cursor
func (d *TextDisplay) PutGlyph(g Glyph) {
	if g < NumGlyphs {
		d.put(glyphRunes[g])
	} else {
		d.put('?')
	}
}

// SetBrightness records the backlight level
func (d *TextDisplay) SetBrightness(level uint8) {
	d.level = level
}

// Brightness returns the last backlight level
func (d *TextDisplay) Brightness() uint8 {
	return d.level
}

// Redraws returns the number of Clear calls
func (d *TextDisplay) Redraws() int {
	return d.draws
}

// Line returns row y with trailing blanks removed
func (d *TextDisplay) Line(y int) string {
	if y < 0 || y >= Height {
		return ""
	}
	return strings.TrimRight(string(d.cells[y][:]), " ")
}

// Lines returns every row
func (d *TextDisplay) Lines() []string {
	out := make([]string, Height)
	for y := range out {
		out[y] = d.Line(y)
	}
	return out
}

// At returns the character at (x, y)
func (d *TextDisplay) At(x, y int) rune {
	if y < 0 || y >= Height || x < 0 || x >= Width {
		return 0
	}
	return d.cells[y][x]
}

// String renders the screen framed for a terminal
func (d *TextDisplay) String() string {
	var b strings.Builder
	b.WriteString("+" + strings.Repeat("-", Width) + "+\n")
	for y := range d.cells {
		b.WriteString("|")
		b.WriteString(string(d.cells[y][:]))
		b.WriteString("|\n")
	}
	b.WriteString("+" + strings.Repeat("-", Width) + "+\n")
	return b.String()
}
