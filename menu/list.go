package menu

import (
	"pwmbox/core"
	"pwmbox/pwm"
	"pwmbox/store"
)

// List entries after the channel names
const (
	entryLoad       = pwm.NumChannels
	entrySave       = pwm.NumChannels + 1
	entryDelete     = pwm.NumChannels + 2
	entryBrightness = pwm.NumChannels + 3

	numListEntries = pwm.NumChannels + 4
)

// listMode is the sub-state of the list screen
type listMode uint8

const (
	listBrowse listMode = iota
	listLoad
	listSavePick
	listSaveConfirm
	listDeletePick
	listDeleteConfirm
	listBrightness
)

type listState struct {
	row, top int
	mode     listMode
	// selected is 0 for BACK, n for UI slot n-1, and NumSlots+1 for NEW
	selected int
	confirm  bool
	names    [pwm.NumChannels]string
}

var fixedEntries = [...]string{"LOAD", "SAVE", "DELETE", "BRIGHTNESS"}

func (c *Controller) entryName(i int) string {
	if i < pwm.NumChannels {
		return c.list.names[i]
	}
	return fixedEntries[i-pwm.NumChannels]
}

// updateNames sets the channel entries from the active slot
func (c *Controller) updateNames() {
	slot, ok := c.store.Slot(c.store.UIIndex(c.active))
	for i := range c.list.names {
		if ok {
			c.list.names[i] = slot.PWMs[i].Name
		} else {
			c.list.names[i] = "PWM " + core.Itoa(i+1)
		}
	}
}

// ChannelName returns the list entry of channel ch
func (c *Controller) ChannelName(ch int) string {
	if ch < 0 || ch >= pwm.NumChannels {
		return ""
	}
	return c.list.names[ch]
}

func (c *Controller) slotLabel(selected int) string {
	if selected == 0 {
		return "BACK"
	}
	return c.store.SlotName(selected - 1)
}

func confirmLabel(confirm bool) string {
	if confirm {
		return "CONFIRM"
	}
	return "CANCEL"
}

func (c *Controller) drawList() {
	l := &c.list
	c.at(0, l.row)
	c.lcd.PutGlyph(GlyphRight)
	for i := l.top; i < l.top+Height; i++ {
		c.at(1, i-l.top)
		c.lcd.Print(c.entryName(i))
	}

	switch l.mode {
	case listLoad:
		c.selection(5, l.row, c.slotLabel(l.selected))
	case listSavePick:
		label := "NEW"
		if l.selected <= c.store.NumSlots() {
			label = c.slotLabel(l.selected)
		}
		c.selection(5, l.row, label)
	case listSaveConfirm:
		c.selection(5, l.row, confirmLabel(l.confirm))
	case listDeletePick:
		c.selection(7, l.row, c.slotLabel(l.selected))
	case listDeleteConfirm:
		c.selection(7, l.row, confirmLabel(l.confirm))
	case listBrightness:
		c.selection(11, l.row, core.Itoa(int(brightnessLevel(c.brightness))))
	}
}

func (c *Controller) listScroll(dir int) {
	l := &c.list
	switch l.mode {
	case listLoad, listDeletePick:
		l.selected = core.Wrap(l.selected+dir, 0, c.store.NumSlots())
	case listSavePick:
		l.selected = core.Wrap(l.selected+dir, 0, c.store.NumSlots()+1)
	case listSaveConfirm, listDeleteConfirm:
		l.confirm = !l.confirm
	case listBrightness:
		c.brightness = uint8(core.Wrap(int(c.brightness)-dir*20, 0, 100))
		c.applyBrightness()
	default:
		l.row, l.top = core.ScrollWindow(l.row, l.top, dir, Height, numListEntries)
	}
	c.Reload()
}

func (c *Controller) listPress() {
	l := &c.list
	selected := l.top + l.row

	switch selected {
	case entryLoad, entrySave, entryDelete:
		if c.locked {
			c.Change(Pass)
			return
		}
	}

	switch selected {
	case entryLoad:
		c.pressLoad()
	case entrySave:
		c.pressSave()
	case entryDelete:
		c.pressDelete()
	case entryBrightness:
		if l.mode == listBrightness {
			c.log.Error("brightness", c.store.SetBrightness(c.brightness))
			l.mode = listBrowse
		} else {
			l.mode = listBrightness
		}
		c.Reload()
	default:
		c.selectChannel(selected)
		c.Change(Pwm)
	}
}

func (c *Controller) pressLoad() {
	l := &c.list
	if l.mode != listLoad {
		l.selected = 0
		l.mode = listLoad
		c.Reload()
		return
	}

	if l.selected != 0 {
		c.LoadSlot(l.selected - 1)
	}
	l.mode = listBrowse
	c.updateNames()
	c.Reload()
}

// LoadSlot applies the slot at a UI index to every channel, syncs them,
// and makes it the active slot
func (c *Controller) LoadSlot(ui int) bool {
	slot, ok := c.store.Slot(ui)
	if !ok {
		return false
	}
	c.bank.Load(slot.Settings())
	c.active = c.store.StorageIndex(ui)
	c.updateNames()
	c.log.Value("slot loaded", "slot", ui)
	return true
}

// liveSlot builds a slot from the entry names and the live channels
func (c *Controller) liveSlot() store.Slot {
	var slot store.Slot
	settings := c.bank.Settings()
	for i := range slot.PWMs {
		slot.PWMs[i] = store.PWM{Name: c.list.names[i], Settings: settings[i]}
	}
	return slot
}

func (c *Controller) pressSave() {
	l := &c.list
	switch l.mode {
	case listSavePick:
		switch {
		case l.selected == 0:
			l.mode = listBrowse
		case l.selected <= c.store.NumSlots():
			l.confirm = false
			l.mode = listSaveConfirm
		default:
			l.mode = listBrowse
			if _, err := c.store.NewSlot(c.liveSlot()); err != nil {
				c.log.Error("save", err)
				c.Change(Warn)
				return
			}
		}
	case listSaveConfirm:
		if l.confirm {
			c.log.Error("overwrite", c.store.OverwriteSlot(l.selected-1, c.liveSlot()))
			l.mode = listBrowse
		} else {
			l.mode = listSavePick
		}
	default:
		l.selected = 0
		l.mode = listSavePick
	}
	c.Reload()
}

func (c *Controller) pressDelete() {
	l := &c.list
	switch l.mode {
	case listDeletePick:
		if l.selected == 0 {
			l.mode = listBrowse
		} else {
			l.confirm = false
			l.mode = listDeleteConfirm
		}
	case listDeleteConfirm:
		if !l.confirm {
			l.mode = listDeletePick
			break
		}
		l.mode = listBrowse
		deleted := c.store.StorageIndex(l.selected - 1)
		if err := c.store.DeleteSlot(l.selected - 1); err != nil {
			c.log.Error("delete", err)
			break
		}
		if deleted == c.active {
			c.UnloadActiveSlot()
			return
		}
	default:
		l.selected = 0
		l.mode = listDeletePick
	}
	c.Reload()
}
