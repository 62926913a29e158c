package client

import (
	"bytes"
	"testing"

	"go.uber.org/zap"
	"go.viam.com/test"

	"pwmbox/core"
	"pwmbox/firmware"
	"pwmbox/menu"
	"pwmbox/protocol"
	"pwmbox/pwm"
	"pwmbox/store"
)

// link connects a client to a simulated device. Writes are handled
// before they return, so replies are waiting by the time the client
// reads.
type link struct {
	sys *firmware.System
	out bytes.Buffer
}

func (l *link) Write(p []byte) (int, error) {
	for _, b := range p {
		core.Critical(func() { l.sys.OnSerialByte(b) })
		if b == protocol.EndByte {
			l.sys.Poll()
		}
	}
	return len(p), nil
}

func (l *link) Read(p []byte) (int, error) {
	return l.out.Read(p)
}

func newDevice(t *testing.T) (*Client, *firmware.System) {
	t.Helper()
	l := &link{}
	sys, err := firmware.New(firmware.Options{
		Output:  core.NewMemoryGPIO(),
		Backend: store.NewMemory(store.ImageSize),
		Display: menu.NewTextDisplay(),
		Serial:  &l.out,
		Time:    &core.ManualTime{},
	})
	test.That(t, err, test.ShouldBeNil)
	sys.Start()
	l.sys = sys

	c := New(l, zap.NewNop().Sugar())
	c.SetPace(0)
	return c, sys
}

func sampleSlots() []store.Slot {
	slots := []store.Slot{{Name: "front, left"}, {Name: "rear"}}
	for i := range slots {
		slots[i].Used = true
		for j := range slots[i].PWMs {
			slots[i].PWMs[j] = store.PWM{
				Name: "ch" + string(rune('0'+j)),
				Settings: pwm.Settings{
					Mode:      pwm.Mode(j % 3),
					Frequency: uint16(400 * i),
					Duty:      uint8(10 * j),
					Phase:     int8(-5 * j),
				},
			}
		}
	}
	return slots
}

func TestHandshakeSkipsNoise(t *testing.T) {
	c, _ := newDevice(t)
	l := c.rw.(*link)
	l.out.WriteString("booting\r\n")
	test.That(t, c.Handshake(), test.ShouldBeNil)
}

func TestInfo(t *testing.T) {
	c, _ := newDevice(t)
	info, err := c.Info()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info, test.ShouldResemble, Info{
		Serial:      77,
		HWVersion:   "2.3",
		SWVersion:   "2.0",
		DefaultSlot: -1,
		MaxSlots:    15,
	})
}

func TestPassword(t *testing.T) {
	c, sys := newDevice(t)
	p, err := c.Password()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldResemble, [3]int{-1, -1, -1})

	test.That(t, c.SetPassword([3]int{4, 0, 9}), test.ShouldBeNil)
	p, err = c.Password()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldResemble, [3]int{4, 0, 9})
	test.That(t, sys.Store().PasswordSet(), test.ShouldBeTrue)
}

func TestUploadAndReadBack(t *testing.T) {
	c, sys := newDevice(t)
	test.That(t, c.UploadSlots(sampleSlots()), test.ShouldBeNil)
	test.That(t, sys.Store().NumSlots(), test.ShouldEqual, 2)

	got, err := c.Slots()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, sampleSlots())

	// An empty upload clears the table
	test.That(t, c.UploadSlots(nil), test.ShouldBeNil)
	got, err = c.Slots()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(got), test.ShouldEqual, 0)
}

func TestUploadRejectsDelimiters(t *testing.T) {
	c, sys := newDevice(t)
	test.That(t, c.UploadSlots(sampleSlots()), test.ShouldBeNil)

	slots := sampleSlots()
	slots[1].PWMs[3].Name = "a,b"
	err := c.UploadSlots(slots)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "slot 1 pwm 3")
	// Nothing was sent
	test.That(t, sys.Store().NumSlots(), test.ShouldEqual, 2)
}

func TestUploadTooMany(t *testing.T) {
	c, sys := newDevice(t)
	err := c.UploadSlots(make([]store.Slot, store.NumSlots+1))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsDeviceError(err, protocol.ErrArgument), test.ShouldBeTrue)
	test.That(t, sys.Protocol().Staging().Open(), test.ShouldBeFalse)
}

func TestSetDefault(t *testing.T) {
	c, sys := newDevice(t)
	test.That(t, c.UploadSlots(sampleSlots()), test.ShouldBeNil)

	test.That(t, c.SetDefault(1), test.ShouldBeNil)
	info, err := c.Info()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.DefaultSlot, test.ShouldEqual, 1)
	test.That(t, sys.Store().DefaultUI(), test.ShouldEqual, 1)

	err = c.SetDefault(5)
	test.That(t, IsDeviceError(err, protocol.ErrArgument), test.ShouldBeTrue)

	test.That(t, c.SetDefault(-1), test.ShouldBeNil)
	info, err = c.Info()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.DefaultSlot, test.ShouldEqual, -1)
}

func TestAbortUpload(t *testing.T) {
	c, sys := newDevice(t)
	test.That(t, c.command("!,n,1"), test.ShouldBeNil)
	test.That(t, sys.Protocol().Staging().Open(), test.ShouldBeTrue)

	test.That(t, c.AbortUpload(), test.ShouldBeNil)
	test.That(t, sys.Protocol().Staging().Open(), test.ShouldBeFalse)

	// Staging commands after the abort are rejected
	err := c.command("!,s,0,late")
	test.That(t, IsDeviceError(err, protocol.ErrArgument), test.ShouldBeTrue)
}

func TestReadFailsOnClosedLink(t *testing.T) {
	c, _ := newDevice(t)
	_, err := c.expect('i', 0)
	test.That(t, err, test.ShouldNotBeNil)
}
