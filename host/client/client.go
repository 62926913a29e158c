// Package client talks the PWM box serial protocol from a desktop host.
//
// Every command is followed by a handshake query. Commands only answer
// when they fail, so whatever arrives before the handshake reply is the
// command's result.
package client

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pwmbox/protocol"
	"pwmbox/pwm"
	"pwmbox/store"
)

// DefaultPace is the pause after each upload command. The device writes
// EEPROM while handling them.
const DefaultPace = 50 * time.Millisecond

// DeviceError is an "ERRn" reply
type DeviceError struct {
	Code protocol.ErrorCode
}

func (e *DeviceError) Error() string {
	return "device replied ERR" + strconv.Itoa(int(e.Code))
}

// IsDeviceError reports whether err carries a device error with code
func IsDeviceError(err error, code protocol.ErrorCode) bool {
	var de *DeviceError
	return errors.As(err, &de) && de.Code == code
}

// Info is the device identity
type Info struct {
	Serial    int
	HWVersion string
	SWVersion string
	// DefaultSlot is the UI index loaded at boot, or -1
	DefaultSlot int
	MaxSlots    int
}

// Client is a connection to one device
type Client struct {
	rw   io.ReadWriter
	r    *bufio.Reader
	pace time.Duration
	log  *zap.SugaredLogger
}

// New creates a client over an open link
func New(rw io.ReadWriter, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		rw:   rw,
		r:    bufio.NewReader(rw),
		pace: DefaultPace,
		log:  log,
	}
}

// SetPace sets the pause after each upload command
func (c *Client) SetPace(d time.Duration) {
	c.pace = d
}

// Close flushes and closes the link when it supports that
func (c *Client) Close() error {
	var err error
	if f, ok := c.rw.(interface{ Flush() error }); ok {
		err = multierr.Append(err, f.Flush())
	}
	if cl, ok := c.rw.(io.Closer); ok {
		err = multierr.Append(err, cl.Close())
	}
	return err
}

func (c *Client) send(body string) error {
	c.log.Debugw("send", "frame", body)
	_, err := io.WriteString(c.rw, string(protocol.StartByte)+body+string(protocol.EndByte))
	return errors.Wrapf(err, "send %q", body)
}

// readFrame returns the body of the next frame, skipping anything that
// isn't one. Device errors are returned as *DeviceError.
func (c *Client) readFrame() (string, error) {
	for {
		line, err := c.r.ReadString(protocol.EndByte)
		if err != nil {
			return "", errors.Wrap(err, "read reply")
		}
		line = strings.TrimRight(line, "\r\n")
		i := strings.IndexByte(line, protocol.StartByte)
		if i < 0 {
			c.log.Debugw("skipped", "line", line)
			continue
		}
		body := line[i+1:]
		c.log.Debugw("recv", "frame", body)

		if code, ok := strings.CutPrefix(body, "!,ERR"); ok {
			n, err := strconv.Atoi(code)
			if err != nil {
				return "", errors.Errorf("bad error frame %q", body)
			}
			return "", &DeviceError{Code: protocol.ErrorCode(n)}
		}
		return body, nil
	}
}

// expect reads one reply frame for letter and returns its fields after
// the letter. n > 0 splits into at most n fields.
func (c *Client) expect(letter byte, n int) ([]string, error) {
	body, err := c.readFrame()
	if err != nil {
		return nil, err
	}
	prefix := "!," + string(letter)
	if body != prefix && !strings.HasPrefix(body, prefix+",") {
		return nil, errors.Errorf("unexpected reply %q to %c", body, letter)
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(body, prefix), ",")
	if n > 0 {
		return strings.SplitN(rest, ",", n), nil
	}
	return strings.Split(rest, ","), nil
}

func (c *Client) query(letter byte, n int) ([]string, error) {
	if err := c.send("?," + string(letter)); err != nil {
		return nil, err
	}
	return c.expect(letter, n)
}

// Handshake checks that a PWM box answers on the link
func (c *Client) Handshake() error {
	_, err := c.query('@', 0)
	return errors.Wrap(err, "handshake")
}

// command sends body and waits for the handshake that follows it
func (c *Client) command(body string) error {
	if err := c.send(body); err != nil {
		return err
	}
	if c.pace > 0 {
		time.Sleep(c.pace)
	}
	if err := c.send("?,@"); err != nil {
		return err
	}

	var result error
	for {
		reply, err := c.readFrame()
		var de *DeviceError
		switch {
		case errors.As(err, &de):
			result = de
		case err != nil:
			return err
		case reply == "!,@":
			return errors.Wrapf(result, "command %q", body)
		}
	}
}

func optField(s string) (int, error) {
	if s == "n" {
		return -1, nil
	}
	return strconv.Atoi(s)
}

func optString(n int) string {
	if n < 0 {
		return "n"
	}
	return strconv.Itoa(n)
}

// Info reads the device identity
func (c *Client) Info() (Info, error) {
	f, err := c.query('i', 0)
	if err != nil {
		return Info{}, err
	}
	if len(f) != 5 {
		return Info{}, errors.Errorf("info reply has %d fields", len(f))
	}

	var info Info
	var errs error
	info.Serial, err = strconv.Atoi(f[0])
	errs = multierr.Append(errs, err)
	info.HWVersion, info.SWVersion = f[1], f[2]
	info.DefaultSlot, err = optField(f[3])
	errs = multierr.Append(errs, err)
	info.MaxSlots, err = strconv.Atoi(f[4])
	errs = multierr.Append(errs, err)
	return info, errors.Wrap(errs, "info reply")
}

// Password reads the password digits; -1 marks an unset digit
func (c *Client) Password() ([3]int, error) {
	var p [3]int
	f, err := c.query('c', 0)
	if err != nil {
		return p, err
	}
	if len(f) != 3 {
		return p, errors.Errorf("password reply has %d fields", len(f))
	}
	for i := range p {
		if p[i], err = optField(f[i]); err != nil {
			return p, errors.Wrap(err, "password reply")
		}
	}
	return p, nil
}

// Slots reads every stored slot in UI order
func (c *Client) Slots() ([]store.Slot, error) {
	// The slot query answers with a count frame first
	if err := c.send("?,s"); err != nil {
		return nil, err
	}
	f, err := c.expect('n', 0)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(f[0])
	if err != nil {
		return nil, errors.Wrap(err, "slot count")
	}

	slots := make([]store.Slot, n)
	for i := range slots {
		f, err := c.expect('s', 2)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d", i)
		}
		if len(f) != 2 || f[0] != strconv.Itoa(i) {
			return nil, errors.Errorf("slot %d: bad header %q", i, f)
		}
		slots[i].Name = f[1]
		slots[i].Used = true

		for j := range slots[i].PWMs {
			p, err := c.readPWM(j)
			if err != nil {
				return nil, errors.Wrapf(err, "slot %d", i)
			}
			slots[i].PWMs[j] = p
		}
	}
	return slots, nil
}

// readPWM parses "!,p,j,NAME,MODE,FRQ,DTY,PHS". The numbers are taken
// from the right so the name may hold anything.
func (c *Client) readPWM(j int) (store.PWM, error) {
	var p store.PWM
	f, err := c.expect('p', 0)
	if err != nil {
		return p, err
	}
	if len(f) < 6 || f[0] != strconv.Itoa(j) {
		return p, errors.Errorf("pwm %d: bad reply %q", j, f)
	}
	nums := f[len(f)-4:]
	p.Name = strings.Join(f[1:len(f)-4], ",")

	var v [4]int
	var errs error
	for k := range v {
		v[k], err = strconv.Atoi(nums[k])
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return p, errors.Wrapf(errs, "pwm %d", j)
	}
	p.Settings = pwm.Settings{
		Mode:      pwm.Mode(v[0]),
		Frequency: uint16(v[1]),
		Duty:      uint8(v[2]),
		Phase:     int8(v[3]),
	}
	return p, nil
}

// SetPassword sets the password digits; -1 unsets a digit
func (c *Client) SetPassword(p [3]int) error {
	return c.command("!,c," + optString(p[0]) + "," + optString(p[1]) + "," + optString(p[2]))
}

// SetDefault sets the slot loaded at boot by UI index; -1 clears it
func (c *Client) SetDefault(ui int) error {
	return c.command("!,d," + optString(ui))
}

// AbortUpload drops a partial upload on the device
func (c *Client) AbortUpload() error {
	return c.command("!,x")
}

// UploadSlots replaces the slot table of the device with slots. A failed
// upload is aborted so the device doesn't keep a half-staged table.
func (c *Client) UploadSlots(slots []store.Slot) (err error) {
	for i := range slots {
		for j := range slots[i].PWMs {
			if strings.ContainsAny(slots[i].PWMs[j].Name, ",^\n") {
				return errors.Errorf("slot %d pwm %d: name %q contains a protocol delimiter", i, j, slots[i].PWMs[j].Name)
			}
		}
		if strings.ContainsAny(slots[i].Name, "^\n") {
			return errors.Errorf("slot %d: name %q contains a protocol delimiter", i, slots[i].Name)
		}
	}

	defer func() {
		if err != nil {
			err = multierr.Combine(err, c.AbortUpload())
		}
	}()

	if err := c.command("!,n," + strconv.Itoa(len(slots))); err != nil {
		return err
	}
	for i := range slots {
		c.log.Infow("uploading slot", "index", i, "name", slots[i].Name)
		if err := c.command("!,s," + strconv.Itoa(i) + "," + slots[i].Name); err != nil {
			return err
		}
		for j := range slots[i].PWMs {
			p := &slots[i].PWMs[j]
			body := "!,p," + strconv.Itoa(j) + "," + p.Name + "," +
				strconv.Itoa(int(p.Mode)) + "," +
				strconv.Itoa(int(p.Frequency)) + "," +
				strconv.Itoa(int(p.Duty)) + "," +
				strconv.Itoa(int(p.Phase))
			if err := c.command(body); err != nil {
				return err
			}
		}
	}
	return nil
}
