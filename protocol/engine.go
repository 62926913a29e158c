// Package protocol implements the line-oriented serial protocol.
//
// Requests are "^?,x\n" queries and "^!,x,args...\n" commands, where x is
// a single letter. Queries always reply with one or more frames; commands
// reply only when they fail, with a numbered "^!,ERRn\n" frame.
package protocol

import (
	"errors"
	"io"
	"strings"

	"pwmbox/core"
	"pwmbox/pwm"
	"pwmbox/store"
)

// ErrorCode is the number carried by an error frame
type ErrorCode uint8

const (
	// ErrUnknownType: the frame starts with neither '?' nor '!'
	ErrUnknownType ErrorCode = 1
	// ErrUnknownLetter: no handler for the request letter
	ErrUnknownLetter ErrorCode = 2
	// ErrLetterLength: the request letter token is longer than one byte
	ErrLetterLength ErrorCode = 3
	// ErrArgument: missing field, index out of range, or an upload
	// command without an open upload
	ErrArgument ErrorCode = 4
	// ErrCapacity: an upload ran out of free slots while committing
	ErrCapacity ErrorCode = 5
)

// errMissingField marks a command with too few fields
var errMissingField = errors.New("missing field")

// Device is the state the protocol reads and changes
type Device interface {
	Serial() uint16
	Password() [3]int8
	SetPassword(p [3]int8) error
	DefaultUI() int
	SetDefaultUI(ui int) error
	NumSlots() int
	Capacity() int
	Slot(ui int) (store.Slot, bool)
	NewSlot(slot store.Slot) (int, error)
	DeleteAllSlots() error
}

// Info is the identity reported by the info query
type Info struct {
	HWVersion string
	SWVersion string
}

// Hooks are called after commands that change what the UI shows
type Hooks struct {
	// UploadStarted runs after "!,n" wiped the slot table
	UploadStarted func()
	// Changed runs after any successful command
	Changed func()
	// PasswordChanged runs after "!,c" stored a new password
	PasswordChanged func()
	// Full runs when a commit ran out of free slots
	Full func()
}

// Engine decodes frames and runs their handlers
type Engine struct {
	dev      Device
	info     Info
	hooks    Hooks
	queries  *Registry
	commands *Registry
	staging  Staging
	reply    Reply
	log      *core.Logger
}

// NewEngine creates a protocol engine over dev
func NewEngine(dev Device, info Info) *Engine {
	e := &Engine{
		dev:      dev,
		info:     info,
		queries:  NewRegistry(),
		commands: NewRegistry(),
		reply:    Reply{buf: make([]byte, 0, BufferSize)},
	}
	e.staging.Reset()

	e.queries.Register('@', "handshake", e.queryHandshake)
	e.queries.Register('c', "password", e.queryPassword)
	e.queries.Register('i', "info", e.queryInfo)
	e.queries.Register('s', "slots", e.querySlots)

	e.commands.Register('c', "set_password", e.cmdPassword)
	e.commands.Register('d', "set_default", e.cmdDefault)
	e.commands.Register('n', "upload_begin", e.cmdBegin)
	e.commands.Register('s', "upload_slot", e.cmdSlot)
	e.commands.Register('p', "upload_pwm", e.cmdPWM)
	e.commands.Register('x', "upload_abort", e.cmdAbort)
	return e
}

// SetHooks installs the change callbacks
func (e *Engine) SetHooks(h Hooks) {
	e.hooks = h
}

// SetLogger sets the debug logger
func (e *Engine) SetLogger(log *core.Logger) {
	e.log = log
}

// Staging returns the upload buffer
func (e *Engine) Staging() *Staging {
	return &e.staging
}

// Queries returns the query registry
func (e *Engine) Queries() *Registry {
	return e.queries
}

// Commands returns the command registry
func (e *Engine) Commands() *Registry {
	return e.commands
}

// Handle runs one frame body and writes its replies to w. Malformed
// requests are answered with an error frame and return nil; the returned
// error reports write and storage failures.
func (e *Engine) Handle(frame []byte, w io.Writer) error {
	e.reply.w = w
	e.reply.err = nil

	top, rest, hasComma := strings.Cut(string(frame), ",")
	if len(top) > 1 && (top[0] == '?' || top[0] == '!') {
		// Compact form without the first comma: "?i"
		if hasComma {
			rest = top[1:] + "," + rest
		} else {
			rest = top[1:]
		}
		top = top[:1]
	}

	switch top {
	case "?":
		// The letter token runs to the end of the frame
		return e.dispatch(e.queries, rest, "")
	case "!":
		letter, args, _ := strings.Cut(rest, ",")
		return e.dispatch(e.commands, letter, args)
	}
	return e.reply.Error(ErrUnknownType)
}

func (e *Engine) dispatch(reg *Registry, letter, args string) error {
	if len(letter) > 1 {
		return e.reply.Error(ErrLetterLength)
	}
	if len(letter) == 0 {
		return e.reply.Error(ErrUnknownLetter)
	}
	cmd, ok := reg.Lookup(letter[0])
	if !ok {
		return e.reply.Error(ErrUnknownLetter)
	}

	err := cmd.Handler(args, &e.reply)
	switch {
	case err == nil:
		if reg == e.commands && e.hooks.Changed != nil {
			e.hooks.Changed()
		}
		return e.reply.Err()
	case errors.Is(err, ErrNoUpload), errors.Is(err, ErrStageRange), errors.Is(err, errMissingField):
		e.log.Error(cmd.Name, err)
		return e.reply.Error(ErrArgument)
	case errors.Is(err, store.ErrFull):
		e.log.Error(cmd.Name, err)
		if e.hooks.Full != nil {
			e.hooks.Full()
		}
		return e.reply.Error(ErrCapacity)
	}
	e.log.Error(cmd.Name, err)
	return err
}

// parseOpt parses a number where "n" stands for none (-1)
func parseOpt(s string) int {
	if s == "n" {
		return -1
	}
	return core.Atoi(s)
}

func (e *Engine) queryHandshake(_ string, r *Reply) error {
	return r.Begin('@').End()
}

func (e *Engine) queryPassword(_ string, r *Reply) error {
	p := e.dev.Password()
	return r.Begin('c').Opt(int(p[0])).Opt(int(p[1])).Opt(int(p[2])).End()
}

func (e *Engine) queryInfo(_ string, r *Reply) error {
	return r.Begin('i').
		Int(int(e.dev.Serial())).
		Str(e.info.HWVersion).
		Str(e.info.SWVersion).
		Opt(e.dev.DefaultUI()).
		Int(e.dev.Capacity()).
		End()
}

func (e *Engine) querySlots(_ string, r *Reply) error {
	n := e.dev.NumSlots()
	if err := r.Begin('n').Int(n).End(); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		slot, _ := e.dev.Slot(i)
		r.Begin('s').Int(i).Str(slot.Name).End()
		for j := range slot.PWMs {
			p := &slot.PWMs[j]
			r.Begin('p').
				Int(j).
				Str(p.Name).
				Int(int(p.Mode)).
				Int(int(p.Frequency)).
				Int(int(p.Duty)).
				Int(int(p.Phase)).
				End()
		}
	}
	return r.Err()
}

func (e *Engine) cmdPassword(args string, _ *Reply) error {
	fields := strings.Split(args, ",")
	if len(fields) < 3 {
		return errMissingField
	}
	var p [3]int8
	for i := range p {
		p[i] = int8(core.Limit(parseOpt(fields[i]), store.PasswordUnset, 9))
	}
	if err := e.dev.SetPassword(p); err != nil {
		return err
	}
	if e.hooks.PasswordChanged != nil {
		e.hooks.PasswordChanged()
	}
	return nil
}

func (e *Engine) cmdDefault(args string, _ *Reply) error {
	if args == "" {
		return errMissingField
	}
	ui := parseOpt(args)
	if ui >= e.dev.NumSlots() {
		return ErrStageRange
	}
	return e.dev.SetDefaultUI(ui)
}

func (e *Engine) cmdBegin(args string, _ *Reply) error {
	if args == "" {
		return errMissingField
	}
	if err := e.staging.Begin(core.Atoi(args)); err != nil {
		return err
	}
	if err := e.dev.DeleteAllSlots(); err != nil {
		return err
	}
	if e.hooks.UploadStarted != nil {
		e.hooks.UploadStarted()
	}
	e.log.Value("upload started", "slots", e.staging.Count())
	return nil
}

func (e *Engine) cmdSlot(args string, _ *Reply) error {
	idx, name, ok := strings.Cut(args, ",")
	if !ok {
		return errMissingField
	}
	return e.staging.StageName(core.Atoi(idx), name)
}

func (e *Engine) cmdPWM(args string, _ *Reply) error {
	fields := strings.SplitN(args, ",", 6)
	if len(fields) < 6 {
		return errMissingField
	}
	pin := core.Atoi(fields[0])
	p := store.PWM{
		Name: fields[1],
		Settings: pwm.Settings{
			Mode:      pwm.Mode(core.Limit(core.Atoi(fields[2]), 0, int(pwm.ModeOn))),
			Frequency: uint16(core.Limit(core.Atoi(fields[3]), 0, pwm.MaxFrequency)),
			Duty:      uint8(core.Limit(core.Atoi(fields[4]), 0, pwm.MaxDuty)),
			Phase:     int8(core.Limit(core.Atoi(fields[5]), -pwm.MaxPhase, pwm.MaxPhase)),
		},
	}
	if err := e.staging.StagePWM(pin, p); err != nil {
		return err
	}
	if e.staging.IsFinal(e.staging.Current(), pin) {
		return e.commit()
	}
	return nil
}

// commit stores every staged slot in upload order and closes the upload
func (e *Engine) commit() error {
	defer e.staging.Reset()
	for i, slot := range e.staging.Slots() {
		if _, err := e.dev.NewSlot(slot); err != nil {
			e.log.Value("upload stopped", "slot", i)
			return err
		}
	}
	e.log.Value("upload committed", "slots", e.staging.Count())
	return nil
}

func (e *Engine) cmdAbort(_ string, _ *Reply) error {
	if e.staging.Open() {
		e.log.Println("upload aborted")
	}
	e.staging.Reset()
	return nil
}
