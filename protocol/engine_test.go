package protocol

import (
	"bytes"
	"strings"
	"testing"

	"pwmbox/store"
)

type harness struct {
	t         *testing.T
	store     *store.Store
	engine    *Engine
	out       bytes.Buffer
	uploads   int
	changes   int
	passwords int
	full      int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := store.New(store.NewMemory(store.ImageSize))
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}
	h := &harness{t: t, store: s}
	h.engine = NewEngine(s, Info{HWVersion: "2.3", SWVersion: "2.0"})
	h.engine.SetHooks(Hooks{
		UploadStarted:   func() { h.uploads++ },
		Changed:         func() { h.changes++ },
		PasswordChanged: func() { h.passwords++ },
		Full:            func() { h.full++ },
	})
	return h
}

// send runs one frame and returns the replies
func (h *harness) send(frame string) string {
	h.t.Helper()
	h.out.Reset()
	if err := h.engine.Handle([]byte(frame), &h.out); err != nil {
		h.t.Fatalf("Handle(%q): %v", frame, err)
	}
	return h.out.String()
}

func (h *harness) upload(slots ...string) {
	h.t.Helper()
	h.send("!,n," + itoa(len(slots)))
	for i, name := range slots {
		h.send("!,s," + itoa(i) + "," + name)
		for j := 0; j < 8; j++ {
			if out := h.send("!,p," + itoa(j) + ",pin" + itoa(j) + ",1,500,50,-10"); out != "" {
				h.t.Fatalf("Upload reply %q", out)
			}
		}
	}
}

func itoa(n int) string {
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func TestQueries(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		frame string
		want  string
	}{
		{"?,@", "^!,@\n"},
		{"?,c", "^!,c,n,n,n\n"},
		{"?,i", "^!,i,77,2.3,2.0,n,15\n"},
		{"?i", "^!,i,77,2.3,2.0,n,15\n"},
		{"?,s", "^!,n,0\n"},
	}
	for _, tt := range tests {
		if got := h.send(tt.frame); got != tt.want {
			t.Errorf("%q -> %q, want %q", tt.frame, got, tt.want)
		}
	}
}

func TestErrors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		frame string
		want  string
	}{
		{"x,i", "^!,ERR1\n"},
		{"", "^!,ERR1\n"},
		{"?,z", "^!,ERR2\n"},
		{"!,z,1", "^!,ERR2\n"},
		{"?,", "^!,ERR2\n"},
		{"?,ii", "^!,ERR3\n"},
		{"!,cc,1,2,3", "^!,ERR3\n"},
		{"!,s,0,name", "^!,ERR4\n"},
		{"!,p,0,a,1,1,1,1", "^!,ERR4\n"},
		{"!,c,1,2", "^!,ERR4\n"},
		{"!,n,16", "^!,ERR4\n"},
		{"!,d,3", "^!,ERR4\n"},
	}
	for _, tt := range tests {
		if got := h.send(tt.frame); got != tt.want {
			t.Errorf("%q -> %q, want %q", tt.frame, got, tt.want)
		}
	}
	if h.changes != 0 || h.passwords != 0 {
		t.Errorf("Failed commands triggered %d change and %d password hooks", h.changes, h.passwords)
	}
}

func TestSetPasswordAndDefault(t *testing.T) {
	h := newHarness(t)

	if out := h.send("!,c,4,0,9"); out != "" {
		t.Errorf("Password command replied %q", out)
	}
	if got := h.send("?,c"); got != "^!,c,4,0,9\n" {
		t.Errorf("Password query = %q", got)
	}
	if h.passwords != 1 {
		t.Errorf("Password hook ran %d times, want 1", h.passwords)
	}

	h.upload("a", "b")
	if out := h.send("!,d,1"); out != "" {
		t.Errorf("Default command replied %q", out)
	}
	if got := h.send("?,i"); got != "^!,i,77,2.3,2.0,1,15\n" {
		t.Errorf("Info after default = %q", got)
	}

	h.send("!,d,n")
	if h.store.DefaultUI() != store.NoSlot {
		t.Errorf("Default after clear = %d", h.store.DefaultUI())
	}
}

func TestUploadCommitsOnFinalPair(t *testing.T) {
	h := newHarness(t)
	h.store.NewSlot(store.Slot{Name: "old"})

	h.send("!,n,2")
	if h.uploads != 1 {
		t.Errorf("UploadStarted called %d times", h.uploads)
	}
	if h.store.NumSlots() != 0 {
		t.Fatal("Begin did not wipe the slot table")
	}

	h.send("!,s,0,front")
	for j := 0; j < 8; j++ {
		h.send("!,p," + itoa(j) + ",f" + itoa(j) + ",1,100,25,5")
	}
	if h.store.NumSlots() != 0 {
		t.Fatal("Committed before the final pair")
	}

	h.send("!,s,1,rear,with,commas")
	for j := 0; j < 8; j++ {
		h.send("!,p," + itoa(j) + ",r" + itoa(j) + ",2,4500,120,-150")
	}
	if h.store.NumSlots() != 2 {
		t.Fatalf("NumSlots after commit = %d, want 2", h.store.NumSlots())
	}
	if h.engine.Staging().Open() {
		t.Error("Staging still open after commit")
	}

	rear, _ := h.store.Slot(1)
	if rear.Name != "rear,with,c" {
		t.Errorf("Slot name = %q", rear.Name)
	}
	p := rear.PWMs[7]
	if p.Name != "r07" || p.Frequency != 4000 || p.Duty != 100 || p.Phase != -99 {
		t.Errorf("Clamped channel = %+v", p)
	}
}

func TestSlotsQuery(t *testing.T) {
	h := newHarness(t)
	h.upload("one")

	lines := strings.Split(strings.TrimSuffix(h.send("?,s"), "\n"), "\n")
	if len(lines) != 1+1+8 {
		t.Fatalf("Got %d lines, want 10", len(lines))
	}
	if lines[0] != "^!,n,1" || lines[1] != "^!,s,0,one" {
		t.Errorf("Header lines = %q, %q", lines[0], lines[1])
	}
	if lines[2] != "^!,p,0,pin00,1,500,50,-10" {
		t.Errorf("First channel line = %q", lines[2])
	}
}

func TestUploadAbort(t *testing.T) {
	h := newHarness(t)
	h.send("!,n,1")
	h.send("!,s,0,half")
	h.send("!,p,0,a,1,1,1,1")

	if out := h.send("!,x"); out != "" {
		t.Errorf("Abort replied %q", out)
	}
	for j := 1; j < 8; j++ {
		h.send("!,p," + itoa(j) + ",a,1,1,1,1")
	}
	if h.store.NumSlots() != 0 {
		t.Errorf("Aborted upload stored %d slots", h.store.NumSlots())
	}
}

func TestUploadSlotOutOfRange(t *testing.T) {
	h := newHarness(t)
	h.send("!,n,1")
	if got := h.send("!,s,1,nope"); got != "^!,ERR4\n" {
		t.Errorf("Slot past count = %q", got)
	}
	h.send("!,s,0,ok")
	if got := h.send("!,p,8,a,1,1,1,1"); got != "^!,ERR4\n" {
		t.Errorf("Pin 8 = %q", got)
	}
}

func TestUploadCapacity(t *testing.T) {
	h := newHarness(t)
	h.send("!,n,2")
	h.send("!,s,0,a")
	h.send("!,s,1,b")

	// Fill the table behind the upload's back
	for i := 0; i < store.NumSlots; i++ {
		h.store.NewSlot(store.Slot{})
	}
	for j := 0; j < 7; j++ {
		h.send("!,p," + itoa(j) + ",x,1,1,1,1")
	}
	if got := h.send("!,p,7,x,1,1,1,1"); got != "^!,ERR5\n" {
		t.Errorf("Commit into a full table = %q, want ERR5", got)
	}
	if h.full != 1 {
		t.Errorf("Full hook ran %d times, want 1", h.full)
	}
}

func TestRegistry(t *testing.T) {
	h := newHarness(t)
	if h.engine.Queries().Count() != 4 {
		t.Errorf("Query count = %d", h.engine.Queries().Count())
	}
	if got := string(h.engine.Commands().Letters()); got != "cdnspx" {
		t.Errorf("Command letters = %q", got)
	}
}
