package protocol

import "testing"

func feedString(f *Framer, s string) int {
	done := 0
	for i := 0; i < len(s); i++ {
		if f.Feed(s[i]) {
			done++
		}
	}
	return done
}

func TestFramerBasic(t *testing.T) {
	var f Framer
	if n := feedString(&f, "junk^?,i\r\n"); n != 1 {
		t.Fatalf("Completed %d frames, want 1", n)
	}

	buf := make([]byte, BufferSize)
	got := f.Next(buf)
	if string(got) != "?,i" {
		t.Errorf("Frame = %q, want %q", got, "?,i")
	}
	if f.Next(buf) != nil {
		t.Error("Second Next should return nil")
	}
}

func TestFramerIgnoresBytesOutsideFrame(t *testing.T) {
	var f Framer
	if n := feedString(&f, "?,i\n\n"); n != 0 {
		t.Errorf("Frames without start byte completed: %d", n)
	}
	if f.InProgress() {
		t.Error("Framer should be idle")
	}
}

func TestFramerOverlongClamps(t *testing.T) {
	var f Framer
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a' + byte(i%26)
	}
	feedString(&f, "^"+string(long)+"\n")

	got := f.Next(make([]byte, BufferSize))
	if len(got) != BufferSize-1 {
		t.Fatalf("Frame length = %d, want %d", len(got), BufferSize-1)
	}
	if string(got[:62]) != string(long[:62]) {
		t.Error("Leading bytes of an overlong frame changed")
	}
}

func TestFramerQueuesBurst(t *testing.T) {
	var f Framer
	feedString(&f, "^!,x\n^?,@\n^?,c\n")
	if f.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", f.Pending())
	}

	buf := make([]byte, BufferSize)
	for _, want := range []string{"!,x", "?,@", "?,c"} {
		if got := string(f.Next(buf)); got != want {
			t.Errorf("Next = %q, want %q", got, want)
		}
	}
}

func TestFramerDropsWhenFull(t *testing.T) {
	var f Framer
	for i := 0; i < FrameSlots+2; i++ {
		feedString(&f, "^?,@\n")
	}
	if f.Pending() != FrameSlots-1 {
		t.Errorf("Pending = %d, want %d", f.Pending(), FrameSlots-1)
	}
	if f.Dropped() != 3 {
		t.Errorf("Dropped = %d, want 3", f.Dropped())
	}
}

func TestFramerRestartOnNewStart(t *testing.T) {
	var f Framer
	// A start byte inside a frame is data
	feedString(&f, "^?,^\n")
	if got := string(f.Next(make([]byte, BufferSize))); got != "?,^" {
		t.Errorf("Frame = %q, want %q", got, "?,^")
	}
}
