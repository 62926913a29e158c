package input

import "testing"

// Pin levels as a<<1|b
var (
	cwSequence  = []uint8{1, 0, 2, 3}
	ccwSequence = []uint8{2, 0, 1, 3}
)

func feed(d *Decoder, seq []uint8) []Direction {
	var out []Direction
	for _, p := range seq {
		if dir := d.Step(p&2 != 0, p&1 != 0); dir != DirNone {
			out = append(out, dir)
		}
	}
	return out
}

func TestDecoderClockwise(t *testing.T) {
	var d Decoder
	got := feed(&d, cwSequence)
	if len(got) != 1 || got[0] != DirCW {
		t.Errorf("CW detent emitted %v, want [CW]", got)
	}
	if d.State() != StateStart {
		t.Errorf("State after detent = %d, want start", d.State())
	}
}

func TestDecoderCounterClockwise(t *testing.T) {
	var d Decoder
	got := feed(&d, ccwSequence)
	if len(got) != 1 || got[0] != DirCCW {
		t.Errorf("CCW detent emitted %v, want [CCW]", got)
	}
}

func TestDecoderRepeatedDetents(t *testing.T) {
	var d Decoder
	var seq []uint8
	for i := 0; i < 5; i++ {
		seq = append(seq, cwSequence...)
	}
	seq = append(seq, ccwSequence...)
	seq = append(seq, ccwSequence...)

	got := feed(&d, seq)
	if len(got) != 7 {
		t.Fatalf("Got %d directions, want 7: %v", len(got), got)
	}
	for i, dir := range got {
		want := DirCW
		if i >= 5 {
			want = DirCCW
		}
		if dir != want {
			t.Errorf("Direction %d = %v, want %v", i, dir, want)
		}
	}
}

func TestDecoderBounce(t *testing.T) {
	var d Decoder
	// Bounce on the first contact, then a clean detent
	seq := []uint8{1, 3, 1, 3, 1, 0, 1, 0, 2, 3}
	got := feed(&d, seq)
	if len(got) != 1 || got[0] != DirCW {
		t.Errorf("Bouncy CW detent emitted %v, want [CW]", got)
	}
}

func TestDecoderAbandonedTurn(t *testing.T) {
	var d Decoder
	// Start a CW turn, back out to rest: no direction
	got := feed(&d, []uint8{1, 0, 1, 3})
	if len(got) != 0 {
		t.Errorf("Abandoned turn emitted %v", got)
	}
	if d.State() != StateStart {
		t.Errorf("State = %d, want start", d.State())
	}
}

func TestTableOnlyFinalsEmit(t *testing.T) {
	for s := State(0); s < numStates; s++ {
		for p := uint8(0); p < 4; p++ {
			tr := Lookup(s, p&2 != 0, p&1 != 0)
			emits := tr.Dir != DirNone
			wantEmit := (s == StateCWFinal || s == StateCCWFinal) && p == 3
			if emits != wantEmit {
				t.Errorf("state %d pins %d: emits=%v", s, p, emits)
			}
			if tr.Next >= numStates {
				t.Errorf("state %d pins %d: next state %d out of range", s, p, tr.Next)
			}
		}
	}
}
