package sequence

import (
	"testing"

	"pwmbox/pwm"
)

type recorder struct {
	modes  [pwm.NumChannels]pwm.Mode
	freq   [pwm.NumChannels]int
	duty   [pwm.NumChannels]int
	writes int
}

func (r *recorder) SetMode(ch int, m pwm.Mode) {
	r.modes[ch] = m
	r.writes++
}

func (r *recorder) SetConfig(ch, frequency, duty int) {
	r.freq[ch] = frequency
	r.duty[ch] = duty
	r.writes++
}

func TestBuiltinNames(t *testing.T) {
	want := []string{"Blinkers", "Fernlicht", "Fernlicht L & R", "Fernlicht M", "Tagfah. & Abblen."}
	p := NewPlayer(&recorder{}, Builtin)
	if p.Count() != len(want) {
		t.Fatalf("Count = %d, want %d", p.Count(), len(want))
	}
	for i, name := range want {
		if p.Name(i) != name {
			t.Errorf("Name(%d) = %q, want %q", i, p.Name(i), name)
		}
	}
	if p.Name(9) != "" {
		t.Error("Name past the end should be empty")
	}
}

func TestBuiltinStepsSortedAndTerminated(t *testing.T) {
	for _, seq := range Builtin {
		for i := 1; i < len(seq.Steps); i++ {
			if seq.Steps[i].At <= seq.Steps[i-1].At {
				t.Errorf("%s: step %d not after step %d", seq.Name, i, i-1)
			}
		}
		if !seq.Steps[len(seq.Steps)-1].End {
			t.Errorf("%s: last step does not end the sequence", seq.Name)
		}
	}
}

func TestBlinkers(t *testing.T) {
	r := &recorder{}
	p := NewPlayer(r, Builtin)
	done := 0
	p.OnDone(func() { done++ })

	p.Start(0)
	if !p.Running() || p.Index() != 0 {
		t.Fatal("Player should be running sequence 0")
	}
	if r.modes[Blinker] != pwm.ModePWM || r.freq[Blinker] != 10 || r.duty[Blinker] != 50 {
		t.Errorf("Step 0 not applied immediately: mode=%v freq=%d", r.modes[Blinker], r.freq[Blinker])
	}

	for i := 0; i < 9; i++ {
		p.Advance()
	}
	if !p.Running() || r.modes[Blinker] != pwm.ModePWM {
		t.Fatal("Blinkers ended early")
	}

	p.Advance()
	if p.Running() {
		t.Error("Blinkers should end at 5 s")
	}
	if r.modes[Blinker] != pwm.ModeOff {
		t.Errorf("Blinker mode after end = %v", r.modes[Blinker])
	}
	if done != 1 {
		t.Errorf("OnDone called %d times", done)
	}

	writes := r.writes
	p.Advance()
	if r.writes != writes {
		t.Error("Advance while idle changed outputs")
	}
}

func TestTagfahrSwaps(t *testing.T) {
	r := &recorder{}
	p := NewPlayer(r, Builtin)
	p.Start(4)

	check := func(at uint32, tag, abb pwm.Mode) {
		t.Helper()
		for p.Elapsed() < at {
			p.Advance()
		}
		if r.modes[Tagfahr] != tag || r.modes[Abblend] != abb {
			t.Errorf("t=%d: tag=%v abb=%v, want %v %v", at, r.modes[Tagfahr], r.modes[Abblend], tag, abb)
		}
	}
	check(0, pwm.ModeOff, pwm.ModeOn)
	check(35, pwm.ModeOff, pwm.ModeOn)
	check(36, pwm.ModeOn, pwm.ModeOff)
	check(40, pwm.ModeOff, pwm.ModeOn)
	check(80, pwm.ModeOn, pwm.ModeOff)
	check(86, pwm.ModeOff, pwm.ModeOn)
	check(92, pwm.ModeOn, pwm.ModeOff)

	for p.Running() {
		p.Advance()
	}
	if r.modes[Tagfahr] != pwm.ModeOff || r.modes[Abblend] != pwm.ModeOff {
		t.Error("Both lights should be off at the end")
	}
}

func TestStopAndRestart(t *testing.T) {
	r := &recorder{}
	p := NewPlayer(r, Builtin)
	p.Start(1)
	for i := 0; i < 50; i++ {
		p.Advance()
	}
	p.Stop()
	if p.Running() || p.Index() != NotRunning {
		t.Fatal("Stop did not stop")
	}

	p.Start(1)
	if p.Elapsed() != 0 || r.modes[Fernlicht] != pwm.ModeOn {
		t.Error("Restart should replay step 0")
	}

	p.Start(42)
	if p.Index() != 1 {
		t.Error("Starting an unknown sequence should be ignored")
	}
}
