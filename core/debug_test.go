package core

import (
	"errors"
	"testing"
)

func TestLoggerOutput(t *testing.T) {
	var lines []string
	log := NewLogger("pwm", func(s string) { lines = append(lines, s) })

	log.Println("started")
	log.Value("config", "frq", 400)
	log.Error("write", errors.New("bus fault"))
	log.Error("ignored", nil)
	log.With("ch3").Println("sync")

	want := []string{
		"[pwm] started",
		"[pwm] config frq=400",
		"[pwm] write: bus fault",
		"[pwm][ch3] sync",
	}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestLoggerDisabled(t *testing.T) {
	called := false
	log := NewLogger("x", func(string) { called = true })
	log.SetEnabled(false)
	log.Println("hidden")

	var nilLog *Logger
	nilLog.Println("no panic")

	if called {
		t.Error("Disabled logger wrote output")
	}
}
