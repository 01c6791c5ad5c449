package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestNewHonoursLevel(t *testing.T) {
	log, err := New("production", "error")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be disabled at error level")
	}
	if !log.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected error to be enabled")
	}
}

func TestOrNopNeverReturnsNil(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected a logger")
	}
}
