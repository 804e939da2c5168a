package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"default_suppresses_debug", false, false},
		{"verbose_enables_debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.verbose)
			if log == nil {
				t.Fatal("New() returned nil")
			}

			core := log.Desugar().Core()
			if got := core.Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !core.Enabled(zapcore.InfoLevel) {
				t.Error("info level must always be enabled")
			}
		})
	}
}
