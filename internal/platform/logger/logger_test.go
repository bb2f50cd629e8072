package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestSetupLevels(t *testing.T) {
	testCases := []struct {
		configured string
		debugOn    bool
		warnOn     bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"WARN", false, true},
		{"error", false, false},
		{"", false, true},
		{"verbose", false, true}, // unknown falls back to info
	}

	for _, tc := range testCases {
		t.Run("level "+tc.configured, func(t *testing.T) {
			log := Setup(tc.configured)
			if log == nil {
				t.Fatal("Setup returned nil logger")
			}

			ctx := context.Background()
			if got := log.Enabled(ctx, slog.LevelDebug); got != tc.debugOn {
				t.Errorf("debug enabled = %v, want %v", got, tc.debugOn)
			}
			if got := log.Enabled(ctx, slog.LevelWarn); got != tc.warnOn {
				t.Errorf("warn enabled = %v, want %v", got, tc.warnOn)
			}
		})
	}
}

func TestWithLoggerAndFromContext(t *testing.T) {
	var buf bytes.Buffer
	attached := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithLogger(context.Background(), attached)
	if got := FromContext(ctx); got != attached {
		t.Error("FromContext should return the attached logger")
	}

	got := FromContext(context.Background())
	if got == nil {
		t.Fatal("FromContext without an attached logger should fall back, not return nil")
	}
	if got != slog.Default() {
		t.Error("fallback should be the process default logger")
	}
}

func TestFromContextNilContext(t *testing.T) {
	//nolint:staticcheck // exercising the nil-context guard deliberately
	if got := FromContext(nil); got == nil {
		t.Fatal("FromContext(nil) should fall back to the default logger")
	}
}
