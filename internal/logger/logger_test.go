package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureOutput redirects stdout to a buffer during f()
func captureOutput(t *testing.T, f func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	_ = r.Close()

	return buf.String()
}

func TestLogger_TextFormat(t *testing.T) {
	out := captureOutput(t, func() {
		Init(&Config{
			Level:     "debug",
			Format:    FormatText,
			Component: "test",
		})
		Info("hello qrtag", "key", "value")
	})

	if !strings.Contains(out, "hello qrtag") {
		t.Errorf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected structured field, got: %s", out)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	out := captureOutput(t, func() {
		Init(&Config{
			Level:  "info",
			Format: FormatJSON,
		})
		Info("json message")
	})

	if !strings.Contains(out, `"msg":"json message"`) {
		t.Errorf("expected JSON output, got: %s", out)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	out := captureOutput(t, func() {
		Init(&Config{
			Level:  "warn",
			Format: FormatText,
		})
		Debug("should be dropped")
		Warn("should appear")
	})

	if strings.Contains(out, "should be dropped") {
		t.Errorf("debug message leaked through warn level: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %s", out)
	}
}
