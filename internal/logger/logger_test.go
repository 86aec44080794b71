package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/vidrec/internal/config"
)

// captureStdout redirects stdout to a buffer during f()
func captureStdout(t *testing.T, f func()) string {
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
	var buf bytes.Buffer
	Init(&Config{Level: "debug", Format: FormatText, Component: "test", Output: &buf})

	Info("hello vidrec", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "hello vidrec")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "key=value")
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "info", Format: FormatJSON, Component: "json_test", Output: &buf})

	Info("json log", "foo", "bar")

	out := buf.String()
	assert.Contains(t, out, `"msg":"json log"`)
	assert.Contains(t, out, `"component":"json_test"`)
	assert.Contains(t, out, `"foo":"bar"`)
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "error", Format: FormatText, Output: &buf})

	Info("should not appear")
	Error("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
}

func TestLogger_WithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "debug", Format: FormatText, Output: &buf})

	With("req_id", "123").Info("processing request")

	assert.Contains(t, buf.String(), "req_id=123")
}

func TestLogger_InitFromConfig(t *testing.T) {
	cfg := &config.Config{
		Log: config.LogConfig{
			Level:     "debug",
			Format:    "json",
			Component: "cfg_test",
			Source:    true,
		},
	}

	out := captureStdout(t, func() {
		InitFromConfig(cfg)
		Debug("cfg-based log")
	})

	assert.Contains(t, out, `"msg":"cfg-based log"`)
	assert.Contains(t, out, `"component":"cfg_test"`)
	assert.Contains(t, out, `"source"`)
}
