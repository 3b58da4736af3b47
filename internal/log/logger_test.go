package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelDebug,
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("started", FieldBackend, "memory")
	out := buf.String()
	if !strings.Contains(out, "component=app") {
		t.Errorf("output %q missing component tag", out)
	}
	if !strings.Contains(out, "backend=memory") {
		t.Errorf("output %q missing backend field", out)
	}

	buf.Reset()
	logger.WithComponent(ComponentWorker).Warn("slow pass")
	if out := buf.String(); !strings.Contains(out, "component=worker") {
		t.Errorf("output %q missing derived component", out)
	}
	if logger.Component() != ComponentApp {
		t.Errorf("Component() = %s, want the original logger untouched", logger.Component())
	}
}
