package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(buf, nil),
	})
}

func TestComponentAppearsExactlyOnce(t *testing.T) {
	var buf bytes.Buffer
	scoped := newBufferLogger(&buf).WithComponent(ComponentDashboard)

	scoped.Info("Dashboard loaded", FieldUserID, 1)

	line := buf.String()
	if got := strings.Count(line, FieldComponent+"="); got != 1 {
		t.Fatalf("component logged %d times in %q", got, line)
	}
	if !strings.Contains(line, FieldComponent+"="+ComponentDashboard) {
		t.Fatalf("missing component attr in %q", line)
	}
}

func TestRootLoggerCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).Warn("Starting up")

	line := buf.String()
	if got := strings.Count(line, FieldComponent+"="); got != 1 {
		t.Fatalf("component logged %d times in %q", got, line)
	}
	if !strings.Contains(line, FieldComponent+"="+ComponentApp) {
		t.Fatalf("missing component attr in %q", line)
	}
}

func TestWithPreservesSingleComponent(t *testing.T) {
	var buf bytes.Buffer
	scoped := newBufferLogger(&buf).
		WithComponent(ComponentLedger).
		With(FieldSource, "transactions")

	scoped.Error("Fetch failed", FieldError, "boom")

	line := buf.String()
	if got := strings.Count(line, FieldComponent+"="); got != 1 {
		t.Fatalf("component logged %d times in %q", got, line)
	}
	if !strings.Contains(line, FieldSource+"=transactions") {
		t.Fatalf("missing bound attr in %q", line)
	}
}

func TestWithComponentRescopes(t *testing.T) {
	var buf bytes.Buffer
	base := newBufferLogger(&buf).WithComponent(ComponentHTTP)

	base.WithComponent(ComponentCache).Debug("ignored at info level")
	if buf.Len() != 0 {
		t.Fatalf("debug record emitted at info level: %q", buf.String())
	}

	if got := base.Component(); got != ComponentHTTP {
		t.Fatalf("component = %q, want %q", got, ComponentHTTP)
	}
}
