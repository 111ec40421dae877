package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_ComponentAttribute(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentCatalog, Output: &buf})

	l.Info("loaded", FieldSnapshotID, "abc")
	out := buf.String()
	if !strings.Contains(out, "component=catalog") || !strings.Contains(out, "snapshot_id=abc") {
		t.Fatalf("unexpected output: %s", out)
	}
	if l.Component() != ComponentCatalog {
		t.Errorf("Component = %q", l.Component())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})

	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf}).WithComponent(ComponentHTTP).With(FieldRequestID, "req_1")
	l.Info("hello")

	if l.Component() != ComponentHTTP {
		t.Errorf("Component = %q", l.Component())
	}
	if !strings.Contains(buf.String(), "component=http") || !strings.Contains(buf.String(), "request_id=req_1") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestContextLogger(t *testing.T) {
	if FromContext(context.Background()).Component() != "unknown" {
		t.Error("expected fallback logger")
	}
	l := New(Config{Component: ComponentWorker, Output: &bytes.Buffer{}})
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected stored logger")
	}
}

func TestFields(t *testing.T) {
	f := NewFields().
		WithRequestID("req_1").
		WithHTTPRequest("GET", "/api/states", "q=tex").
		WithHTTPResponse(404, 12).
		WithError(nil).
		WithOperation(OpLookup)

	if f[FieldSuccess] != false || f[FieldStatusCode] != 404 {
		t.Errorf("unexpected fields: %v", f)
	}
	if _, ok := f[FieldError]; ok {
		t.Error("nil error should not be recorded")
	}
	if got := len(f.ToSlice()); got != len(f)*2 {
		t.Errorf("ToSlice length = %d", got)
	}
}
