package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	return rec
}

func TestNew_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "INFO")

	ctx := WithRequestID(context.Background(), "req-42")
	logger.InfoContext(ctx, "hello")

	rec := decodeLine(t, &buf)
	if rec["request_id"] != "req-42" {
		t.Errorf("expected request_id req-42, got %v", rec["request_id"])
	}
	if _, ok := rec["stacktrace"]; ok {
		t.Error("expected no stacktrace below ERROR")
	}
}

func TestNew_ErrorCarriesStacktrace(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "INFO").Error("boom")

	rec := decodeLine(t, &buf)
	if s, _ := rec["stacktrace"].(string); s == "" {
		t.Error("expected a stacktrace on ERROR")
	}
}

func TestNew_RedactsSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "INFO").Info("submitted", "tax_id", "52998224725", "motorcycle", "Bros 160")

	rec := decodeLine(t, &buf)
	if rec["tax_id"] != "[REDACTED]" {
		t.Errorf("expected tax_id to be redacted, got %v", rec["tax_id"])
	}
	if rec["motorcycle"] != "Bros 160" {
		t.Errorf("expected motorcycle to be kept, got %v", rec["motorcycle"])
	}
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "warn").Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected INFO to be filtered at WARN, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}
