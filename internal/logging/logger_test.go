package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("pattern matched", "rule", "menu_closed")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if m["rule"] != "menu_closed" {
		t.Errorf("rule = %v, want menu_closed", m["rule"])
	}
	if ts, _ := m["time"].(string); !strings.HasSuffix(ts, "Z") {
		t.Errorf("time should be UTC RFC3339, got %q", ts)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "text", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestNew_RejectsUnknownSettings(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		opts       Options
		wantLevel  slog.Level
		wantFormat string
	}{
		{Options{}, slog.LevelInfo, "text"},
		{Options{Level: "DEBUG", Format: "Json"}, slog.LevelDebug, "json"},
		{Options{Level: "error", Format: "console"}, slog.LevelError, "text"},
	}
	for _, tt := range tests {
		level, format, err := resolve(tt.opts)
		if err != nil {
			t.Fatalf("resolve(%+v): %v", tt.opts, err)
		}
		if level != tt.wantLevel || format != tt.wantFormat {
			t.Errorf("resolve(%+v) = %v, %q; want %v, %q", tt.opts, level, format, tt.wantLevel, tt.wantFormat)
		}
	}
}
