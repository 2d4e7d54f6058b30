package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Error("expected unique ids")
	}
	if len(strings.Split(a, "-")) != 5 {
		t.Errorf("expected uuid v4 format, got %s", a)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("expected log output to contain message, got %q", out)
	}
	if !strings.Contains(out, "key") {
		t.Errorf("expected log output to contain key, got %q", out)
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(map[string]int{"n": 1}, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(data) != `{"n":1}` {
		t.Errorf("unexpected compact output: %s", data)
	}

	pretty, err := MarshalJSON(map[string]int{"n": 1}, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("expected indented output, got %s", pretty)
	}
}

func TestBeatmapsetURL(t *testing.T) {
	if got := BeatmapsetURL("123456"); got != "https://osu.ppy.sh/beatmapsets/123456" {
		t.Errorf("unexpected url: %s", got)
	}
}
