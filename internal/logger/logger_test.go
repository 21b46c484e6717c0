package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestInitWritesJSONAndFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "test.log")
	if err := Init(Options{Level: "debug", File: file, MaxSizeMB: 1, Console: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	log.Info().Int("pages", 8).Msg("imposed")

	var ev map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev); err != nil {
		t.Fatalf("console output is not JSON: %v (%q)", err, buf.String())
	}
	if ev["service"] != "bookletcalc" || ev["message"] != "imposed" || ev["pages"] != float64(8) {
		t.Errorf("unexpected event %v", ev)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"imposed"`) {
		t.Errorf("log file missing event: %q", data)
	}
}

func TestInitLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Level: "loud", Console: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info level, got %q", buf.String())
	}
}

func TestAxiomEvent(t *testing.T) {
	if _, ok := axiomEvent([]byte(`{"level":"debug","message":"x"}`), "svc"); ok {
		t.Error("debug events should be dropped")
	}
	ev, ok := axiomEvent([]byte(`{"level":"info","message":"x"}`), "svc")
	if !ok || ev["service"] != "svc" {
		t.Errorf("event = %v, %v", ev, ok)
	}
	ev, ok = axiomEvent([]byte("plain text"), "svc")
	if !ok || ev["message"] != "plain text" {
		t.Errorf("non-JSON line = %v, %v", ev, ok)
	}
}

func TestCloseWithoutAxiom(t *testing.T) {
	if err := Init(Options{Console: &bytes.Buffer{}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Close()
	Close()
}

func TestPrettyConsole(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Service: "cli", Pretty: true, Console: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	log.Warn().Msg("careful")
	if out := buf.String(); !strings.Contains(out, "careful") || strings.HasPrefix(out, "{") {
		t.Errorf("pretty output = %q", out)
	}
}
