package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haskel/monix/internal/colormap"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 9273 {
		t.Errorf("expected default port 9273, got %d", cfg.Server.Port)
	}

	if cfg.Interval() != time.Second {
		t.Errorf("expected default interval 1s, got %v", cfg.Interval())
	}

	if cfg.SourceTimeout() != 500*time.Millisecond {
		t.Errorf("expected default source timeout 500ms, got %v", cfg.SourceTimeout())
	}

	if cfg.RateEpsilon() != time.Millisecond {
		t.Errorf("expected default rate epsilon 1ms, got %v", cfg.RateEpsilon())
	}

	if cfg.Smoothing.Alpha != 0.30 {
		t.Errorf("expected default alpha 0.30, got %f", cfg.Smoothing.Alpha)
	}

	if cfg.Colors.Load != colormap.LoadGradient() {
		t.Errorf("expected default load gradient, got %+v", cfg.Colors.Load)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestAddress(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = "::1"
	cfg.Server.Port = 9000
	if got := cfg.Address(); got != "[::1]:9000" {
		t.Errorf("Address() = %s, want [::1]:9000", got)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
server:
  host: "0.0.0.0"
  port: 9090

sampling:
  interval_ms: 2000
  census_every: 10

smoothing:
  alpha: 0.5

colors:
  load:
    start: "#000000"
    mid: "#808080"
    end: "#FFFFFF"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("expected 0.0.0.0:9090, got %s", cfg.Address())
	}

	if cfg.Interval() != 2*time.Second {
		t.Errorf("expected interval 2s, got %v", cfg.Interval())
	}

	if cfg.Sampling.CensusEvery != 10 {
		t.Errorf("expected census_every 10, got %d", cfg.Sampling.CensusEvery)
	}

	if cfg.Smoothing.Alpha != 0.5 {
		t.Errorf("expected alpha 0.5, got %f", cfg.Smoothing.Alpha)
	}

	if got := cfg.Colors.Load.Mid.Hex(); got != "#808080" {
		t.Errorf("expected mid colour #808080, got %s", got)
	}

	// Check that defaults are preserved for unspecified values
	if cfg.Sampling.SourceTimeoutMS != 500 {
		t.Errorf("expected default source timeout 500, got %d", cfg.Sampling.SourceTimeoutMS)
	}
	if cfg.Colors.VRAM != colormap.VRAMGradient() {
		t.Errorf("expected default VRAM gradient, got %+v", cfg.Colors.VRAM)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("empty file should load defaults: %v", err)
	}
	if cfg.Server.Port != 9273 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadUnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "sampling:\n  intervall_ms: 500\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadBadColor(t *testing.T) {
	_, err := Load(writeConfig(t, "colors:\n  vram:\n    start: \"not-a-colour\"\n"))
	if err == nil {
		t.Fatal("expected error for invalid colour")
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "smoothing:\n  alpha: 1.5\n"))
	if err == nil || !strings.Contains(err.Error(), "alpha") {
		t.Fatalf("expected alpha validation error, got %v", err)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	// Empty path returns defaults
	cfg := LoadOrDefault("")
	if cfg.Server.Port != 9273 {
		t.Errorf("expected default port 9273, got %d", cfg.Server.Port)
	}

	// Non-existent file returns defaults
	cfg = LoadOrDefault("/nonexistent/path/config.yaml")
	if cfg.Server.Port != 9273 {
		t.Errorf("expected default port 9273, got %d", cfg.Server.Port)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Sampling.IntervalMS = 750
	cfg.Colors.Load.End = colormap.MustParseHex("#ff0000")

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "end: '#ff0000'") && !strings.Contains(string(data), `end: "#ff0000"`) {
		t.Errorf("marshalled colours should be hex strings:\n%s", data)
	}

	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if back.Sampling.IntervalMS != 750 || back.Colors.Load.End != cfg.Colors.Load.End {
		t.Errorf("round trip lost values: %+v", back)
	}
}

func TestParseZeroRedrawThreshold(t *testing.T) {
	_, err := Parse([]byte("smoothing:\n  redraw_threshold: 0\n"))
	if err == nil || !strings.Contains(err.Error(), "redraw_threshold") {
		t.Errorf("expected redraw_threshold error, got %v", err)
	}
}
