package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Model.Kind != "forest" || cfg.Model.Timeout != 10*time.Second {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  mode: debug
dataset:
  path: testdata/bookings.csv
model:
  kind: python
  path: flight_demand_predictor.joblib
  timeout: 3s
rate_limit:
  requests: 5
  window: 10s
logging:
  format: text
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.Mode != "debug" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Model.Kind != "python" || cfg.Model.Timeout != 3*time.Second {
		t.Errorf("Model = %+v", cfg.Model)
	}
	// Unset keys keep their defaults.
	if cfg.Model.Script != "scripts/predict.py" {
		t.Errorf("Model.Script = %q", cfg.Model.Script)
	}
	if cfg.RateLimit.Requests != 5 || cfg.RateLimit.Window != 10*time.Second {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9090\"\n")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("MODEL_TIMEOUT", "250ms")
	t.Setenv("RATE_LIMIT_REQUESTS", "3")
	t.Setenv("DATASET_PATH", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, want 7070", cfg.Server.Port)
	}
	if cfg.Model.Timeout != 250*time.Millisecond {
		t.Errorf("Model.Timeout = %v", cfg.Model.Timeout)
	}
	if cfg.RateLimit.Requests != 3 {
		t.Errorf("RateLimit.Requests = %d", cfg.RateLimit.Requests)
	}
	// An empty variable is still an override.
	if cfg.Dataset.Path != "" {
		t.Errorf("Dataset.Path = %q, want empty", cfg.Dataset.Path)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
		want string
	}{
		{"bad yaml", "server: [", nil, "parse"},
		{"bad kind", "model:\n  kind: onnx\n", nil, "model kind"},
		{"bad mode", "server:\n  mode: prod\n", nil, "server mode"},
		{"bad format", "logging:\n  format: xml\n", nil, "log format"},
		{"bad env duration", "", map[string]string{"MODEL_TIMEOUT": "soon"}, "MODEL_TIMEOUT"},
		{"bad env int", "", map[string]string{"RATE_LIMIT_REQUESTS": "many"}, "RATE_LIMIT_REQUESTS"},
		{"zero rate limit", "rate_limit:\n  requests: 0\n", nil, "rate limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if got := Path(); got != DefaultPath {
		t.Errorf("Path() = %q, want %q", got, DefaultPath)
	}
	t.Setenv("CONFIG_PATH", "/etc/flight-demand.yaml")
	if got := Path(); got != "/etc/flight-demand.yaml" {
		t.Errorf("Path() = %q", got)
	}
}
