package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vigil.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_ValidConfiguration(t *testing.T) {
	path := writeConfig(t, `{
		"watches": [
			{"path": "/tmp/a.kdbx"},
			{"path": "/mnt/share/b.kdbx", "pollIntervalSeconds": 30, "checksumLimitBytes": 65536}
		],
		"debounceMs": 250,
		"resumeGraceMs": 150,
		"eventLog": {"enabled": true, "directory": "/tmp/vigil-logs"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Watches) != 2 {
		t.Fatalf("expected 2 watches, got %d", len(cfg.Watches))
	}
	if cfg.Watches[1].PollIntervalSeconds != 30 {
		t.Errorf("expected poll interval 30, got %d", cfg.Watches[1].PollIntervalSeconds)
	}
	if cfg.Watches[1].ChecksumLimitBytes != 65536 {
		t.Errorf("expected checksum limit 65536, got %d", cfg.Watches[1].ChecksumLimitBytes)
	}
	if cfg.Debounce() != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %v", cfg.Debounce())
	}
	if cfg.ResumeGrace() != 150*time.Millisecond {
		t.Errorf("expected resume grace 150ms, got %v", cfg.ResumeGrace())
	}
	if cfg.EventLog == nil || !cfg.EventLog.Enabled {
		t.Error("expected event log to be enabled")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Type != FileNotFound {
		t.Errorf("expected FileNotFound, got %s", cfgErr.Type)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"watches": [`)

	_, err := Load(path)

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Type != InvalidJSON {
		t.Errorf("expected InvalidJSON, got %s", cfgErr.Type)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Configuration
	}{
		{
			name: "no watches",
			cfg:  Configuration{},
		},
		{
			name: "empty path",
			cfg:  Configuration{Watches: []Watch{{Path: ""}}},
		},
		{
			name: "negative poll interval",
			cfg:  Configuration{Watches: []Watch{{Path: "/tmp/a", PollIntervalSeconds: -1}}},
		},
		{
			name: "negative debounce",
			cfg:  Configuration{Watches: []Watch{{Path: "/tmp/a"}}, DebounceMs: -1},
		},
		{
			name: "negative resume grace",
			cfg:  Configuration{Watches: []Watch{{Path: "/tmp/a"}}, ResumeGraceMs: -1},
		},
		{
			name: "event log enabled without directory",
			cfg: Configuration{
				Watches:  []Watch{{Path: "/tmp/a"}},
				EventLog: &EventLogConfig{Enabled: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Type != ValidationError {
				t.Errorf("expected ValidationError, got %s", cfgErr.Type)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := Configuration{Watches: []Watch{{Path: "/tmp/a"}}}

	if cfg.Debounce() != DefaultDebounce {
		t.Errorf("expected default debounce %v, got %v", DefaultDebounce, cfg.Debounce())
	}
	if cfg.ResumeGrace() != DefaultResumeGrace {
		t.Errorf("expected default resume grace %v, got %v", DefaultResumeGrace, cfg.ResumeGrace())
	}
}

func TestAddWatch_Deduplicates(t *testing.T) {
	cfg := Configuration{}

	if !cfg.AddWatch(Watch{Path: "/tmp/a"}) {
		t.Error("expected first add to succeed")
	}
	if cfg.AddWatch(Watch{Path: "/tmp/a"}) {
		t.Error("expected duplicate add to be rejected")
	}
	if len(cfg.Watches) != 1 {
		t.Errorf("expected 1 watch, got %d", len(cfg.Watches))
	}
	if !cfg.HasWatch("/tmp/a") {
		t.Error("expected HasWatch to find the path")
	}
}
