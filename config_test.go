package sekai

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErr     bool
		capacity    int
		diagnostics bool
		logFaults   bool
		prefix      string
	}{
		{
			name:      "empty document uses defaults",
			yaml:      "",
			capacity:  defaultInitialCapacity,
			logFaults: true,
			prefix:    defaultLogPrefix,
		},
		{
			name: "all fields",
			yaml: `
initialCapacity: 4096
diagnostics: true
logPrefix: "[game] "
scheduler:
  logFaults: false
`,
			capacity:    4096,
			diagnostics: true,
			logFaults:   false,
			prefix:      "[game] ",
		},
		{
			name:    "negative capacity",
			yaml:    "initialCapacity: -1",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			yaml:    "initialCapacity: [1, 2",
			wantErr: true,
		},
		{
			name:    "wrong field type",
			yaml:    "diagnostics: maybe",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got config %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.InitialCapacity != tt.capacity {
				t.Errorf("InitialCapacity = %d, want %d", cfg.InitialCapacity, tt.capacity)
			}
			if cfg.Diagnostics != tt.diagnostics {
				t.Errorf("Diagnostics = %v, want %v", cfg.Diagnostics, tt.diagnostics)
			}
			if *cfg.Scheduler.LogFaults != tt.logFaults {
				t.Errorf("LogFaults = %v, want %v", *cfg.Scheduler.LogFaults, tt.logFaults)
			}
			if cfg.LogPrefix != tt.prefix {
				t.Errorf("LogPrefix = %q, want %q", cfg.LogPrefix, tt.prefix)
			}
			if cfg.Logger == nil || cfg.Scheduler.Logger != cfg.Logger {
				t.Error("scheduler should share the world logger")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	if err := os.WriteFile(path, []byte("initialCapacity: 8\nquiet: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.InitialCapacity != 8 || !cfg.Quiet {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestQuietOverridesLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quiet = true
	cfg.applyDefaults()
	if cfg.Logger.Writer() == os.Stderr || cfg.Scheduler.Logger != cfg.Logger {
		t.Error("quiet config still writes to stderr")
	}

	var out bytes.Buffer
	supplied := log.New(&out, "", 0)
	w := NewWorld(Config{Quiet: true, Logger: supplied, Scheduler: SchedulerConfig{Logger: supplied}})
	w.AddSystem(&recordingSystem{name: "x", log: new([]string), failWith: errors.New("x")})
	w.Update(0)
	if out.Len() != 0 || w.Logger() == supplied {
		t.Errorf("quiet did not replace the supplied logger: %q", out.String())
	}
	if w.Scheduler().Faults()["x"] != 1 {
		t.Error("quiet world stopped counting faults")
	}
}

func TestNewWorldFromConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("quiet: true\ndiagnostics: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	w := NewWorld(cfg)
	pos := Register[Position](w, "Position")
	w.View(pos.Type())
	w.View(pos.Type())
	if s := w.Stats(); s.Hits != 1 || s.Recomputations != 1 {
		t.Errorf("diagnostics not enabled from config: %+v", s)
	}
}
