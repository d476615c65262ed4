package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Paths.PowerSupplyRoot != "/sys/class/power_supply" {
		t.Fatalf("unexpected PowerSupplyRoot: %q", cfg.Paths.PowerSupplyRoot)
	}
	if cfg.Paths.LogDir != "/var/log/battmon" {
		t.Fatalf("unexpected LogDir: %q", cfg.Paths.LogDir)
	}
	if !strings.HasSuffix(cfg.Paths.DBPath, filepath.Join("battmon", "history.db")) {
		t.Fatalf("unexpected DBPath: %q", cfg.Paths.DBPath)
	}
	if cfg.GUI.RefreshSeconds != 30 {
		t.Fatalf("unexpected RefreshSeconds: %d", cfg.GUI.RefreshSeconds)
	}
	if cfg.GUI.DefaultRange != "6h" {
		t.Fatalf("unexpected DefaultRange: %q", cfg.GUI.DefaultRange)
	}
	if cfg.Cleanup.RetentionDays != 365 {
		t.Fatalf("unexpected RetentionDays: %d", cfg.Cleanup.RetentionDays)
	}

	if _, err := NormalizeAndValidate(cfg); err != nil {
		t.Fatalf("defaults must validate, got %v", err)
	}
}

func TestLoad_OverridesAndKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, `
[paths]
log_dir = "/tmp/battmon-logs"

[gui]
refresh_seconds = 120
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.LogDir != "/tmp/battmon-logs" {
		t.Fatalf("LogDir = %q, want /tmp/battmon-logs", cfg.Paths.LogDir)
	}
	if cfg.Paths.PowerSupplyRoot != "/sys/class/power_supply" {
		t.Fatalf("PowerSupplyRoot = %q, want default", cfg.Paths.PowerSupplyRoot)
	}
	if cfg.GUI.RefreshSeconds != 120 {
		t.Fatalf("RefreshSeconds = %d, want 120", cfg.GUI.RefreshSeconds)
	}
	if cfg.GUI.DefaultRange != "6h" {
		t.Fatalf("DefaultRange = %q, want default 6h", cfg.GUI.DefaultRange)
	}
	if cfg.Cleanup.RetentionDays != 365 {
		t.Fatalf("RetentionDays = %d, want default 365", cfg.Cleanup.RetentionDays)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err == nil {
		t.Fatal("Load() error = nil, want missing file error")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("Load() error = %v, want not-exist error", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeTempConfig(t, "not = [valid")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want TOML parse error")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		contents   string
		wantErrSub string
	}{
		{
			name: "relative log dir",
			contents: `
[paths]
log_dir = "logs"
`,
			wantErrSub: "paths.log_dir must be an absolute path",
		},
		{
			name: "empty power supply root",
			contents: `
[paths]
power_supply_root = "  "
`,
			wantErrSub: "paths.power_supply_root must not be empty",
		},
		{
			name: "refresh too small",
			contents: `
[gui]
refresh_seconds = 0
`,
			wantErrSub: "gui.refresh_seconds must be between",
		},
		{
			name: "unknown range label",
			contents: `
[gui]
default_range = "2w"
`,
			wantErrSub: "gui.default_range must be one of",
		},
		{
			name: "retention too large",
			contents: `
[cleanup]
retention_days = 10000
`,
			wantErrSub: "cleanup.retention_days must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.contents)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load() error = nil, want error containing %q", tt.wantErrSub)
			}
			if !strings.Contains(err.Error(), tt.wantErrSub) {
				t.Fatalf("Load() error = %q, want contains %q", err.Error(), tt.wantErrSub)
			}
		})
	}
}
