package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"RICHLIFE_DB", "RICHLIFE_RANGE", "RICHLIFE_THEME", "RICHLIFE_LOG_LEVEL", "RICHLIFE_LOG_FORMAT", "RICHLIFE_DAEMON_ADDR"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	t.Chdir(dir)
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.ChartRangeMonths != 12 {
		t.Fatalf("ChartRangeMonths = %d, want 12", cfg.General.ChartRangeMonths)
	}
	if cfg.Daemon.Schedule != "@every 30s" {
		t.Fatalf("Daemon.Schedule = %q, want @every 30s", cfg.Daemon.Schedule)
	}
	want := filepath.Join(dir, "data", "richlife", "richlife.db")
	if got := cfg.DBPath(); got != want {
		t.Fatalf("DBPath() = %q, want %q", got, want)
	}
	if Exists() {
		t.Fatal("Exists() = true before Save")
	}
}

func TestSaveThenLoad(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.Appearance.Theme = "catppuccin-mocha"
	cfg.Health.FlagLowGuiltFree = true
	cfg.General.ChartRangeMonths = 6
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got != cfg {
		t.Fatalf("LoadFile() = %+v, want %+v", got, cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.Log.Level = "info"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv("RICHLIFE_LOG_LEVEL", "debug")
	t.Setenv("RICHLIFE_DB", "/tmp/custom.db")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", got.Log.Level)
	}
	if got.DBPath() != "/tmp/custom.db" {
		t.Fatalf("DBPath() = %q, want /tmp/custom.db", got.DBPath())
	}

	file, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if file.Log.Level != "info" {
		t.Fatalf("LoadFile() Log.Level = %q, want info", file.Log.Level)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("RICHLIFE_THEME=hacker\n"), 0o600); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("RICHLIFE_THEME") })

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Appearance.Theme != "hacker" {
		t.Fatalf("Appearance.Theme = %q, want hacker", got.Appearance.Theme)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	isolate(t)
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(), []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}
