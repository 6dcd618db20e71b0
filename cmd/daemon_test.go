package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/config"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "127.0.0.1:9000", "--detach=true"})
	want := []string{"daemon", "--addr", "127.0.0.1:9000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDRoundTrip(t *testing.T) {
	files := daemonFiles{filepath.Join(t.TempDir(), "richlifed.pid")}
	if err := files.writePID(4242); err != nil {
		t.Fatalf("writePID: %v", err)
	}
	pid, err := files.readPID()
	if err != nil {
		t.Fatalf("readPID: %v", err)
	}
	if pid != 4242 {
		t.Fatalf("pid = %d, want 4242", pid)
	}

	if err := os.WriteFile(files.pid, []byte("nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := files.readPID(); err == nil {
		t.Fatal("readPID accepted a garbage pid file")
	}
}

func TestEnsureNotRunningClearsStaleFiles(t *testing.T) {
	files := daemonFiles{filepath.Join(t.TempDir(), "richlifed.pid")}

	if err := files.ensureNotRunning(); err != nil {
		t.Fatalf("missing pid file: %v", err)
	}

	// Pid 1 << 22 is above the default pid_max, so it is never alive.
	if err := files.writePID(1 << 22); err != nil {
		t.Fatal(err)
	}
	if err := files.writeState(daemonRuntimeState{PID: 1 << 22}); err != nil {
		t.Fatal(err)
	}
	if err := files.ensureNotRunning(); err != nil {
		t.Fatalf("stale pid file: %v", err)
	}
	if _, err := os.Stat(files.pid); !os.IsNotExist(err) {
		t.Fatal("stale pid file was not removed")
	}
	if _, err := os.Stat(files.state()); !os.IsNotExist(err) {
		t.Fatal("stale state file was not removed")
	}

	if err := files.writePID(os.Getpid()); err != nil {
		t.Fatal(err)
	}
	if err := files.ensureNotRunning(); err == nil {
		t.Fatal("running pid should be reported")
	}
}

func TestStateRoundTrip(t *testing.T) {
	files := daemonFiles{filepath.Join(t.TempDir(), "richlifed.pid")}
	want := daemonRuntimeState{
		PID:       7,
		Addr:      "127.0.0.1:8787",
		StartedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		DBPath:    "/tmp/richlife.db",
	}
	if err := files.writeState(want); err != nil {
		t.Fatalf("writeState: %v", err)
	}
	got, err := files.readState()
	if err != nil {
		t.Fatalf("readState: %v", err)
	}
	if !got.StartedAt.Equal(want.StartedAt) || got.Addr != want.Addr || got.PID != want.PID || got.DBPath != want.DBPath {
		t.Fatalf("readState = %+v, want %+v", got, want)
	}
}

func TestSameDatabase(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "richlife.db")
	tests := []struct {
		a, b string
		want bool
	}{
		{db, db, true},
		{db, filepath.Join(dir, "sub", "..", "richlife.db"), true},
		{db, filepath.Join(dir, "other.db"), false},
		{"", db, true},
	}
	for _, tt := range tests {
		if got := sameDatabase(tt.a, tt.b); got != tt.want {
			t.Fatalf("sameDatabase(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDaemonSettingsFlagsWinOverConfig(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{Use: "daemon"}
		c.Flags().StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8787", "")
		c.Flags().StringVar(&flagDaemonSchedule, "schedule", "@every 30s", "")
		c.Flags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "")
		return c
	}

	cfg := config.DefaultConfig()
	cfg.Daemon.Addr = "127.0.0.1:9999"
	cfg.Daemon.Schedule = "@every 1m"

	addr, schedule, events := daemonSettings(newCmd(), cfg)
	if addr != "127.0.0.1:9999" || schedule != "@every 1m" || events != 200 {
		t.Fatalf("config settings = %s %s %d", addr, schedule, events)
	}

	c := newCmd()
	if err := c.Flags().Set("addr", "127.0.0.1:7000"); err != nil {
		t.Fatal(err)
	}
	addr, _, _ = daemonSettings(c, cfg)
	if addr != "127.0.0.1:7000" {
		t.Fatalf("addr = %s, want the flag value", addr)
	}
}
