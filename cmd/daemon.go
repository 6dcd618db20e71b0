package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/config"
	"github.com/theirongolddev/richlife/internal/daemon"
)

type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

var (
	flagDaemonAddr         string
	flagDaemonSchedule     string
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background dashboard feed with HTTP/SSE endpoints",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaults := config.DefaultConfig().Daemon
	defaultPID := filepath.Join(config.DataDir(), "richlifed.pid")
	defaultLog := filepath.Join(config.DataDir(), "richlifed.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", defaults.Addr, "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonSchedule, "schedule", defaults.Schedule, "Reload schedule, cron spec or @every (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", defaults.EventsBuffer, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonSettings resolves daemon settings: explicit flags win over config.
func daemonSettings(cmd *cobra.Command, cfg config.Config) (addr, schedule string, events int) {
	addr, schedule, events = cfg.Daemon.Addr, cfg.Daemon.Schedule, cfg.Daemon.EventsBuffer
	flags := cmd.Flags()
	if flags.Changed("addr") || addr == "" {
		addr = flagDaemonAddr
	}
	if flags.Changed("schedule") || schedule == "" {
		schedule = flagDaemonSchedule
	}
	if flags.Changed("events-buffer") || events <= 0 {
		events = flagDaemonEventsBuffer
	}
	return addr, schedule, events
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	if flagDaemonDetach {
		return startDaemonDetached(cmd)
	}

	return runDaemonForeground(cmd)
}

func startDaemonDetached(cmd *cobra.Command) error {
	if err := (daemonFiles{flagDaemonPIDFile}).ensureNotRunning(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr, _, _ := daemonSettings(cmd, cfg)

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonPIDFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}

	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Stdin = nil
	child.Env = os.Environ()

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", addr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground(cmd *cobra.Command) error {
	files := daemonFiles{flagDaemonPIDFile}
	if err := files.ensureNotRunning(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(flagDaemonPIDFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}

	return withSession(func(s *session) error {
		addr, schedule, events := daemonSettings(cmd, s.cfg)

		pid := os.Getpid()
		if err := files.writePID(pid); err != nil {
			return err
		}
		defer files.clear()

		_ = files.writeState(daemonRuntimeState{
			PID:       pid,
			Addr:      addr,
			StartedAt: time.Now(),
			DBPath:    s.cfg.DBPath(),
		})

		svc := daemon.New(daemon.Config{
			Addr:         addr,
			Schedule:     schedule,
			EventsBuffer: events,
			RangeMonths:  s.cfg.General.ChartRangeMonths,
			Health:       s.options().Health,
			DBPath:       s.cfg.DBPath(),
		}, s.store, s.log)

		fmt.Printf("  richlife daemon listening on http://%s\n", addr)
		fmt.Printf("  Reloading %s (%s)\n", s.cfg.DBPath(), schedule)
		fmt.Printf("  Stop with: richlife daemon stop --pid-file %s\n", flagDaemonPIDFile)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	files := daemonFiles{flagDaemonPIDFile}
	pid, err := files.readPID()
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}

	alive := processAlive(pid)
	if !alive {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr, dbPath := flagDaemonAddr, ""
	cfg, cfgErr := config.Load()
	if cfgErr == nil {
		addr, _, _ = daemonSettings(cmd, cfg)
		if flagDB != "" {
			cfg.General.DBPath = flagDB
		}
	}
	st, stErr := files.readState()
	if stErr == nil && st.Addr != "" {
		addr = st.Addr
	}
	if stErr == nil {
		dbPath = st.DBPath
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)
	if dbPath != "" {
		fmt.Printf("  Database: %s\n", dbPath)
		if cfgErr == nil && !sameDatabase(dbPath, cfg.DBPath()) {
			fmt.Printf("  %s\n", cli.Warn("Serving a different database than "+cfg.DBPath()))
		}
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var status daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if status.LastReloadAt.IsZero() {
		fmt.Printf("  Last reload: pending\n")
	} else {
		fmt.Printf("  Last reload: %s\n", status.LastReloadAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Reloads: %d (%s)\n", status.ReloadCount, status.Schedule)
	fmt.Printf("  Snapshots: %d, as of %s\n", status.Summary.Snapshots, cli.FormatShortMonth(status.Summary.AsOf))
	fmt.Printf("  Net worth: %s\n", cli.FormatCurrency(status.Summary.NetWorth, status.Summary.Currency))
	fmt.Printf("  Health: %d/100\n", status.Summary.HealthScore)
	fmt.Printf("  Events: %d buffered, %d subscribers\n", status.EventCount, status.SubscriberCount)
	if status.LastError != "" {
		fmt.Printf("  Last error: %s\n", status.LastError)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	files := daemonFiles{flagDaemonPIDFile}
	pid, err := files.readPID()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			files.clear()
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// daemonFiles locates the pid file of a daemon and the state file kept beside it.
type daemonFiles struct {
	pid string
}

func (f daemonFiles) state() string { return f.pid + ".json" }

// ensureNotRunning fails while a live daemon owns the pid file and clears stale files.
func (f daemonFiles) ensureNotRunning() error {
	pid, err := f.readPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	f.clear()
	return nil
}

func (f daemonFiles) clear() {
	_ = os.Remove(f.pid)
	_ = os.Remove(f.state())
}

func (f daemonFiles) writePID(pid int) error {
	return os.WriteFile(f.pid, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func (f daemonFiles) readPID() (int, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(f.pid)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", f.pid)
	}
	return pid, nil
}

func (f daemonFiles) writeState(st daemonRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.state(), append(data, '\n'), 0o600)
}

func (f daemonFiles) readState() (daemonRuntimeState, error) {
	var st daemonRuntimeState
	//nolint:gosec // daemon state path is configured by the local user
	data, err := os.ReadFile(f.state())
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// sameDatabase reports whether two database paths name the same file.
func sameDatabase(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	if absA, err := filepath.Abs(a); err == nil {
		a = absA
	}
	if absB, err := filepath.Abs(b); err == nil {
		b = absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
