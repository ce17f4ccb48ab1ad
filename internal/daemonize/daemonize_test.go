//go:build unix

package daemonize_test

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"burrow/internal/daemonize"
	"burrow/internal/logging"
	"burrow/internal/pidfile"
)

// TestMain doubles as the daemon under test: when the helper marker is set
// the re-executed binary runs helperMain instead of the test suite. The
// marker rides the environment through every re-exec stage, so all three
// stage processes route here.
func TestMain(m *testing.M) {
	if os.Getenv("BURROW_DAEMONIZE_HELPER") == "1" {
		helperMain()
		return
	}
	os.Exit(m.Run())
}

func helperMain() {
	handle := daemonize.Daemonize(daemonize.Options{
		PidFilePath: os.Getenv("BURROW_HELPER_PIDFILE"),
		WorkDir:     filepath.Dir(os.Getenv("BURROW_HELPER_RESULT")),
		Stdin:       os.DevNull,
		Stdout:      os.DevNull,
		Stderr:      os.DevNull,
	}, logging.NewNop())

	term := make(chan os.Signal, 1)
	signal.Notify(term, syscall.SIGTERM)

	report := fmt.Sprintf("%d %d\n", os.Getpid(), os.Getppid())
	if err := os.WriteFile(os.Getenv("BURROW_HELPER_RESULT"), []byte(report), 0o644); err != nil {
		handle.Close()
		os.Exit(1)
	}

	<-term
	handle.Close()
	os.Exit(0)
}

func TestDaemonizeDetachesAndTearsDown(t *testing.T) {
	dir := t.TempDir()
	pidPath := filepath.Join(dir, "helper.pid")
	resultPath := filepath.Join(dir, "helper.result")

	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(),
		"BURROW_DAEMONIZE_HELPER=1",
		"BURROW_HELPER_PIDFILE="+pidPath,
		"BURROW_HELPER_RESULT="+resultPath,
	)
	if err := cmd.Run(); err != nil {
		t.Fatalf("launcher stage failed: %v", err)
	}
	launcherPid := cmd.Process.Pid

	report := waitForFile(t, resultPath)
	var daemonPid, daemonPPid int
	if _, err := fmt.Sscanf(report, "%d %d", &daemonPid, &daemonPPid); err != nil {
		t.Fatalf("parse helper report %q: %v", report, err)
	}
	defer func() {
		_ = syscall.Kill(daemonPid, syscall.SIGKILL)
	}()

	if daemonPid == launcherPid {
		t.Fatalf("daemon pid %d equals launcher pid; process did not re-execute", daemonPid)
	}
	if daemonPPid == launcherPid {
		t.Fatalf("daemon parent is still the launcher; intermediate stage did not exit")
	}

	stored, err := pidfile.Read(pidPath)
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	if stored != daemonPid {
		t.Fatalf("pid file records %d, daemon reports %d", stored, daemonPid)
	}

	if err := syscall.Kill(daemonPid, 0); err != nil {
		t.Fatalf("daemon %d not signalable: %v", daemonPid, err)
	}

	// The daemon holds the exclusive lock, so a competing acquisition
	// must be refused without touching the file.
	if _, err := pidfile.Acquire(pidPath, logging.NewNop()); !errors.Is(err, pidfile.ErrLocked) {
		t.Fatalf("expected ErrLocked while daemon is running, got %v", err)
	}

	if err := syscall.Kill(daemonPid, syscall.SIGTERM); err != nil {
		t.Fatalf("send SIGTERM: %v", err)
	}
	waitForRemoval(t, pidPath)
}

func TestStageInTestProcess(t *testing.T) {
	if got := daemonize.Stage(); got != 0 {
		t.Fatalf("Stage() = %d in an undetached process, want 0", got)
	}
	if daemonize.IsDaemon() {
		t.Fatal("IsDaemon() = true in an undetached process")
	}
}

func waitForFile(t *testing.T, path string) string {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && strings.HasSuffix(string(data), "\n") {
			return string(data)
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("daemon never reported to %s", path)
	return ""
}

func waitForRemoval(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("pid file %s still present after shutdown", path)
}
