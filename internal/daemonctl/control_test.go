//go:build unix

package daemonctl_test

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"burrow/internal/daemonctl"
)

func writePidFile(t *testing.T, pid int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daemon.pid")
	if err := os.WriteFile(path, fmt.Appendf(nil, "%d\n", pid), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}
	return path
}

func TestStatusMissingPidFile(t *testing.T) {
	info := daemonctl.Status(filepath.Join(t.TempDir(), "absent.pid"))
	if info.Running {
		t.Fatal("reported running with no pid file")
	}
	if info.PID != 0 {
		t.Fatalf("PID = %d, want 0", info.PID)
	}
}

func TestStatusLiveProcess(t *testing.T) {
	path := writePidFile(t, os.Getpid())
	info := daemonctl.Status(path)
	if !info.Running {
		t.Fatal("own process reported as not running")
	}
	if info.PID != os.Getpid() {
		t.Fatalf("PID = %d, want %d", info.PID, os.Getpid())
	}
}

func TestStatusDeadProcess(t *testing.T) {
	path := writePidFile(t, 1<<30)
	info := daemonctl.Status(path)
	if info.Running {
		t.Fatal("nonexistent pid reported as running")
	}
	if info.PID != 1<<30 {
		t.Fatalf("PID = %d, want recorded pid even when dead", info.PID)
	}
}

func TestStopAndTerminateNotRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.pid")
	if _, err := daemonctl.StopAndTerminate(path, time.Second); !errors.Is(err, daemonctl.ErrNotRunning) {
		t.Fatalf("got %v, want ErrNotRunning", err)
	}
}

func TestForceKillRefusesSelf(t *testing.T) {
	path := writePidFile(t, os.Getpid())
	if _, err := daemonctl.ForceKill(path, 0); err == nil {
		t.Fatal("ForceKill agreed to kill the current process")
	}
}

func TestForceKillFallsBackToKnownPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	if err := os.WriteFile(path, []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}

	victim := exec.Command("sleep", "60")
	if err := victim.Start(); err != nil {
		t.Fatalf("start victim process: %v", err)
	}
	defer func() {
		_ = victim.Process.Kill()
		_ = victim.Wait()
	}()

	pid, err := daemonctl.ForceKill(path, victim.Process.Pid)
	if err != nil {
		t.Fatalf("ForceKill: %v", err)
	}
	if pid != victim.Process.Pid {
		t.Fatalf("killed pid %d, want %d", pid, victim.Process.Pid)
	}

	var exit *exec.ExitError
	if err := victim.Wait(); !errors.As(err, &exit) {
		t.Fatalf("victim wait: %v", err)
	}
	status, ok := exit.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() || status.Signal() != syscall.SIGKILL {
		t.Fatalf("victim not killed by SIGKILL: %v", exit)
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pid file still present after force kill: %v", err)
	}
}

func TestEnsureStartedAlreadyRunning(t *testing.T) {
	path := writePidFile(t, os.Getpid())
	// The bogus executable proves no launch is attempted when a live
	// daemon already answers.
	result, err := daemonctl.EnsureStarted(path, "/nonexistent/burrow", daemonctl.LaunchOptions{}, time.Second)
	if err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	if result.State != daemonctl.StartStateAlreadyRunning {
		t.Fatalf("State = %q, want already_running", result.State)
	}
	if result.PID != os.Getpid() {
		t.Fatalf("PID = %d, want %d", result.PID, os.Getpid())
	}
}

func TestEnsureStartedLaunchLockContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	held := flock.New(daemonctl.LaunchLockPath(path))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("seed launch lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	if _, err := daemonctl.EnsureStarted(path, "/nonexistent/burrow", daemonctl.LaunchOptions{}, time.Second); !errors.Is(err, daemonctl.ErrStartInProgress) {
		t.Fatalf("got %v, want ErrStartInProgress", err)
	}
}

func TestWaitForShutdownTimesOutOnLiveProcess(t *testing.T) {
	path := writePidFile(t, os.Getpid())
	if err := daemonctl.WaitForShutdown(path, 250*time.Millisecond); err == nil {
		t.Fatal("WaitForShutdown reported a live process as stopped")
	}
}

func TestLaunchRejectsEmptyExecutable(t *testing.T) {
	if err := daemonctl.Launch("  ", daemonctl.LaunchOptions{}); err == nil {
		t.Fatal("Launch accepted an empty executable path")
	}
}
