package daemonctl

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"burrow/internal/pidfile"
	"burrow/internal/sigrelay"
)

// ErrNotRunning indicates no live daemon answers the pid file.
var ErrNotRunning = errors.New("daemon not running")

// ErrStartInProgress indicates another start invocation holds the launch lock.
var ErrStartInProgress = errors.New("another start is already in progress")

const probeInterval = 200 * time.Millisecond

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
	ExtraArgs  []string
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State StartState
	PID   int
}

// StatusInfo reports daemon liveness as seen through the pid file.
type StatusInfo struct {
	Running bool
	PID     int
	PidFile string
}

// StopResult captures daemon stop/termination outcome.
type StopResult struct {
	Delivered  bool
	ForcedKill bool
	PID        int
}

// RestartResult captures stop/start outcomes for daemon restart.
type RestartResult struct {
	WasRunning bool
	Stop       StopResult
	Start      StartResult
}

// LaunchLockPath returns the launch lock location for a pid file.
func LaunchLockPath(pidPath string) string {
	return pidPath + ".launch"
}

// Launch starts a detached daemon process via the binary's hidden run command.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"run"}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	args = append(args, opts.ExtraArgs...)

	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForReady polls until the pid file names a live process.
func WaitForReady(pidPath string, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if sigrelay.Ping(pidPath) {
			pid, err := pidfile.Read(pidPath)
			if err == nil {
				return pid, nil
			}
		}
		time.Sleep(probeInterval)
	}
	return 0, fmt.Errorf("daemon failed to start within %s", timeout)
}

// EnsureStarted launches the daemon unless one is already alive, holding the
// launch lock for the duration so concurrent starts cannot race.
func EnsureStarted(pidPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	if sigrelay.Ping(pidPath) {
		pid, _ := pidfile.Read(pidPath)
		return StartResult{State: StartStateAlreadyRunning, PID: pid}, nil
	}

	launchLock := flock.New(LaunchLockPath(pidPath))
	locked, err := launchLock.TryLock()
	if err != nil {
		return StartResult{}, fmt.Errorf("acquire launch lock: %w", err)
	}
	if !locked {
		return StartResult{}, ErrStartInProgress
	}
	defer func() {
		_ = launchLock.Unlock()
		_ = os.Remove(LaunchLockPath(pidPath))
	}()

	// Re-probe under the lock: a racing start may have won before we
	// acquired it.
	if sigrelay.Ping(pidPath) {
		pid, _ := pidfile.Read(pidPath)
		return StartResult{State: StartStateAlreadyRunning, PID: pid}, nil
	}

	if err := Launch(executablePath, opts); err != nil {
		return StartResult{}, err
	}
	pid, err := WaitForReady(pidPath, waitTimeout)
	if err != nil {
		return StartResult{}, err
	}
	return StartResult{State: StartStateStarted, PID: pid}, nil
}

// Status reports whether a live daemon answers the pid file.
func Status(pidPath string) StatusInfo {
	info := StatusInfo{PidFile: pidPath}
	pid, err := pidfile.Read(pidPath)
	if err != nil {
		return info
	}
	info.PID = pid
	info.Running = sigrelay.Ping(pidPath)
	return info
}

// WaitForShutdown polls until the daemon stops answering the null probe.
func WaitForShutdown(pidPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !sigrelay.Ping(pidPath) {
			return nil
		}
		time.Sleep(probeInterval)
	}
	return fmt.Errorf("daemon still running after %s", timeout)
}

// ForceKill sends SIGKILL to the recorded process and cleans up the pid and
// launch lock files, which the killed daemon can no longer remove itself.
func ForceKill(pidPath string, fallbackPID int) (int, error) {
	pid, err := pidfile.Read(pidPath)
	if err != nil {
		pid = fallbackPID
	}
	if pid <= 0 {
		return 0, fmt.Errorf("unable to determine daemon pid (pid file: %s)", pidPath)
	}
	if pid == os.Getpid() {
		return 0, fmt.Errorf("refusing to kill current process (pid %d)", pid)
	}
	// Kill the resolved pid directly; relaying through the pid file would
	// discard the fallback when the file is unreadable.
	if err := sigrelay.Deliver(pid, syscall.SIGKILL); err != nil {
		return 0, fmt.Errorf("kill daemon process %d: %w", pid, err)
	}
	if err := os.Remove(pidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("remove pid file %q: %w", pidPath, err)
	}
	_ = os.Remove(LaunchLockPath(pidPath))
	return pid, nil
}

// StopAndTerminate requests a graceful stop via SIGTERM and force-kills the
// process if it is still alive after gracePeriod.
func StopAndTerminate(pidPath string, gracePeriod time.Duration) (StopResult, error) {
	info := Status(pidPath)
	if !info.Running {
		return StopResult{}, ErrNotRunning
	}
	result := StopResult{PID: info.PID}

	if err := sigrelay.Send(pidPath, syscall.SIGTERM); err != nil {
		return result, fmt.Errorf("signal daemon: %w", err)
	}
	result.Delivered = true

	if WaitForShutdown(pidPath, gracePeriod) == nil {
		return result, nil
	}

	killed, err := ForceKill(pidPath, info.PID)
	if err != nil {
		return result, fmt.Errorf("failed to stop daemon process: %w", err)
	}
	result.ForcedKill = true
	result.PID = killed
	return result, nil
}

// Restart stops the daemon if running, then ensures it is started.
func Restart(pidPath, executablePath string, opts LaunchOptions, stopGracePeriod, startWaitTimeout time.Duration) (RestartResult, error) {
	stopResult, stopErr := StopAndTerminate(pidPath, stopGracePeriod)
	if stopErr != nil && !errors.Is(stopErr, ErrNotRunning) {
		return RestartResult{}, stopErr
	}

	startResult, err := EnsureStarted(pidPath, executablePath, opts, startWaitTimeout)
	if err != nil {
		return RestartResult{}, err
	}

	return RestartResult{
		WasRunning: stopErr == nil,
		Stop:       stopResult,
		Start:      startResult,
	}, nil
}
