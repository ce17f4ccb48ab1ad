//go:build unix

package daemonize

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"burrow/internal/fdreaper"
	"burrow/internal/logging"
	"burrow/internal/pidfile"
	"burrow/internal/streams"
)

// Environment contract between the re-exec stages. The variables are set by
// the parent stage and scrubbed before the daemon's code runs.
const (
	envPrefix    = "_BURROW_"
	envStage     = envPrefix + "STAGE"
	envPidFile   = envPrefix + "PIDFILE"
	envPidFD     = envPrefix + "PIDFD"
	envShieldFDs = envPrefix + "SHIELDFDS"
)

// Inherited descriptor layout for stages 1 and 2: the three std slots, then
// the locked pid file, then the shielded descriptors in option order.
const pidFileSlot = 3

// Stage identifies which re-exec generation the current process is.
func Stage() int {
	value := os.Getenv(envStage)
	if value == "" {
		return 0
	}
	stage, err := strconv.Atoi(value)
	if err != nil || stage < 1 || stage > 2 {
		return 0
	}
	return stage
}

// daemonized is set once runDaemon finishes; the stage environment is
// scrubbed at that point, so the marker cannot come from Stage().
var daemonized bool

// IsDaemon reports whether Daemonize has already run to completion in this
// process lineage. It is false in the launcher and the intermediate stage.
func IsDaemon() bool {
	return daemonized || Stage() == 2
}

// Daemonize detaches the current program into a daemon. The launcher calls
// it once; internally the binary re-executes itself twice so that the final
// process is a session leader's child with no controlling terminal, exactly
// as a classic double fork would leave it.
//
// Daemonize returns only in the final daemon process, holding the locked pid
// file. In the two parent stages it exits the process after spawning the next
// stage; on any setup failure it logs the diagnostic and exits nonzero, since
// no caller state survives a half-detached process.
func Daemonize(opts Options, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = logging.NewNop()
	}
	opts = opts.withDefaults()

	switch Stage() {
	case 0:
		runLauncher(opts, logger)
	case 1:
		runIntermediate(opts, logger)
	}
	return runDaemon(opts, logger)
}

// runLauncher is stage 0: acquire the pid file lock before anything else, so
// a second invocation fails here rather than after detaching, then spawn
// stage 1 in a fresh session and exit.
func runLauncher(opts Options, logger *slog.Logger) {
	pid, err := pidfile.Acquire(opts.PidFilePath, logger)
	if err != nil {
		fatal(logger, "acquire pid file", err)
	}

	shielded, err := shieldedFiles(opts.ShieldFDs)
	if err != nil {
		pid.Cleanup(logger)
		fatal(logger, "collect shielded descriptors", err)
	}

	files := inheritedFiles(pid.File(), shielded)
	attr := &os.ProcAttr{
		Dir:   opts.WorkDir,
		Env:   stageEnv(1, pid.Path(), len(shielded)),
		Files: files,
		Sys:   &syscall.SysProcAttr{Setsid: true},
	}
	if err := spawnNext(attr); err != nil {
		pid.Cleanup(logger)
		fatal(logger, "spawn detached stage", err)
	}

	// The lock rides the inherited descriptor; closing ours here would
	// release it, so the launcher exits without cleanup.
	os.Exit(0)
}

// runIntermediate is stage 1: a session leader that must not become the
// daemon (a session leader can reacquire a controlling terminal). It applies
// the umask so the value is inherited, then spawns stage 2 in the same
// session and exits.
func runIntermediate(opts Options, logger *slog.Logger) {
	unix.Umask(opts.Umask)

	pid := inheritedPidFile()
	shielded := inheritedShielded()

	files := inheritedFiles(pid.File(), shielded)
	attr := &os.ProcAttr{
		Env:   stageEnv(2, pid.Path(), len(shielded)),
		Files: files,
	}
	if err := spawnNext(attr); err != nil {
		pid.Cleanup(logger)
		fatal(logger, "spawn daemon stage", err)
	}
	os.Exit(0)
}

// runDaemon is stage 2: the process that survives. Record the pid, sweep
// stray descriptors, rewire the std streams, and hand the caller the
// teardown handle.
func runDaemon(opts Options, logger *slog.Logger) *Handle {
	pid := inheritedPidFile()
	shielded := inheritedShielded()

	if err := pid.Write(); err != nil {
		pid.Cleanup(logger)
		fatal(logger, "record daemon pid", err)
	}

	spared := []int{int(pid.File().Fd())}
	for _, file := range shielded {
		spared = append(spared, int(file.Fd()))
	}
	if err := fdreaper.CloseInherited(spared, opts.FDFallbackLimit); err != nil {
		logger.Warn("descriptor sweep incomplete", logging.Error(err))
	}

	plan := streams.NewPlan(opts.Stdin, opts.Stdout, opts.Stderr)
	if err := streams.Redirect(plan, logger); err != nil {
		pid.Cleanup(logger)
		fatal(logger, "redirect standard streams", err)
	}

	scrubStageEnv()
	daemonized = true

	args := os.Args
	if opts.StripFirstArg && len(args) > 0 {
		args = args[1:]
	}

	logger.Info("daemonized",
		logging.Int(logging.FieldPID, os.Getpid()),
		logging.String(logging.FieldPath, pid.Path()))

	return &Handle{pid: pid, shielded: shielded, args: args, logger: logger}
}

// shieldedFiles wraps the launcher-side descriptors listed in the options.
// Descriptors below the std slots are rejected: shielding them would alias
// the stream redirection targets.
func shieldedFiles(fds []int) ([]*os.File, error) {
	files := make([]*os.File, 0, len(fds))
	for _, fd := range fds {
		if fd < fdreaper.FirstReapable {
			return nil, fmt.Errorf("cannot shield descriptor %d: standard streams are managed by redirection", fd)
		}
		files = append(files, os.NewFile(uintptr(fd), fmt.Sprintf("shielded-fd-%d", fd)))
	}
	return files, nil
}

// inheritedFiles builds the ProcAttr table: std streams pass through so
// pre-daemon failures still reach the launcher's terminal, the pid file
// lands on its fixed slot, and shielded files follow in order.
func inheritedFiles(pid *os.File, shielded []*os.File) []*os.File {
	files := []*os.File{os.Stdin, os.Stdout, os.Stderr, pid}
	return append(files, shielded...)
}

// stageEnv builds the next stage's environment: the current environment
// minus any prior stage contract, then the new one. os.StartProcess passes
// the slice through verbatim and the child resolves the first occurrence of
// a key, so a stale _BURROW_STAGE left in place would shadow the new value
// and replay the previous stage.
func stageEnv(stage int, pidPath string, shieldCount int) []string {
	current := os.Environ()
	env := make([]string, 0, len(current)+4)
	for _, entry := range current {
		if strings.HasPrefix(entry, envPrefix) {
			continue
		}
		env = append(env, entry)
	}
	env = append(env,
		envStage+"="+strconv.Itoa(stage),
		envPidFile+"="+pidPath,
		envPidFD+"="+strconv.Itoa(pidFileSlot),
	)
	if shieldCount > 0 {
		fds := make([]string, shieldCount)
		for i := range fds {
			// Child-side numbering: slots after the pid file.
			fds[i] = strconv.Itoa(pidFileSlot + 1 + i)
		}
		env = append(env, envShieldFDs+"="+strings.Join(fds, ","))
	}
	return env
}

// inheritedPidFile rebuilds the locked pid file handle around the slot the
// parent stage announced. A missing or malformed announcement falls back to
// the fixed layout slot.
func inheritedPidFile() *pidfile.Handle {
	path := os.Getenv(envPidFile)
	slot := pidFileSlot
	if value := os.Getenv(envPidFD); value != "" {
		if fd, err := strconv.Atoi(value); err == nil && fd >= fdreaper.FirstReapable {
			slot = fd
		}
	}
	return pidfile.FromFile(os.NewFile(uintptr(slot), path), path)
}

// inheritedShielded rewraps the shielded descriptors announced by the
// parent stage. Malformed entries are skipped.
func inheritedShielded() []*os.File {
	value := os.Getenv(envShieldFDs)
	if value == "" {
		return nil
	}
	var files []*os.File
	for _, field := range strings.Split(value, ",") {
		fd, err := strconv.Atoi(field)
		if err != nil || fd <= pidFileSlot {
			continue
		}
		files = append(files, os.NewFile(uintptr(fd), fmt.Sprintf("shielded-fd-%d", fd)))
	}
	return files
}

func scrubStageEnv() {
	for _, key := range []string{envStage, envPidFile, envPidFD, envShieldFDs} {
		os.Unsetenv(key)
	}
}

// spawnNext re-executes the current binary with the same arguments.
func spawnNext(attr *os.ProcAttr) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	proc, err := os.StartProcess(exe, os.Args, attr)
	if err != nil {
		return fmt.Errorf("start %q: %w", exe, err)
	}
	return proc.Release()
}

// fatal reports a setup failure and exits. Daemonization has no partial
// success: by the time an error surfaces the process may already be
// detached, so recovery is left to the next launch.
func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, logging.Error(err))
	fmt.Fprintf(os.Stderr, "burrow: %s: %v\n", msg, err)
	os.Exit(1)
}
