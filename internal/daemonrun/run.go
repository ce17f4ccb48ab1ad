package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"burrow/internal/config"
	"burrow/internal/daemonize"
	"burrow/internal/logging"
	"burrow/internal/pidfile"
	"burrow/internal/privilege"
	"burrow/internal/sigdispatch"
)

// Service is the workload hosted by the daemon. It runs until the context is
// cancelled; returning earlier ends the run with the service's error.
type Service func(ctx context.Context, logger *slog.Logger) error

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel   string
	Foreground bool
	Service    Service
}

const heartbeatInterval = 30 * time.Second

// Run detaches (unless foreground), then hosts the service until a shutdown
// signal arrives. In detached mode this function returns only in the final
// daemon process; the launcher stages exit inside Daemonize.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	var pidPath string
	var teardown func(*slog.Logger)
	if opts.Foreground {
		pf, err := pidfile.Acquire(cfg.Paths.PidFile, logging.NewNop())
		if err != nil {
			return err
		}
		if err := pf.Write(); err != nil {
			pf.Cleanup(logging.NewNop())
			return err
		}
		pidPath = pf.Path()
		teardown = pf.Cleanup
	} else {
		bootstrap, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      "console",
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			return fmt.Errorf("init bootstrap logger: %w", err)
		}
		handle := daemonize.Daemonize(daemonize.FromConfig(cfg), bootstrap)
		pidPath = handle.PidFilePath()
		teardown = func(*slog.Logger) { handle.Close() }
	}

	runID := uuid.NewString()
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("burrow-%s.log", runID))
	logger, err := logging.New(logging.Options{
		Level:       firstNonEmpty(opts.LogLevel, cfg.Logging.Level),
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
	if err != nil {
		teardown(logging.NewNop())
		return fmt.Errorf("init logger: %w", err)
	}
	defer teardown(logger)

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		logger.Warn("unable to update burrow.log link", logging.Error(err))
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "burrow-*.log", Exclude: []string{logPath}},
	)

	if cfg.Privileges.User != "" || cfg.Privileges.Group != "" {
		if err := privilege.Demote(pidPath, cfg.Privileges.User, cfg.Privileges.Group); err != nil {
			logger.Error("privilege drop failed", logging.Error(err))
			return fmt.Errorf("drop privileges: %w", err)
		}
		logger.Info("privileges dropped",
			logging.String("user", cfg.Privileges.User),
			logging.String("group", cfg.Privileges.Group))
	}

	startedAt := time.Now()
	logger.Info("burrow daemon running",
		logging.Int(logging.FieldPID, os.Getpid()),
		logging.String("run_id", runID),
		logging.String(logging.FieldPath, pidPath))

	dispatcher := sigdispatch.New(logger)
	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT} {
		dispatcher.HandleShutdown(sig, nil)
	}
	dispatcher.Handle(syscall.SIGHUP, func(os.Signal) error {
		// No controlling terminal and no reloadable state; record and keep going.
		logger.Info("hangup ignored", logging.String(logging.FieldEventType, "hangup_ignored"))
		return nil
	})
	reasons := dispatcher.Start()
	defer dispatcher.Stop()

	service := opts.Service
	if service == nil {
		service = heartbeatService(startedAt)
	}

	serviceCtx, cancel := context.WithCancel(cmdCtx)
	defer cancel()
	serviceErr := make(chan error, 1)
	go func() {
		serviceErr <- service(serviceCtx, logger)
	}()

	grace := time.Duration(cfg.Control.StopGraceSeconds) * time.Second
	select {
	case reason := <-reasons:
		logger.Info(reason.String(),
			logging.String(logging.FieldSignal, fmt.Sprint(reason.Signal)),
			logging.String(logging.FieldEventType, "shutdown_requested"))
		cancel()
		return awaitService(serviceErr, grace, logger)
	case err := <-serviceErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("service failed", logging.Error(err))
			return err
		}
		logger.Info("service finished")
		return nil
	case <-cmdCtx.Done():
		cancel()
		return awaitService(serviceErr, grace, logger)
	}
}

// awaitService gives the workload a bounded window to unwind after cancel.
func awaitService(serviceErr <-chan error, grace time.Duration, logger *slog.Logger) error {
	if grace <= 0 {
		grace = time.Second
	}
	select {
	case err := <-serviceErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("service ended with error during shutdown", logging.Error(err))
		}
	case <-time.After(grace):
		logger.Warn("service did not stop within grace period",
			logging.Duration("grace", grace))
	}
	logger.Info("burrow daemon shutting down")
	return nil
}

// heartbeatService is the default workload: a periodic liveness record so an
// otherwise idle daemon still produces evidence it is running.
func heartbeatService(startedAt time.Time) Service {
	return func(ctx context.Context, logger *slog.Logger) error {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				logger.Debug("heartbeat",
					logging.Duration("uptime", time.Since(startedAt).Round(time.Second)))
			}
		}
	}
}

// ensureCurrentLogPointer points the stable log name at the current run's
// file, falling back to a hard link on filesystems without symlinks.
func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "burrow.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
