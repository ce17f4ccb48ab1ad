package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"burrow/internal/daemonctl"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the burrow daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.pidFilePath(),
				exe,
				launchOptions(ctx),
				startTimeout(ctx),
			)
			if errors.Is(err, daemonctl.ErrStartInProgress) {
				fmt.Fprintln(stdout, "Another start is already in progress")
				return nil
			}
			if err != nil {
				return err
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintf(stdout, "Daemon started (pid %d)\n", result.PID)
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintf(stdout, "Daemon already running (pid %d)\n", result.PID)
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the burrow daemon (completely terminates the process)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(ctx.pidFilePath(), stopGrace(ctx))
			if errors.Is(err, daemonctl.ErrNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.ForcedKill {
				fmt.Fprintf(stdout, "Daemon did not stop gracefully; killed pid %d\n", result.PID)
				return nil
			}
			fmt.Fprintf(stdout, "Daemon stopped (pid %d)\n", result.PID)
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the burrow daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.Restart(
				ctx.pidFilePath(),
				exe,
				launchOptions(ctx),
				stopGrace(ctx),
				startTimeout(ctx),
			)
			if err != nil {
				return err
			}

			if result.WasRunning {
				fmt.Fprintf(stdout, "Daemon stopped (pid %d)\n", result.Stop.PID)
			}
			fmt.Fprintf(stdout, "Daemon started (pid %d)\n", result.Start.PID)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			cfg := ctx.configValue()
			info := daemonctl.Status(ctx.pidFilePath())

			colorize := shouldColorize(stdout)
			if info.Running {
				fmt.Fprintln(stdout, renderStatusLine("Burrow", statusOK, "Running", colorize))
			} else {
				fmt.Fprintln(stdout, renderStatusLine("Burrow", statusWarn, "Not running (run `burrow start`)", colorize))
			}
			fmt.Fprintln(stdout)

			rows := [][2]string{
				{"State", stateLabel(info)},
				{"PID", pidLabel(info)},
				{"Pid file", info.PidFile},
				{"Work dir", cfg.Paths.WorkDir},
				{"Log dir", cfg.Paths.LogDir},
			}
			fmt.Fprintln(stdout, renderKV("Field", rows))
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

func stateLabel(info daemonctl.StatusInfo) string {
	if info.Running {
		return "running"
	}
	if info.PID > 0 {
		return "stale pid file"
	}
	return "stopped"
}

func pidLabel(info daemonctl.StatusInfo) string {
	if info.PID <= 0 {
		return "-"
	}
	return strconv.Itoa(info.PID)
}

func launchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	return daemonctl.LaunchOptions{ConfigPath: ctx.configFlagValue()}
}

func startTimeout(ctx *commandContext) time.Duration {
	cfg := ctx.configValue()
	if cfg == nil || cfg.Control.StartTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.Control.StartTimeoutSeconds) * time.Second
}

func stopGrace(ctx *commandContext) time.Duration {
	cfg := ctx.configValue()
	if cfg == nil || cfg.Control.StopGraceSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.Control.StopGraceSeconds) * time.Second
}
