package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"burrow/internal/daemonctl"
	"burrow/internal/sigrelay"
)

func newPingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check whether the daemon process is alive",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			info := daemonctl.Status(ctx.pidFilePath())
			if info.Running {
				fmt.Fprintf(stdout, "Daemon alive (pid %d)\n", info.PID)
				return nil
			}
			if info.PID > 0 {
				return fmt.Errorf("daemon not running (stale pid file records %d)", info.PID)
			}
			return fmt.Errorf("daemon not running")
		},
	}
}

func newSendCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "send <signal>",
		Short: "Send a signal to the daemon process",
		Long: `Send delivers a signal to the process recorded in the pid file.
Signals may be given by name (TERM, SIGHUP) or by number (15).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := parseSignal(args[0])
			if err != nil {
				return err
			}
			if err := sigrelay.Send(ctx.pidFilePath(), sig); err != nil {
				return fmt.Errorf("send signal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %s\n", args[0])
			return nil
		},
	}
}
