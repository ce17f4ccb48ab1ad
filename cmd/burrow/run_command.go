package main

import (
	"github.com/spf13/cobra"

	"burrow/internal/daemonrun"
)

// newRunCommand is the daemon entrypoint. "start" launches it detached; it
// is hidden because users normally go through the lifecycle commands.
func newRunCommand(ctx *commandContext) *cobra.Command {
	var foreground bool
	var logLevel string
	var runUser string
	var runGroup string

	cmd := &cobra.Command{
		Use:    "run",
		Short:  "Run the daemon process",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if runUser != "" {
				cfg.Privileges.User = runUser
			}
			if runGroup != "" {
				cfg.Privileges.Group = runGroup
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:   logLevel,
				Foreground: foreground,
			})
		},
	}

	cmd.Flags().BoolVar(&foreground, "foreground", false, "Stay attached to the terminal instead of detaching")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().StringVar(&runUser, "user", "", "Drop to this user after detaching")
	cmd.Flags().StringVar(&runGroup, "group", "", "Drop to this group after detaching")
	return cmd
}
