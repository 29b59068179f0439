package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/zoobzio/flip/internal/logging"
)

// app holds state shared by subcommands.
type app struct {
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.NewNop()}

	root := &cobra.Command{
		Use:          "flip-todo",
		Short:        "A todo list driven by flip actions",
		Long:         `flip-todo reduces ADD_TODO and COMPLETE_TODO actions into a todo list and renders it as Markdown.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("log-level")
			level, err := logging.ParseLevel(name)
			if err != nil {
				return err
			}
			a.logger = logging.New(cmd.ErrOrStderr(), level)
			logging.HookSignals(a.logger)
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newActionsCmd())

	return root
}
