package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zoobzio/flip/examples/todo"
)

func newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the action types the todo reducer handles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, tag := range todo.ActionMap.Types() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), tag); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
