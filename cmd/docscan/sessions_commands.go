package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docscan/internal/config"
	"docscan/internal/session"
)

func newSessionsCommand(cmdCtx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and manage scan sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsList(cmdCtx, cmd)
		},
	}

	sessionsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scan sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsList(cmdCtx, cmd)
		},
	})
	sessionsCmd.AddCommand(&cobra.Command{
		Use:   "rm <session-id>",
		Short: "Delete a scan session and its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(cfg *config.Config, store *session.Store) error {
				removed, err := store.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no session with id %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session %s\n", args[0])
				return nil
			})
		},
	})

	return sessionsCmd
}

func runSessionsList(cmdCtx *commandContext, cmd *cobra.Command) error {
	return cmdCtx.withStore(func(cfg *config.Config, store *session.Store) error {
		sessions, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded")
			return nil
		}

		fmt.Fprintln(out, renderSessionsTable(sessions))
		return nil
	})
}
