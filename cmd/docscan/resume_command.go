package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"docscan/internal/config"
	"docscan/internal/session"
)

func newResumeCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume [session-id]",
		Short: "Continue an interrupted scan session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(cfg *config.Config, store *session.Store) error {
				runCtx := cmd.Context()
				out := cmd.OutOrStdout()

				id, err := resolveResumeTarget(runCtx, store, args)
				if err != nil {
					return err
				}

				target, err := store.Get(runCtx, id)
				if err != nil {
					return err
				}
				if target == nil {
					return fmt.Errorf("no session with id %s", id)
				}

				logger, err := cmdCtx.newLogger(cfg)
				if err != nil {
					return err
				}
				mgr, err := buildManager(cfg, store, logger, target.Engine)
				if err != nil {
					return err
				}

				if _, err := mgr.Resume(runCtx, id); err != nil {
					if errors.Is(err, context.Canceled) {
						fmt.Fprintf(out, "Interrupted; resume again with `docscan resume %s`\n", id)
						return nil
					}
					return err
				}
				return nil
			})
		},
	}
	return cmd
}

// resolveResumeTarget picks the session to continue: the explicit id when
// given, otherwise the most recently created resumable session.
func resolveResumeTarget(ctx context.Context, store *session.Store, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	candidates, err := store.ListIncomplete(ctx)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", errors.New("no resumable sessions; start one with `docscan scan`")
	}
	return candidates[len(candidates)-1].ID, nil
}
