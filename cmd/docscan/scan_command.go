package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docscan/internal/config"
	"docscan/internal/fsutil"
	"docscan/internal/orchestrator"
	"docscan/internal/preflight"
	"docscan/internal/session"
)

func newScanCommand(cmdCtx *commandContext) *cobra.Command {
	var engineFlag string
	var modeFlag string
	var manifestFlag string
	var noAutoSave bool

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan every dossier folder under a root directory or listed in a manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(cfg *config.Config, store *session.Store) error {
				runCtx := cmd.Context()
				out := cmd.OutOrStdout()

				folders, root, err := resolveFolders(args, manifestFlag)
				if err != nil {
					return err
				}

				logger, err := cmdCtx.newLogger(cfg)
				if err != nil {
					return err
				}

				prefs := settingsStore(store)
				engine := strings.TrimSpace(engineFlag)
				if engine == "" {
					if engine, err = prefs.Engine(runCtx, cfg.Recognizer.Engine); err != nil {
						return err
					}
				}

				mode, err := resolveBatchMode(runCtx, cfg, prefs, modeFlag)
				if err != nil {
					return err
				}

				autoSave := cfg.Scan.AutoSave
				if autoSave, err = prefs.AutoSaveEnabled(runCtx, autoSave); err != nil {
					return err
				}
				if noAutoSave {
					autoSave = false
				}

				checks := preflight.Run(cfg, folders)
				for _, finding := range checks.Findings {
					if finding.Severity == preflight.SeverityWarning {
						fmt.Fprintf(out, "warning: %s\n", finding.Detail)
					}
				}
				if checks.Fatal() {
					return fmt.Errorf("preflight failed: %s", checks.Errors())
				}

				// Remember the effective choices for the next scan.
				if err := prefs.SetEngine(runCtx, engine); err != nil {
					return err
				}
				if err := prefs.SetBatchMode(runCtx, mode); err != nil {
					return err
				}
				if err := prefs.SetAutoSaveEnabled(runCtx, autoSave); err != nil {
					return err
				}

				mgr, err := buildManager(cfg, store, logger, engine)
				if err != nil {
					return err
				}

				sess, skipped, err := mgr.NewSession(runCtx, folders, orchestrator.SessionOptions{
					Engine:    engine,
					BatchMode: mode,
					AutoSave:  autoSave,
					RootPath:  root,
				})
				if err != nil {
					return err
				}
				for _, folder := range skipped {
					fmt.Fprintf(out, "skipped: %s\n", folder)
				}

				if err := mgr.Run(runCtx, sess); err != nil {
					if errors.Is(err, context.Canceled) {
						fmt.Fprintf(out, "Interrupted; resume with `docscan resume %s`\n", sess.ID)
						return nil
					}
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&engineFlag, "engine", "", "Recognition engine id (defaults to the last used engine)")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "Batch mode: sequential, fixed, or smart")
	cmd.Flags().StringVar(&manifestFlag, "manifest", "", "File listing folder paths to scan, one per line")
	cmd.Flags().BoolVar(&noAutoSave, "no-autosave", false, "Do not persist progress after every folder")
	return cmd
}

// resolveFolders turns the command arguments into the folder worklist:
// either the manifest's entries or the subfolders of the given root. A
// root without subfolders is scanned as a single folder.
func resolveFolders(args []string, manifest string) ([]string, string, error) {
	if manifest = strings.TrimSpace(manifest); manifest != "" {
		expanded, err := config.ExpandPath(manifest)
		if err != nil {
			return nil, "", err
		}
		folders, err := fsutil.ReadManifest(expanded)
		if err != nil {
			return nil, "", err
		}
		for i, folder := range folders {
			if folders[i], err = config.ExpandPath(folder); err != nil {
				return nil, "", fmt.Errorf("resolve folder %s: %w", folder, err)
			}
		}
		return folders, expanded, nil
	}

	if len(args) == 0 {
		return nil, "", errors.New("provide a root directory or --manifest")
	}
	root, err := config.ExpandPath(args[0])
	if err != nil {
		return nil, "", err
	}
	if !fsutil.IsDir(root) {
		return nil, "", fmt.Errorf("root %s is not a directory", root)
	}

	folders, err := fsutil.ListSubfolders(root)
	if err != nil {
		return nil, "", err
	}
	if len(folders) == 0 {
		folders = []string{root}
	}
	return folders, root, nil
}

func resolveBatchMode(ctx context.Context, cfg *config.Config, prefs settingsReader, flag string) (session.BatchMode, error) {
	if flag = strings.TrimSpace(flag); flag != "" {
		mode, ok := session.ParseBatchMode(flag)
		if !ok {
			return "", fmt.Errorf("unknown batch mode %q (want sequential, fixed, or smart)", flag)
		}
		return mode, nil
	}

	fallback, ok := session.ParseBatchMode(cfg.Scan.BatchMode)
	if !ok {
		fallback = session.BatchSmart
	}
	return prefs.BatchMode(ctx, fallback)
}

type settingsReader interface {
	BatchMode(ctx context.Context, fallback session.BatchMode) (session.BatchMode, error)
}
