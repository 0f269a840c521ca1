package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"curlcraft/internal/release"
)

func newRecentCmd() *cobra.Command {
	var limit int
	var scan bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently generated release files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeStore, err := openManager(cfg.DBPath, cfg.ReleaseDir)
			if err != nil {
				return err
			}
			defer closeStore()

			if scan {
				added, err := m.Scan(cmd.Context())
				if err != nil {
					return err
				}
				slog.Info("Release directory scanned", "dir", cfg.ReleaseDir, "added", added)
			}

			files, err := m.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printRecentFiles(cmd.OutOrStdout(), files)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of files to show, 0 for all.")
	cmd.Flags().BoolVar(&scan, "scan", false, "Record .txt files already present in the release directory.")
	cmd.AddCommand(newRecentDeleteCmd())
	return cmd
}

func newRecentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a file from the recent list (and from disk for directory files)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeStore, err := openManager(cfg.DBPath, cfg.ReleaseDir)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := m.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, release.ErrNotFound) {
					return fmt.Errorf("%q is not in the recent files", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s has been removed\n", args[0])
			return nil
		},
	}
}
