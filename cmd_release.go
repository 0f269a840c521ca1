package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"curlcraft/internal/release"
)

func newReleaseCmd() *cobra.Command {
	var service, tag, dir string
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Generate a release marker file for a service tag",
		Long: `Writes "[RELEASE] <service>-<tag>.txt" containing "<service>:<tag>" to the
release directory and adds it to the recent files. With --stdout, or when
no release directory is configured, the content is printed instead and the
file is recorded as a download.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = cfg.ReleaseDir
			}
			if toStdout {
				dir = ""
			}

			m, closeStore, err := openManager(cfg.DBPath, dir)
			if err != nil {
				return err
			}
			defer closeStore()

			f, rf, err := m.Generate(cmd.Context(), service, tag)
			if err != nil {
				var ierr *release.InputError
				switch {
				case errors.As(err, &ierr):
					printProblems(cmd.ErrOrStderr(), "Invalid release", ierr.Problems)
					return errReported
				case errors.Is(err, release.ErrDuplicate):
					printProblems(cmd.ErrOrStderr(), "File Already Exists", []string{"Rename the service or increment the version tag"})
					return errReported
				}
				return err
			}

			if rf.Source == release.SourceDownload {
				fmt.Fprintln(cmd.OutOrStdout(), f.Content)
				return nil
			}
			printSaved(cmd.OutOrStdout(), rf)
			return nil
		},
	}

	cmd.Flags().StringVarP(&service, "service", "s", "", "Service name (letters, numbers, hyphens and spaces).")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Version tag in X.X.X format.")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write the file to (default is release_dir from the config).")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the file content instead of writing it.")
	return cmd
}

// openManager opens the recent-files database and returns a manager
// writing to dir along with a func that closes the database.
func openManager(dbPath, dir string) (*release.Manager, func(), error) {
	store, err := release.OpenStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return release.NewManager(store, dir), func() { store.Close() }, nil
}
