package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"curlcraft/internal/capture"
	"curlcraft/internal/curlcmd"
)

func newCurlCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "curl [file]",
		Short: "Convert a captured request into a cURL command",
		Long: `Reads a request capture from the file argument, or stdin when no file is
given, and prints the formatted and single-line cURL commands.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatBoth && format != formatPretty && format != formatSingle {
				return fmt.Errorf("invalid --format %q: want both, pretty or single", format)
			}
			if out != "" && format == formatBoth {
				return errors.New("--out needs --format pretty or single")
			}

			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			command, err := generateCurl(data, cfg)
			if err != nil {
				var verr *capture.ValidationError
				switch {
				case errors.As(err, &verr):
					printProblems(cmd.ErrOrStderr(), "Invalid JSON format", verr.Problems)
					return errReported
				case errors.Is(err, capture.ErrInvalidJSON):
					printProblems(cmd.ErrOrStderr(), "Invalid JSON", []string{"Please check your JSON input."})
					return errReported
				}
				return err
			}

			if out != "" {
				text := command.SingleLine
				if format == formatPretty {
					text = command.Pretty
				}
				if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				slog.Info("cURL command written", "path", out, "format", format)
				return nil
			}

			printCommand(cmd.OutOrStdout(), command, format)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatBoth, "Output format: both, pretty or single.")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the command to this file instead of stdout.")
	return cmd
}

// generateCurl runs the extractor and the renderer over raw JSON text.
func generateCurl(data []byte, c *Config) (curlcmd.Command, error) {
	raw, err := capture.Parse(data)
	if err != nil {
		return curlcmd.Command{}, err
	}
	opts, err := c.CaptureOptions()
	if err != nil {
		return curlcmd.Command{}, err
	}
	req, err := capture.Extract(raw, opts)
	if err != nil {
		return curlcmd.Command{}, err
	}
	slog.Debug("Capture extracted", "variant", req.Variant, "method", req.Method, "url", req.URL, "headers", len(req.Headers))
	return curlcmd.Render(req, c.RenderOptions()), nil
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return data, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}
