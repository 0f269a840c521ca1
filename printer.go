package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"curlcraft/internal/curlcmd"
	"curlcraft/internal/release"
)

const (
	formatBoth   = "both"
	formatPretty = "pretty"
	formatSingle = "single"
)

// printCommand writes the requested renderings. Headings are only added
// when both forms are printed so a single form can be piped as is.
func printCommand(w io.Writer, cmd curlcmd.Command, format string) {
	yellow := color.New(color.FgYellow).SprintFunc()

	switch format {
	case formatPretty:
		fmt.Fprintln(w, cmd.Pretty)
	case formatSingle:
		fmt.Fprintln(w, cmd.SingleLine)
	default:
		fmt.Fprintln(w, yellow("🌿 Formatted"))
		fmt.Fprintln(w, cmd.Pretty)
		fmt.Fprintln(w)
		fmt.Fprintln(w, yellow("➖ Single Line"))
		fmt.Fprintln(w, cmd.SingleLine)
	}
}

// printProblems lists validation problems, one per line.
func printProblems(w io.Writer, title string, problems []string) {
	red := color.New(color.FgRed).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Fprintln(w, red("❌ "+title))
	for _, p := range problems {
		fmt.Fprintf(w, "  - %s\n", white(p))
	}
}

func printSaved(w io.Writer, rf release.RecentFile) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(w, "%s %s saved to %s\n", green("✅"), rf.Name, rf.Path)
}

func printRecentFiles(w io.Writer, files []release.RecentFile) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No recent files.")
		return
	}

	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	for _, f := range files {
		fmt.Fprintf(w, "%s\n    %s  %s  %s\n",
			white(f.Name),
			faint(f.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			f.Source,
			truncateString(f.Path, 80),
		)
	}
}

func truncateString(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
