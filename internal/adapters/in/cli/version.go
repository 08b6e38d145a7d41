package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	labelColor = color.New(color.FgHiBlack)
	errorColor = color.New(color.FgRed, color.Bold)
)

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			titleColor.Fprintf(out, "stevedore %s\n", Version)
			labelColor.Fprint(out, "Commit:     ")
			fmt.Fprintln(out, Commit)
			labelColor.Fprint(out, "Build Date: ")
			fmt.Fprintln(out, BuildDate)
		},
	}
}
